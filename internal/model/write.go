package model

import (
	"errors"
	"strings"
)

// Collections touched by a cascade delete, in the order they must be
// emptied.
const (
	CollectionProducts         = "products"
	CollectionCategories       = "categories"
	CollectionParentCategories = "parent_categories"
)

// DeletionStep removes a set of ids from one collection.
type DeletionStep struct {
	Collection string
	IDs        []string
}

// CascadePlan is the dependency-ordered list of deletions computed before
// any row is removed.
type CascadePlan struct {
	Steps []DeletionStep
}

// Count returns how many ids the plan removes from collection.
func (p *CascadePlan) Count(collection string) int {
	n := 0
	for _, s := range p.Steps {
		if s.Collection == collection {
			n += len(s.IDs)
		}
	}
	return n
}

// WriteResult reports both halves of a store+mirror write. StoreCommitted
// with a non-nil MirrorErr is a partial failure: the row changed but the
// directory tree did not follow.
type WriteResult struct {
	ID             string
	StoreCommitted bool
	Deleted        bool
	MirrorErrs     []error
}

func (r *WriteResult) AddMirrorErr(err error) {
	if err != nil {
		r.MirrorErrs = append(r.MirrorErrs, err)
	}
}

// MirrorErr joins every mirror failure, nil when the mirror kept up.
func (r *WriteResult) MirrorErr() error {
	return errors.Join(r.MirrorErrs...)
}

func (r *WriteResult) Partial() bool {
	return r.StoreCommitted && len(r.MirrorErrs) > 0
}

// NewCascadePlan orders the deletions leaf-first: products, then
// categories, then parent categories. A crash between steps can only leave
// orphaned leaves, never a surviving parent pointing at a deleted child.
func NewCascadePlan(productIDs, categoryIDs, parentIDs []string) *CascadePlan {
	return &CascadePlan{Steps: []DeletionStep{
		{Collection: CollectionProducts, IDs: productIDs},
		{Collection: CollectionCategories, IDs: categoryIDs},
		{Collection: CollectionParentCategories, IDs: parentIDs},
	}}
}

// PathRewrite moves stored image paths from one directory prefix to
// another. Both prefixes end in a slash so a sibling whose name merely
// starts with the old one is left alone.
type PathRewrite struct {
	Old string
	New string
}

func (r PathRewrite) IsZero() bool {
	return r.Old == "" || r.Old == r.New
}

// Apply returns p with the old prefix replaced, and whether it matched.
func (r PathRewrite) Apply(p string) (string, bool) {
	if r.IsZero() {
		return p, false
	}
	rest, ok := strings.CutPrefix(p, r.Old)
	if !ok {
		return p, false
	}
	return r.New + rest, true
}
