// Package memstore is an in-memory hierarchy store with the same
// repository contracts as the Postgres repositories. Use-case tests share
// one Store across the per-collection views so cascades and joins see the
// same data.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/category"
	catdto "github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/parentcategory"
	"github.com/fekuna/omnipos-catalog-service/internal/product"
	proddto "github.com/fekuna/omnipos-catalog-service/internal/product/dto"
)

var (
	_ parentcategory.Repository = (*ParentCategoryRepo)(nil)
	_ category.Repository       = (*CategoryRepo)(nil)
	_ product.Repository        = (*ProductRepo)(nil)
)

type Store struct {
	mu         sync.Mutex
	parents    map[string]model.ParentCategory
	categories map[string]model.Category
	products   map[string]model.Product

	// Err, when set, is returned by every write.
	Err error
}

func New() *Store {
	return &Store{
		parents:    map[string]model.ParentCategory{},
		categories: map[string]model.Category{},
		products:   map[string]model.Product{},
	}
}

func (s *Store) ParentCategories() *ParentCategoryRepo { return &ParentCategoryRepo{s} }
func (s *Store) Categories() *CategoryRepo             { return &CategoryRepo{s} }
func (s *Store) Products() *ProductRepo                { return &ProductRepo{s} }

// Seeding helpers bypass validation so tests can build dangling
// references.

func (s *Store) PutParent(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parents[id] = model.ParentCategory{BaseModel: base(id), Name: name}
}

func (s *Store) PutCategory(id, name, parentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[id] = model.Category{BaseModel: base(id), Name: name, ParentCategoryID: parentID}
}

func (s *Store) PutProduct(p model.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.CreatedAt.IsZero() {
		p.BaseModel = base(p.ID)
	}
	s.products[p.ID] = p
}

func (s *Store) Counts() (parents, categories, products int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.parents), len(s.categories), len(s.products)
}

// Product returns the raw stored product.
func (s *Store) Product(id string) (model.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	return p, ok
}

func base(id string) model.BaseModel {
	now := time.Now()
	return model.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now}
}

// joinCategory fills the parent fields when the parent exists. Callers
// hold the lock.
func (s *Store) joinCategory(c model.Category) model.Category {
	if pc, ok := s.parents[c.ParentCategoryID]; ok {
		c.ParentCategoryName = pc.Name
		c.ParentCategory = &model.ParentCategory{BaseModel: pc.BaseModel, Name: pc.Name}
	}
	return c
}

// rewriteImages applies rw to the products accepted by match. The caller
// holds the lock.
func (s *Store) rewriteImages(rw model.PathRewrite, match func(model.Product) bool) int64 {
	var n int64
	for id, p := range s.products {
		if !match(p) {
			continue
		}
		paths := make(model.StringList, len(p.ImagePaths))
		changed := false
		for i, old := range p.ImagePaths {
			var ok bool
			paths[i], ok = rw.Apply(old)
			changed = changed || ok
		}
		if changed {
			p.ImagePaths = paths
			s.products[id] = p
			n++
		}
	}
	return n
}

// executeCascade runs plan with the lock held.
func (s *Store) executeCascade(plan *model.CascadePlan) (map[string]int64, error) {

	deleted := map[string]int64{}
	for _, step := range plan.Steps {
		for _, id := range step.IDs {
			var found bool
			switch step.Collection {
			case model.CollectionProducts:
				_, found = s.products[id]
				delete(s.products, id)
			case model.CollectionCategories:
				_, found = s.categories[id]
				delete(s.categories, id)
			case model.CollectionParentCategories:
				_, found = s.parents[id]
				delete(s.parents, id)
			default:
				return nil, fmt.Errorf("cascade: unknown collection %q", step.Collection)
			}
			if found {
				deleted[step.Collection]++
			}
		}
	}
	return deleted, nil
}

type ParentCategoryRepo struct{ s *Store }

func (r *ParentCategoryRepo) Create(_ context.Context, pc *model.ParentCategory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	r.s.parents[pc.ID] = *pc
	return nil
}

func (r *ParentCategoryRepo) FindByID(_ context.Context, id string) (*model.ParentCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	pc, ok := r.s.parents[id]
	if !ok {
		return nil, nil
	}
	return &pc, nil
}

func (r *ParentCategoryRepo) FindAll(_ context.Context) ([]model.ParentCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]model.ParentCategory, 0, len(r.s.parents))
	for _, pc := range r.s.parents {
		pc.SubCategories = []model.Category{}
		for _, c := range r.s.categories {
			if c.ParentCategoryID == pc.ID {
				pc.SubCategories = append(pc.SubCategories, c)
			}
		}
		sort.Slice(pc.SubCategories, func(i, j int) bool { return pc.SubCategories[i].Name < pc.SubCategories[j].Name })
		out = append(out, pc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ParentCategoryRepo) Rename(_ context.Context, pc *model.ParentCategory, images model.PathRewrite) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	if _, ok := r.s.parents[pc.ID]; ok {
		r.s.parents[pc.ID] = model.ParentCategory{BaseModel: pc.BaseModel, Name: pc.Name}
	}
	return r.s.rewriteImages(images, func(p model.Product) bool {
		c, ok := r.s.categories[p.CategoryID]
		return ok && c.ParentCategoryID == pc.ID
	}), nil
}

func (r *ParentCategoryRepo) DeleteCascade(_ context.Context, id string) (map[string]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}

	categoryIDs := []string{}
	inParent := map[string]bool{}
	for _, c := range r.s.categories {
		if c.ParentCategoryID == id {
			categoryIDs = append(categoryIDs, c.ID)
			inParent[c.ID] = true
		}
	}
	productIDs := []string{}
	for _, p := range r.s.products {
		if inParent[p.CategoryID] {
			productIDs = append(productIDs, p.ID)
		}
	}
	return r.s.executeCascade(model.NewCascadePlan(productIDs, categoryIDs, []string{id}))
}

type CategoryRepo struct{ s *Store }

func (r *CategoryRepo) Create(_ context.Context, c *model.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	r.s.categories[c.ID] = model.Category{BaseModel: c.BaseModel, Name: c.Name, ParentCategoryID: c.ParentCategoryID}
	return nil
}

func (r *CategoryRepo) FindByID(_ context.Context, id string) (*model.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	c = r.s.joinCategory(c)
	return &c, nil
}

func (r *CategoryRepo) FindAll(_ context.Context, f *catdto.CategoryFilters) ([]model.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.Category{}
	for _, c := range r.s.categories {
		if f != nil && f.ParentCategoryID != "" && c.ParentCategoryID != f.ParentCategoryID {
			continue
		}
		c = r.s.joinCategory(c)
		if c.ParentCategory == nil {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ParentCategoryName != out[j].ParentCategoryName {
			return out[i].ParentCategoryName < out[j].ParentCategoryName
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *CategoryRepo) Rename(_ context.Context, c *model.Category, images model.PathRewrite) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	if stored, ok := r.s.categories[c.ID]; ok {
		stored.Name = c.Name
		stored.UpdatedAt = c.UpdatedAt
		r.s.categories[c.ID] = stored
	}
	return r.s.rewriteImages(images, func(p model.Product) bool {
		return p.CategoryID == c.ID
	}), nil
}

func (r *CategoryRepo) DeleteCascade(_ context.Context, id string) (map[string]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}

	productIDs := []string{}
	for _, p := range r.s.products {
		if p.CategoryID == id {
			productIDs = append(productIDs, p.ID)
		}
	}
	return r.s.executeCascade(model.NewCascadePlan(productIDs, []string{id}, nil))
}

type ProductRepo struct{ s *Store }

func (r *ProductRepo) Create(_ context.Context, p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	stored := *p
	stored.Category = nil
	r.s.products[p.ID] = stored
	return nil
}

func (r *ProductRepo) FindByID(_ context.Context, id string) (*model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	if c, ok := r.s.categories[p.CategoryID]; ok {
		c = r.s.joinCategory(c)
		if c.ParentCategory != nil {
			p.Category = &c
		}
	}
	return &p, nil
}

func (r *ProductRepo) Edit(_ context.Context, id string, e *proddto.ProductEdit) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return false, r.s.Err
	}
	p, ok := r.s.products[id]
	if !ok {
		return false, nil
	}
	if v := e.Variant; v != nil {
		opts := model.ProductOptions{}
		for k, o := range p.Options {
			opts[k] = o
		}
		opts[v.OptionKey] = v.Option
		p.Options = opts
	}
	if vis := e.Visibility; vis != nil {
		p.Pinned = vis.Pinned
		p.ProductStatus = vis.ProductStatus
	}
	p.UpdatedAt = time.Now()
	r.s.products[id] = p
	return true, nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return false, r.s.Err
	}
	if _, ok := r.s.products[id]; !ok {
		return false, nil
	}
	delete(r.s.products, id)
	return true, nil
}
