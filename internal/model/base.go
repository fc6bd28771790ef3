package model

import (
	"fmt"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/google/uuid"
)

type BaseModel struct {
	ID        string    `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// ImageUpload is an already-received upload: original filename plus bytes.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// ValidateID rejects identifiers that are not UUIDs before they reach the
// store.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: invalid id %q", apperror.ErrValidation, id)
	}
	return nil
}
