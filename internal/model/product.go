package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

type Product struct {
	BaseModel
	Name          string         `db:"name" json:"name"`
	Description   string         `db:"description" json:"description"`
	Brand         string         `db:"brand" json:"brand"`
	CategoryID    string         `db:"category_id" json:"categoryId"`
	Options       ProductOptions `db:"options" json:"options"`
	Pinned        bool           `db:"pinned" json:"pinned"`
	ProductStatus bool           `db:"product_status" json:"productStatus"`
	ImagePaths    StringList     `db:"image_paths" json:"imagePaths"`
	Category      *Category      `db:"-" json:"category,omitempty"` // Joined data
}

// ProductOption is one purchasable variant of a product, keyed by option
// name (e.g. "50ml") in ProductOptions.
type ProductOption struct {
	Price             float64 `json:"price"`
	QuantityAvailable int     `json:"quantityAvailable"`
	Discount          float64 `json:"discount"`
}

type ProductOptions map[string]ProductOption

func (o ProductOptions) Value() (driver.Value, error) {
	if o == nil {
		return "{}", nil
	}
	return marshalJSON(o)
}

func (o *ProductOptions) Scan(src any) error {
	return scanJSON(src, o)
}

// StringList is a JSONB-backed ordered list of strings.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return marshalJSON(l)
}

func (l *StringList) Scan(src any) error {
	return scanJSON(src, l)
}

// marshalJSON returns text rather than bytes: lib/pq sends []byte
// parameters as bytea, which jsonb columns reject.
func marshalJSON(v any) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func scanJSON(src any, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return errors.New("unsupported JSONB source type")
	}
}
