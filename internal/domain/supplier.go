package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type PriceRange string

const (
	PriceRangeLow    PriceRange = "low"
	PriceRangeMedium PriceRange = "medium"
	PriceRangeHigh   PriceRange = "high"
)

// TagSet is a set of enum-like tags (shipping methods, payment methods)
// stored as a JSONB column.
type TagSet []string

func (t TagSet) Value() (driver.Value, error) {
	if len(t) == 0 {
		return nil, nil
	}
	return json.Marshal(t)
}

func (t *TagSet) Scan(value any) error {
	if value == nil {
		*t = nil
		return nil
	}
	data, ok := value.([]byte)
	if !ok {
		if s, sok := value.(string); sok {
			data = []byte(s)
		} else {
			return errors.New("tag set: unsupported scan type")
		}
	}
	return json.Unmarshal(data, t)
}

// ImageList is an ordered list of public image URLs stored as JSONB.
type ImageList []string

func (l ImageList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *ImageList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}
	data, ok := value.([]byte)
	if !ok {
		if s, sok := value.(string); sok {
			data = []byte(s)
		} else {
			return errors.New("image list: unsupported scan type")
		}
	}
	return json.Unmarshal(data, l)
}

// Supplier is the canonical supplier entity. Code is the human-assigned
// business key and is unique across the directory.
type Supplier struct {
	ID              uuid.UUID   `db:"id" json:"id"`
	Code            string      `db:"code" json:"code"`
	Name            string      `db:"name" json:"name"`
	Description     string      `db:"description" json:"description"`
	City            string      `db:"city" json:"city"`
	State           string      `db:"state" json:"state"`
	Instagram       *string     `db:"instagram" json:"instagram,omitempty"`
	Whatsapp        *string     `db:"whatsapp" json:"whatsapp,omitempty"`
	Website         *string     `db:"website" json:"website,omitempty"`
	AvgPrice        *PriceRange `db:"avg_price" json:"avg_price,omitempty"`
	MinOrder        *string     `db:"min_order" json:"min_order,omitempty"`
	ShippingMethods TagSet      `db:"shipping_methods" json:"shipping_methods,omitempty"`
	RequiresCNPJ    bool        `db:"requires_cnpj" json:"requires_cnpj"`
	PaymentMethods  TagSet      `db:"payment_methods" json:"payment_methods,omitempty"`
	Images          ImageList   `db:"images" json:"images,omitempty"`
	CategoryIDs     []uuid.UUID `db:"-" json:"category_ids,omitempty"`
	Locked          bool        `db:"-" json:"locked"`
	LockedMessage   *string     `db:"-" json:"locked_message,omitempty"`
	CreatedAt       time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updated_at"`
}

// ParsePriceRange maps free text to a PriceRange. It accepts the canonical
// tokens, their Portuguese labels, and the numeric 1-3 scale used by the
// import sheet.
func ParsePriceRange(raw string) (PriceRange, error) {
	switch normalizeToken(raw) {
	case "low", "baixo", "baixa", "1":
		return PriceRangeLow, nil
	case "medium", "medio", "media", "2":
		return PriceRangeMedium, nil
	case "high", "alto", "alta", "3":
		return PriceRangeHigh, nil
	default:
		return "", fmt.Errorf("invalid average price %q", raw)
	}
}
