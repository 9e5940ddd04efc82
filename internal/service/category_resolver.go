package service

import (
	"github.com/google/uuid"

	"github.com/fornecelist/backend/internal/domain"
)

// CategoryIndex is a read-only lookup from normalized category name to the
// canonical category id, built once per import run.
type CategoryIndex struct {
	byName map[string]uuid.UUID
}

// BuildCategoryIndex normalizes every known category name (lowercase,
// diacritics stripped, trimmed) into a lookup map. Two distinct names that
// normalize to the same key collide and the last one inserted wins; this is a
// known limitation and is not corrected here.
func BuildCategoryIndex(categories []domain.Category) *CategoryIndex {
	byName := make(map[string]uuid.UUID, len(categories))
	for _, category := range categories {
		byName[domain.NormalizeKey(category.Name)] = category.ID
	}
	return &CategoryIndex{byName: byName}
}

// Resolve looks up a free-text category name. A miss is not an error; callers
// report it as a validation failure.
func (i *CategoryIndex) Resolve(name string) (uuid.UUID, bool) {
	id, ok := i.byName[domain.NormalizeKey(name)]
	return id, ok
}

func (i *CategoryIndex) Len() int {
	return len(i.byName)
}
