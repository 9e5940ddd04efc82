package service

import (
	"fmt"
	"strings"

	"github.com/fornecelist/backend/internal/domain"
)

// ValidateSupplierRow checks one parsed sheet row against the current
// snapshot of existing codes and known categories. All rules are evaluated;
// errors accumulate rather than short-circuiting, so a row can carry several
// at once. The function is pure: it is called once for the pre-import review
// and again immediately before execution to catch concurrent state changes.
func ValidateSupplierRow(row domain.SupplierRow, existingCodes map[string]struct{}, index *CategoryIndex) []string {
	var errs []string

	for _, field := range []struct {
		name  string
		value string
	}{
		{"code", row.Code},
		{"name", row.Name},
		{"description", row.Description},
		{"city", row.City},
		{"state", row.State},
	} {
		if strings.TrimSpace(field.value) == "" {
			errs = append(errs, fmt.Sprintf("%s is required", field.name))
		}
	}

	if code := strings.TrimSpace(row.Code); code != "" {
		if _, exists := existingCodes[code]; exists {
			errs = append(errs, "code already exists")
		}
	}

	if strings.TrimSpace(row.AvgPriceText) != "" {
		if _, err := domain.ParsePriceRange(row.AvgPriceText); err != nil {
			errs = append(errs, "invalid average price")
		}
	}

	names := make([]string, 0, len(row.CategoryNames))
	for _, name := range row.CategoryNames {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	if len(names) == 0 {
		errs = append(errs, "at least one category is required")
	} else {
		for _, name := range names {
			if _, ok := index.Resolve(name); !ok {
				errs = append(errs, fmt.Sprintf("category %q not found", name))
			}
		}
	}

	return errs
}
