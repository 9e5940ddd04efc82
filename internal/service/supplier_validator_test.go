package service

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/fornecelist/backend/internal/domain"
)

func validRow() domain.SupplierRow {
	return domain.SupplierRow{
		RowNumber:     2,
		Code:          "F001",
		Name:          "Malhas Sul",
		Description:   "Atacado de malhas",
		AvgPriceText:  "medio",
		City:          "Porto Alegre",
		State:         "RS",
		CategoryNames: []string{"Moda Feminina"},
	}
}

func testIndex() *CategoryIndex {
	return BuildCategoryIndex([]domain.Category{
		{ID: uuid.New(), Name: "Moda Feminina"},
	})
}

func TestValidateSupplierRowValid(t *testing.T) {
	errs := ValidateSupplierRow(validRow(), map[string]struct{}{}, testIndex())
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidateSupplierRowRequiredFields(t *testing.T) {
	row := domain.SupplierRow{RowNumber: 2, CategoryNames: []string{"Moda Feminina"}}
	errs := ValidateSupplierRow(row, map[string]struct{}{}, testIndex())

	for _, want := range []string{
		"code is required",
		"name is required",
		"description is required",
		"city is required",
		"state is required",
	} {
		if !containsError(errs, want) {
			t.Fatalf("expected %q in %v", want, errs)
		}
	}
}

func TestValidateSupplierRowDuplicateCode(t *testing.T) {
	existing := map[string]struct{}{"F001": {}}
	errs := ValidateSupplierRow(validRow(), existing, testIndex())
	if !containsError(errs, "code already exists") {
		t.Fatalf("expected duplicate code error, got %v", errs)
	}
}

func TestValidateSupplierRowInvalidPrice(t *testing.T) {
	row := validRow()
	row.AvgPriceText = "caro demais"
	errs := ValidateSupplierRow(row, map[string]struct{}{}, testIndex())
	if !containsError(errs, "invalid average price") {
		t.Fatalf("expected price error, got %v", errs)
	}
}

func TestValidateSupplierRowBlankPriceAllowed(t *testing.T) {
	row := validRow()
	row.AvgPriceText = ""
	if errs := ValidateSupplierRow(row, map[string]struct{}{}, testIndex()); len(errs) != 0 {
		t.Fatalf("expected blank price to be optional, got %v", errs)
	}
}

func TestValidateSupplierRowCategories(t *testing.T) {
	row := validRow()
	row.CategoryNames = nil
	errs := ValidateSupplierRow(row, map[string]struct{}{}, testIndex())
	if !containsError(errs, "at least one category is required") {
		t.Fatalf("expected missing category error, got %v", errs)
	}

	row = validRow()
	row.CategoryNames = []string{"Moda Feminina", "Categoria Fantasma"}
	errs = ValidateSupplierRow(row, map[string]struct{}{}, testIndex())
	if !containsError(errs, `category "Categoria Fantasma" not found`) {
		t.Fatalf("expected unknown category to be named, got %v", errs)
	}
}

func TestValidateSupplierRowAccumulates(t *testing.T) {
	row := domain.SupplierRow{RowNumber: 3, Code: "F001", AvgPriceText: "???"}
	existing := map[string]struct{}{"F001": {}}
	errs := ValidateSupplierRow(row, existing, testIndex())

	// A single row can fail several rules at once.
	if len(errs) < 3 {
		t.Fatalf("expected accumulated errors, got %v", errs)
	}
	if !containsError(errs, "code already exists") || !containsError(errs, "invalid average price") {
		t.Fatalf("expected independent rules to all fire, got %v", errs)
	}
}

func TestValidateSupplierRowIsPure(t *testing.T) {
	row := validRow()
	existing := map[string]struct{}{}
	index := testIndex()

	first := ValidateSupplierRow(row, existing, index)
	second := ValidateSupplierRow(row, existing, index)
	if strings.Join(first, "|") != strings.Join(second, "|") {
		t.Fatalf("expected identical results on repeated validation")
	}
}

func containsError(errs []string, want string) bool {
	for _, e := range errs {
		if e == want {
			return true
		}
	}
	return false
}
