package service

import (
	"testing"

	"github.com/google/uuid"

	"github.com/fornecelist/backend/internal/domain"
)

func TestCategoryIndexResolveNormalizes(t *testing.T) {
	modaID := uuid.New()
	decoracaoID := uuid.New()
	index := BuildCategoryIndex([]domain.Category{
		{ID: modaID, Name: "Moda Feminina"},
		{ID: decoracaoID, Name: "Decoração"},
	})

	cases := []struct {
		input string
		want  uuid.UUID
	}{
		{"Moda Feminina", modaID},
		{"moda feminina", modaID},
		{"  MODA FEMININA  ", modaID},
		{"Decoração", decoracaoID},
		{"decoracao", decoracaoID},
		{"DECORAÇÃO", decoracaoID},
	}
	for _, tc := range cases {
		got, ok := index.Resolve(tc.input)
		if !ok {
			t.Fatalf("expected %q to resolve", tc.input)
		}
		if got != tc.want {
			t.Fatalf("resolved %q to wrong category", tc.input)
		}
	}

	if _, ok := index.Resolve("inexistente"); ok {
		t.Fatalf("expected unknown category to miss")
	}
}

func TestCategoryIndexInternalWhitespaceDistinct(t *testing.T) {
	singleID := uuid.New()
	doubleID := uuid.New()
	index := BuildCategoryIndex([]domain.Category{
		{ID: singleID, Name: "Plus Size"},
		{ID: doubleID, Name: "Plus  Size"},
	})

	if got, ok := index.Resolve("plus size"); !ok || got != singleID {
		t.Fatalf("expected single-space name to resolve to its own category")
	}
	if got, ok := index.Resolve("plus  size"); !ok || got != doubleID {
		t.Fatalf("expected double-space name to resolve to its own category")
	}
}

func TestCategoryIndexCollisionLastWins(t *testing.T) {
	firstID := uuid.New()
	secondID := uuid.New()
	index := BuildCategoryIndex([]domain.Category{
		{ID: firstID, Name: "Calçados"},
		{ID: secondID, Name: "calcados"},
	})

	if index.Len() != 1 {
		t.Fatalf("expected colliding names to share one key, got %d", index.Len())
	}
	got, ok := index.Resolve("calçados")
	if !ok {
		t.Fatalf("expected collided key to resolve")
	}
	if got != secondID {
		t.Fatalf("expected last inserted category to win the collision")
	}
}
