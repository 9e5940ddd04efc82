package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fornecelist/backend/internal/domain"
	"github.com/fornecelist/backend/internal/repository/ports"
)

type listSupplierRepo struct {
	memSupplierRepo
	suppliers []domain.Supplier
}

func (r *listSupplierRepo) List(_ context.Context, _ ports.SupplierFilter) ([]domain.Supplier, error) {
	return r.suppliers, nil
}

func (r *listSupplierRepo) FindByCode(_ context.Context, code string) (*domain.Supplier, error) {
	for i := range r.suppliers {
		if r.suppliers[i].Code == code {
			out := r.suppliers[i]
			return &out, nil
		}
	}
	return nil, ErrSupplierNotFound
}

func TestSupplierListAppliesGatePerEntity(t *testing.T) {
	allowedID := uuid.New()
	lockedID := uuid.New()
	repo := &listSupplierRepo{suppliers: []domain.Supplier{
		{ID: allowedID, Code: "F001", Instagram: strPtr("@um")},
		{ID: lockedID, Code: "F002", Instagram: strPtr("@dois")},
	}}

	trial := &domain.TrialState{
		Status:           domain.TrialStatusActive,
		EndDate:          timePtr(time.Now().Add(time.Hour)),
		AllowedEntityIDs: domain.UUIDList{allowedID},
	}
	gate := NewAccessGateService(
		&stubTrialRepo{trial: trial},
		&stubRuleRepo{rule: supplierRule()},
		&stubUserRepo{user: &domain.User{ID: uuid.New()}},
		&stubArticleRepo{},
	)
	svc := NewSupplierService(repo, gate)

	suppliers, decision, err := svc.List(context.Background(), uuid.New(), ports.SupplierFilter{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if decision.Access != domain.AccessLimitedCount {
		t.Fatalf("expected limited_count decision, got %s", decision.Access)
	}
	if len(suppliers) != 2 {
		t.Fatalf("expected locked entities listed rather than hidden, got %d", len(suppliers))
	}
	if suppliers[0].Locked || suppliers[0].Instagram == nil {
		t.Fatalf("expected allowed supplier unlocked, got %+v", suppliers[0])
	}
	if !suppliers[1].Locked || suppliers[1].Instagram != nil {
		t.Fatalf("expected outside supplier locked and sanitized, got %+v", suppliers[1])
	}
}

func TestSupplierGetByCodeNotFound(t *testing.T) {
	repo := &listSupplierRepo{}
	gate := NewAccessGateService(
		&stubTrialRepo{},
		&stubRuleRepo{rule: supplierRule()},
		&stubUserRepo{user: &domain.User{ID: uuid.New(), SubscriptionActive: true}},
		&stubArticleRepo{},
	)
	svc := NewSupplierService(repo, gate)

	if _, err := svc.GetByCode(context.Background(), uuid.New(), "F404"); err != ErrSupplierNotFound {
		t.Fatalf("expected ErrSupplierNotFound, got %v", err)
	}
}
