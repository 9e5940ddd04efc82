package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/fornecelist/backend/internal/domain"
	"github.com/fornecelist/backend/internal/repository/ports"
)

var ErrSupplierNotFound = errors.New("supplier not found")

// SupplierService serves the public directory. Every read passes through the
// access gate: entities outside the caller's tier are returned locked and
// sanitized, not hidden.
type SupplierService struct {
	suppliers ports.SupplierRepository
	gate      *AccessGateService
}

func NewSupplierService(suppliers ports.SupplierRepository, gate *AccessGateService) *SupplierService {
	return &SupplierService{suppliers: suppliers, gate: gate}
}

func (s *SupplierService) List(ctx context.Context, userID uuid.UUID, filter ports.SupplierFilter) ([]domain.Supplier, domain.AccessDecision, error) {
	suppliers, err := s.suppliers.List(ctx, filter)
	if err != nil {
		return nil, domain.AccessDecision{}, err
	}

	decision := s.gate.CheckAccess(ctx, userID, FeatureSuppliers)
	out := make([]domain.Supplier, 0, len(suppliers))
	for _, supplier := range suppliers {
		locked := !decision.Allows(supplier.ID)
		out = append(out, SanitizeSupplierForAccess(supplier, locked, decision.Message))
	}
	return out, decision, nil
}

func (s *SupplierService) GetByCode(ctx context.Context, userID uuid.UUID, code string) (*domain.Supplier, error) {
	supplier, err := s.suppliers.FindByCode(ctx, code)
	if err != nil {
		return nil, ErrSupplierNotFound
	}
	decision := s.gate.CheckAccess(ctx, userID, FeatureSuppliers)
	sanitized := SanitizeSupplierForAccess(*supplier, !decision.Allows(supplier.ID), decision.Message)
	return &sanitized, nil
}
