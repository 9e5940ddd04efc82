package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/fornecelist/backend/internal/domain"
)

type SupplierImportRepository interface {
	CreateJob(ctx context.Context, job *domain.SupplierImportJob) (*domain.SupplierImportJob, error)
	UpdateJob(ctx context.Context, job *domain.SupplierImportJob) (*domain.SupplierImportJob, error)
	FindJobByID(ctx context.Context, id uuid.UUID) (*domain.SupplierImportJob, error)
	ListJobs(ctx context.Context, limit, offset int) ([]domain.SupplierImportJob, error)
}
