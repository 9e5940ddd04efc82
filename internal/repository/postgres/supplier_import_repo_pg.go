package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fornecelist/backend/internal/domain"
)

type SupplierImportRepository struct {
	db *sqlx.DB
}

func NewSupplierImportRepo(db *sqlx.DB) *SupplierImportRepository {
	return &SupplierImportRepository{db: db}
}

const importJobColumns = `id, uploaded_by, filename, status, run_status, total_rows,
       success_count, error_count, images_uploaded, images_failed,
       errors, warnings, submitted_at, completed_at, created_at, updated_at`

func (r *SupplierImportRepository) CreateJob(ctx context.Context, job *domain.SupplierImportJob) (*domain.SupplierImportJob, error) {
	const query = `
		INSERT INTO supplier_import_job (
			id, uploaded_by, filename, status, run_status, total_rows,
			success_count, error_count, images_uploaded, images_failed,
			errors, warnings, submitted_at, completed_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12, $13, $14, NOW(), NOW()
		)
		RETURNING ` + importJobColumns

	var inserted domain.SupplierImportJob
	if err := r.db.GetContext(ctx, &inserted, query,
		job.ID,
		job.UploadedBy,
		job.Filename,
		job.Status,
		runStatusValue(job.RunStatus),
		job.TotalRows,
		job.SuccessCount,
		job.ErrorCount,
		job.ImagesUploaded,
		job.ImagesFailed,
		job.Errors,
		job.Warnings,
		job.SubmittedAt,
		nullTimePtr(job.CompletedAt),
	); err != nil {
		return nil, err
	}
	return &inserted, nil
}

func (r *SupplierImportRepository) UpdateJob(ctx context.Context, job *domain.SupplierImportJob) (*domain.SupplierImportJob, error) {
	const query = `
		UPDATE supplier_import_job
		SET status = $2,
		    run_status = $3,
		    total_rows = $4,
		    success_count = $5,
		    error_count = $6,
		    images_uploaded = $7,
		    images_failed = $8,
		    errors = $9,
		    warnings = $10,
		    completed_at = $11,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + importJobColumns

	var updated domain.SupplierImportJob
	if err := r.db.GetContext(ctx, &updated, query,
		job.ID,
		job.Status,
		runStatusValue(job.RunStatus),
		job.TotalRows,
		job.SuccessCount,
		job.ErrorCount,
		job.ImagesUploaded,
		job.ImagesFailed,
		job.Errors,
		job.Warnings,
		nullTimePtr(job.CompletedAt),
	); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *SupplierImportRepository) FindJobByID(ctx context.Context, id uuid.UUID) (*domain.SupplierImportJob, error) {
	query := `SELECT ` + importJobColumns + ` FROM supplier_import_job WHERE id = $1`
	var job domain.SupplierImportJob
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *SupplierImportRepository) ListJobs(ctx context.Context, limit, offset int) ([]domain.SupplierImportJob, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := `SELECT ` + importJobColumns + `
		FROM supplier_import_job
		ORDER BY submitted_at DESC
		LIMIT $1 OFFSET $2`
	jobs := make([]domain.SupplierImportJob, 0)
	if err := r.db.SelectContext(ctx, &jobs, query, limit, offset); err != nil {
		return nil, err
	}
	return jobs, nil
}

func runStatusValue(status *domain.ImportRunStatus) any {
	if status == nil {
		return nil
	}
	return *status
}
