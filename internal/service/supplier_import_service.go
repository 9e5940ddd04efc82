package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fornecelist/backend/internal/domain"
	"github.com/fornecelist/backend/internal/repository/ports"
)

// ProgressFunc receives the integer percentage of rows processed so far.
// It is invoked after every row, regardless of that row's outcome.
type ProgressFunc func(percent int)

type correlator interface {
	CorrelateAndUpload(ctx context.Context, archive []byte) (domain.ImageMap, CorrelationStats, error)
}

type SupplierImportServiceConfig struct {
	MaxRows      int
	MaxFileBytes int64
	MaxZipBytes  int64
}

type SupplierImportService struct {
	jobs       ports.SupplierImportRepository
	suppliers  ports.SupplierRepository
	categories ports.CategoryRepository
	images     correlator
	maxRows    int
	maxFile    int64
	maxZip     int64
	now        func() time.Time
}

func NewSupplierImportService(
	jobs ports.SupplierImportRepository,
	suppliers ports.SupplierRepository,
	categories ports.CategoryRepository,
	images correlator,
	cfg SupplierImportServiceConfig,
) *SupplierImportService {
	maxRows := cfg.MaxRows
	if maxRows <= 0 {
		maxRows = 500
	}
	maxFile := cfg.MaxFileBytes
	if maxFile <= 0 {
		maxFile = 5 * 1024 * 1024
	}
	maxZip := cfg.MaxZipBytes
	if maxZip <= 0 {
		maxZip = 50 * 1024 * 1024
	}
	return &SupplierImportService{
		jobs:       jobs,
		suppliers:  suppliers,
		categories: categories,
		images:     images,
		maxRows:    maxRows,
		maxFile:    maxFile,
		maxZip:     maxZip,
		now:        time.Now,
	}
}

// Import runs one bulk import: parse, authoritative validation of every row
// against a fresh snapshot, image correlation, then sequential row creation.
//
// Validation failures are fatal to the whole run (zero writes); execution
// failures after the validation gate are per-row and never abort siblings.
// The audit record is written best-effort: failing to persist history never
// fails an otherwise-successful import.
func (s *SupplierImportService) Import(
	ctx context.Context,
	uploadedBy uuid.UUID,
	filename string,
	sheet []byte,
	imagesZip []byte,
	onProgress ProgressFunc,
) (*domain.SupplierImportJob, error) {
	if s.maxFile > 0 && int64(len(sheet)) > s.maxFile {
		return nil, ErrImportTooLarge
	}
	if s.maxZip > 0 && int64(len(imagesZip)) > s.maxZip {
		return nil, ErrImportTooLarge
	}

	rows, err := ParseSupplierSheet(filename, sheet)
	if err != nil {
		return nil, err
	}
	if s.maxRows > 0 && len(rows) > s.maxRows {
		return nil, ErrImportRowLimitExceeded
	}

	job := &domain.SupplierImportJob{
		ID:          uuid.New(),
		UploadedBy:  uploadedBy,
		Filename:    filename,
		Status:      domain.SupplierImportStatusProcessing,
		TotalRows:   len(rows),
		Errors:      domain.RowErrorSet{},
		Warnings:    domain.RowErrorSet{},
		SubmittedAt: s.now(),
	}
	if created, err := s.jobs.CreateJob(ctx, job); err != nil {
		log.Printf("import: create job record: %v", err)
	} else {
		job = created
		if job.Errors == nil {
			job.Errors = domain.RowErrorSet{}
		}
		if job.Warnings == nil {
			job.Warnings = domain.RowErrorSet{}
		}
	}

	// Authoritative snapshot: never trust the review-time state, another
	// import may have claimed a code since.
	existingCodes, index, err := s.fetchSnapshot(ctx)
	if err != nil {
		s.finishJob(ctx, job, domain.SupplierImportStatusFailed)
		return nil, err
	}

	validationErrors := domain.RowErrorSet{}
	for _, row := range rows {
		if errs := ValidateSupplierRow(row, existingCodes, index); len(errs) > 0 {
			for _, msg := range errs {
				validationErrors.Add(row.Key(), msg)
			}
		}
	}
	if validationErrors.HasErrors() {
		// All-or-nothing gate: one invalid row refuses the whole run.
		job.Errors = validationErrors
		job.ErrorCount = len(validationErrors)
		s.finishJob(ctx, job, domain.SupplierImportStatusValidationFailed)
		return job, nil
	}

	imageMap := domain.ImageMap{}
	if len(imagesZip) > 0 {
		uploaded, stats, err := s.images.CorrelateAndUpload(ctx, imagesZip)
		if err != nil {
			s.finishJob(ctx, job, domain.SupplierImportStatusFailed)
			return nil, err
		}
		imageMap = uploaded
		job.ImagesUploaded = stats.Uploaded
		job.ImagesFailed = stats.Failed
	}

	for _, row := range rows {
		if len(row.ImageHints) > 0 {
			if _, ok := imageMap[row.Code]; !ok {
				job.Warnings.Add(row.Key(), "images referenced by the sheet were not uploaded")
			}
		}
	}

	for i, row := range rows {
		supplier, buildErr := buildSupplier(row, imageMap, index)
		if buildErr != nil {
			job.Errors.Add(row.Key(), buildErr.Error())
			job.ErrorCount++
		} else if _, createErr := s.suppliers.Create(ctx, supplier); createErr != nil {
			job.Errors.Add(row.Key(), createErr.Error())
			job.ErrorCount++
		} else {
			job.SuccessCount++
		}
		if onProgress != nil {
			onProgress((i + 1) * 100 / len(rows))
		}
	}

	runStatus := domain.ResolveRunStatus(job.SuccessCount, job.ErrorCount)
	job.RunStatus = &runStatus
	s.finishJob(ctx, job, domain.SupplierImportStatusCompleted)
	return job, nil
}

func (s *SupplierImportService) GetJob(ctx context.Context, jobID uuid.UUID) (*domain.SupplierImportJob, error) {
	return s.jobs.FindJobByID(ctx, jobID)
}

func (s *SupplierImportService) ListJobs(ctx context.Context, limit, offset int) ([]domain.SupplierImportJob, error) {
	return s.jobs.ListJobs(ctx, limit, offset)
}

// ErrorsCSV renders a job's error set as a downloadable CSV with the
// header "Código,Erro". Standard CSV quoting covers messages with commas
// or quotes.
func ErrorsCSV(job *domain.SupplierImportJob) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write([]string{"Código", "Erro"}); err != nil {
		return nil, err
	}
	for _, key := range job.Errors.Keys() {
		for _, msg := range job.Errors[key] {
			if err := writer.Write([]string{key, msg}); err != nil {
				return nil, err
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *SupplierImportService) fetchSnapshot(ctx context.Context) (map[string]struct{}, *CategoryIndex, error) {
	codes, err := s.suppliers.ListCodes(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch existing codes: %w", err)
	}
	codeSet := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		codeSet[strings.TrimSpace(code)] = struct{}{}
	}

	categories, err := s.categories.ListAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch categories: %w", err)
	}
	return codeSet, BuildCategoryIndex(categories), nil
}

// finishJob persists the run outcome. A failed history write is logged,
// never surfaced.
func (s *SupplierImportService) finishJob(ctx context.Context, job *domain.SupplierImportJob, status domain.SupplierImportStatus) {
	job.Status = status
	completed := s.now()
	job.CompletedAt = &completed
	if _, err := s.jobs.UpdateJob(ctx, job); err != nil {
		log.Printf("import: persist job history %s: %v", job.ID, err)
	}
}

// buildSupplier maps a validated row onto the canonical entity, resolving
// category names against the run's snapshot and attaching uploaded images.
func buildSupplier(row domain.SupplierRow, imageMap domain.ImageMap, index *CategoryIndex) (*domain.Supplier, error) {
	supplier := &domain.Supplier{
		Code:            strings.TrimSpace(row.Code),
		Name:            strings.TrimSpace(row.Name),
		Description:     strings.TrimSpace(row.Description),
		City:            strings.TrimSpace(row.City),
		State:           strings.TrimSpace(row.State),
		Instagram:       optionalString(row.Instagram),
		Whatsapp:        optionalString(row.Whatsapp),
		Website:         optionalString(row.Website),
		MinOrder:        optionalString(row.MinOrder),
		ShippingMethods: domain.TagSet(row.ShippingMethods),
		RequiresCNPJ:    row.RequiresCNPJ,
		PaymentMethods:  domain.TagSet(row.PaymentMethods),
		Images:          domain.ImageList(imageMap[row.Code]),
	}

	if strings.TrimSpace(row.AvgPriceText) != "" {
		price, err := domain.ParsePriceRange(row.AvgPriceText)
		if err != nil {
			return nil, err
		}
		supplier.AvgPrice = &price
	}

	for _, name := range row.CategoryNames {
		id, ok := index.Resolve(name)
		if !ok {
			return nil, fmt.Errorf("category %q not found", strings.TrimSpace(name))
		}
		supplier.CategoryIDs = append(supplier.CategoryIDs, id)
	}
	return supplier, nil
}

func optionalString(val string) *string {
	trimmed := strings.TrimSpace(val)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
