package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fornecelist/backend/internal/domain"
	"github.com/fornecelist/backend/internal/repository/ports"
)

type memJobRepo struct {
	jobs       []*domain.SupplierImportJob
	failCreate bool
	failUpdate bool
	updates    int
}

func (r *memJobRepo) CreateJob(_ context.Context, job *domain.SupplierImportJob) (*domain.SupplierImportJob, error) {
	if r.failCreate {
		return nil, errors.New("insert failed")
	}
	stored := *job
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.jobs = append(r.jobs, &stored)
	out := stored
	return &out, nil
}

func (r *memJobRepo) UpdateJob(_ context.Context, job *domain.SupplierImportJob) (*domain.SupplierImportJob, error) {
	r.updates++
	if r.failUpdate {
		return nil, errors.New("update failed")
	}
	for i, existing := range r.jobs {
		if existing.ID == job.ID {
			stored := *job
			r.jobs[i] = &stored
			break
		}
	}
	out := *job
	return &out, nil
}

func (r *memJobRepo) FindJobByID(_ context.Context, id uuid.UUID) (*domain.SupplierImportJob, error) {
	for _, job := range r.jobs {
		if job.ID == id {
			out := *job
			return &out, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *memJobRepo) ListJobs(_ context.Context, _, _ int) ([]domain.SupplierImportJob, error) {
	out := make([]domain.SupplierImportJob, 0, len(r.jobs))
	for _, job := range r.jobs {
		out = append(out, *job)
	}
	return out, nil
}

type memSupplierRepo struct {
	existingCodes []string
	created       []*domain.Supplier
	failCodes     map[string]error
	failListCodes bool
}

func (r *memSupplierRepo) Create(_ context.Context, supplier *domain.Supplier) (*domain.Supplier, error) {
	if err, ok := r.failCodes[supplier.Code]; ok {
		return nil, err
	}
	stored := *supplier
	stored.ID = uuid.New()
	r.created = append(r.created, &stored)
	out := stored
	return &out, nil
}

func (r *memSupplierRepo) FindByID(_ context.Context, _ uuid.UUID) (*domain.Supplier, error) {
	return nil, errors.New("not found")
}

func (r *memSupplierRepo) FindByCode(_ context.Context, _ string) (*domain.Supplier, error) {
	return nil, errors.New("not found")
}

func (r *memSupplierRepo) List(_ context.Context, _ ports.SupplierFilter) ([]domain.Supplier, error) {
	return nil, nil
}

func (r *memSupplierRepo) ListCodes(_ context.Context) ([]string, error) {
	if r.failListCodes {
		return nil, errors.New("db down")
	}
	return r.existingCodes, nil
}

type memCategoryRepo struct {
	categories []domain.Category
}

func (r *memCategoryRepo) ListAll(_ context.Context) ([]domain.Category, error) {
	return r.categories, nil
}

type stubCorrelator struct {
	imageMap domain.ImageMap
	stats    CorrelationStats
	err      error
	called   bool
}

func (s *stubCorrelator) CorrelateAndUpload(_ context.Context, _ []byte) (domain.ImageMap, CorrelationStats, error) {
	s.called = true
	return s.imageMap, s.stats, s.err
}

func importFixture() (*SupplierImportService, *memJobRepo, *memSupplierRepo, *stubCorrelator) {
	jobs := &memJobRepo{}
	suppliers := &memSupplierRepo{}
	categories := &memCategoryRepo{categories: []domain.Category{
		{ID: uuid.New(), Name: "Moda Feminina"},
		{ID: uuid.New(), Name: "Decoração"},
	}}
	correlator := &stubCorrelator{imageMap: domain.ImageMap{}}
	svc := NewSupplierImportService(jobs, suppliers, categories, correlator, SupplierImportServiceConfig{})
	return svc, jobs, suppliers, correlator
}

func sheetOf(rows ...string) []byte {
	return []byte(csvHeader + strings.Join(rows, "\n") + "\n")
}

func TestImportCreatesAllRows(t *testing.T) {
	svc, jobs, suppliers, _ := importFixture()

	sheet := sheetOf(
		"F001,Nome Um,Desc,,,,medio,,Cidade,UF,,sim,pix,Moda Feminina,",
		"F002,Nome Dois,Desc,,,,alto,,Cidade,UF,,nao,,Decoração,",
	)

	var percents []int
	job, err := svc.Import(context.Background(), uuid.New(), "f.csv", sheet, nil, func(p int) {
		percents = append(percents, p)
	})
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if job.Status != domain.SupplierImportStatusCompleted {
		t.Fatalf("expected completed status, got %s", job.Status)
	}
	if job.SuccessCount != 2 || job.ErrorCount != 0 || job.TotalRows != 2 {
		t.Fatalf("unexpected counts: %+v", job)
	}
	if job.RunStatus == nil || *job.RunStatus != domain.ImportRunSuccess {
		t.Fatalf("expected run status success, got %v", job.RunStatus)
	}
	if len(suppliers.created) != 2 {
		t.Fatalf("expected 2 suppliers created, got %d", len(suppliers.created))
	}
	if suppliers.created[0].AvgPrice == nil || *suppliers.created[0].AvgPrice != domain.PriceRangeMedium {
		t.Fatalf("expected parsed price range, got %+v", suppliers.created[0].AvgPrice)
	}
	if len(suppliers.created[0].CategoryIDs) != 1 {
		t.Fatalf("expected resolved category ids, got %v", suppliers.created[0].CategoryIDs)
	}
	if len(percents) != 2 || percents[len(percents)-1] != 100 {
		t.Fatalf("expected progress to end at 100, got %v", percents)
	}
	for i := 1; i < len(percents); i++ {
		if percents[i] < percents[i-1] {
			t.Fatalf("expected monotone progress, got %v", percents)
		}
	}
	if len(jobs.jobs) != 1 {
		t.Fatalf("expected one job record, got %d", len(jobs.jobs))
	}
}

func TestImportValidationFailureBlocksEverything(t *testing.T) {
	svc, _, suppliers, _ := importFixture()
	suppliers.existingCodes = []string{"F002"}

	// F002 duplicates an existing code; F001 is perfectly valid but must not
	// be created either.
	sheet := sheetOf(
		"F001,Nome Um,Desc,,,,medio,,Cidade,UF,,sim,,Moda Feminina,",
		"F002,Nome Dois,Desc,,,,alto,,Cidade,UF,,nao,,Moda Feminina,",
	)

	job, err := svc.Import(context.Background(), uuid.New(), "f.csv", sheet, nil, nil)
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if job.Status != domain.SupplierImportStatusValidationFailed {
		t.Fatalf("expected validation_failed, got %s", job.Status)
	}
	if len(suppliers.created) != 0 {
		t.Fatalf("expected zero writes on validation failure, created %d", len(suppliers.created))
	}
	if job.SuccessCount != 0 {
		t.Fatalf("expected zero successes, got %d", job.SuccessCount)
	}
	if _, ok := job.Errors["F002"]; !ok {
		t.Fatalf("expected errors keyed by code, got %v", job.Errors)
	}
}

func TestImportRowWithoutCodeGetsSyntheticKey(t *testing.T) {
	svc, _, _, _ := importFixture()

	sheet := sheetOf(",Nome,Desc,,,,medio,,Cidade,UF,,sim,,Moda Feminina,")
	job, err := svc.Import(context.Background(), uuid.New(), "f.csv", sheet, nil, nil)
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if job.Status != domain.SupplierImportStatusValidationFailed {
		t.Fatalf("expected validation_failed, got %s", job.Status)
	}
	if _, ok := job.Errors["linha-2"]; !ok {
		t.Fatalf("expected synthetic row key, got %v", job.Errors.Keys())
	}
}

func TestImportExecutionFailureIsPerRow(t *testing.T) {
	svc, _, suppliers, _ := importFixture()
	suppliers.failCodes = map[string]error{"F002": errors.New("unique constraint violated")}

	sheet := sheetOf(
		"F001,Nome Um,Desc,,,,medio,,Cidade,UF,,sim,,Moda Feminina,",
		"F002,Nome Dois,Desc,,,,alto,,Cidade,UF,,nao,,Moda Feminina,",
		"F003,Nome Três,Desc,,,,baixo,,Cidade,UF,,nao,,Moda Feminina,",
	)

	var percents []int
	job, err := svc.Import(context.Background(), uuid.New(), "f.csv", sheet, nil, func(p int) {
		percents = append(percents, p)
	})
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if job.Status != domain.SupplierImportStatusCompleted {
		t.Fatalf("expected completed even with row failures, got %s", job.Status)
	}
	if job.SuccessCount != 2 || job.ErrorCount != 1 {
		t.Fatalf("unexpected counts: success=%d error=%d", job.SuccessCount, job.ErrorCount)
	}
	if job.SuccessCount+job.ErrorCount != job.TotalRows {
		t.Fatalf("expected counts to partition total rows")
	}
	if job.RunStatus == nil || *job.RunStatus != domain.ImportRunPartial {
		t.Fatalf("expected partial run status, got %v", job.RunStatus)
	}
	if percents[len(percents)-1] != 100 {
		t.Fatalf("expected progress to reach 100 despite failures, got %v", percents)
	}
	if len(suppliers.created) != 2 {
		t.Fatalf("expected siblings to be created, got %d", len(suppliers.created))
	}
}

func TestImportHistoryWriteFailureDoesNotFailRun(t *testing.T) {
	svc, jobs, suppliers, _ := importFixture()
	jobs.failCreate = true
	jobs.failUpdate = true

	sheet := sheetOf("F001,Nome,Desc,,,,medio,,Cidade,UF,,sim,,Moda Feminina,")
	job, err := svc.Import(context.Background(), uuid.New(), "f.csv", sheet, nil, nil)
	if err != nil {
		t.Fatalf("expected history failure to be absorbed, got %v", err)
	}
	if job.Status != domain.SupplierImportStatusCompleted || job.SuccessCount != 1 {
		t.Fatalf("expected import to succeed regardless of history, got %+v", job)
	}
	if len(suppliers.created) != 1 {
		t.Fatalf("expected supplier created, got %d", len(suppliers.created))
	}
}

func TestImportSnapshotFailureAborts(t *testing.T) {
	svc, _, suppliers, _ := importFixture()
	suppliers.failListCodes = true

	sheet := sheetOf("F001,Nome,Desc,,,,medio,,Cidade,UF,,sim,,Moda Feminina,")
	if _, err := svc.Import(context.Background(), uuid.New(), "f.csv", sheet, nil, nil); err == nil {
		t.Fatalf("expected error when the snapshot cannot be fetched")
	}
	if len(suppliers.created) != 0 {
		t.Fatalf("expected no writes without a snapshot")
	}
}

func TestImportRowLimit(t *testing.T) {
	jobs := &memJobRepo{}
	suppliers := &memSupplierRepo{}
	categories := &memCategoryRepo{categories: []domain.Category{{ID: uuid.New(), Name: "Moda Feminina"}}}
	svc := NewSupplierImportService(jobs, suppliers, categories, &stubCorrelator{}, SupplierImportServiceConfig{MaxRows: 1})

	sheet := sheetOf(
		"F001,Nome,Desc,,,,medio,,Cidade,UF,,sim,,Moda Feminina,",
		"F002,Nome,Desc,,,,medio,,Cidade,UF,,sim,,Moda Feminina,",
	)
	if _, err := svc.Import(context.Background(), uuid.New(), "f.csv", sheet, nil, nil); !errors.Is(err, ErrImportRowLimitExceeded) {
		t.Fatalf("expected ErrImportRowLimitExceeded, got %v", err)
	}
}

func TestImportAttachesUploadedImages(t *testing.T) {
	svc, _, suppliers, correlator := importFixture()
	correlator.imageMap = domain.ImageMap{"F001": {"https://cdn.test/suppliers/F001/a.jpg"}}
	correlator.stats = CorrelationStats{Uploaded: 1, Failed: 2}

	sheet := sheetOf(
		"F001,Nome Um,Desc,,,,medio,,Cidade,UF,,sim,,Moda Feminina,\"F001-a.jpg\"",
		"F002,Nome Dois,Desc,,,,alto,,Cidade,UF,,nao,,Moda Feminina,\"F002-b.jpg\"",
	)
	job, err := svc.Import(context.Background(), uuid.New(), "f.csv", sheet, []byte("zip-bytes"), nil)
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if !correlator.called {
		t.Fatalf("expected correlator to run when a zip is present")
	}
	if job.ImagesUploaded != 1 || job.ImagesFailed != 2 {
		t.Fatalf("expected image stats on the job, got %+v", job)
	}
	if len(suppliers.created[0].Images) != 1 {
		t.Fatalf("expected F001 to carry its uploaded image, got %v", suppliers.created[0].Images)
	}
	if len(suppliers.created[1].Images) != 0 {
		t.Fatalf("expected F002 to have no images, got %v", suppliers.created[1].Images)
	}
	// F002 referenced images that never made it to storage.
	if _, ok := job.Warnings["F002"]; !ok {
		t.Fatalf("expected warning for unfulfilled image hints, got %v", job.Warnings)
	}
	if _, ok := job.Warnings["F001"]; ok {
		t.Fatalf("did not expect warning for fulfilled hints")
	}
}

func TestImportSkipsCorrelatorWithoutZip(t *testing.T) {
	svc, _, _, correlator := importFixture()
	sheet := sheetOf("F001,Nome,Desc,,,,medio,,Cidade,UF,,sim,,Moda Feminina,")
	if _, err := svc.Import(context.Background(), uuid.New(), "f.csv", sheet, nil, nil); err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if correlator.called {
		t.Fatalf("expected correlator to be skipped without an archive")
	}
}

func TestErrorsCSV(t *testing.T) {
	job := &domain.SupplierImportJob{
		Errors: domain.RowErrorSet{
			"F002": {"code already exists"},
			"F001": {`category "X, Y" not found`, "invalid average price"},
		},
	}
	data, err := ErrorsCSV(job)
	if err != nil {
		t.Fatalf("ErrorsCSV returned error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "Código,Erro" {
		t.Fatalf("expected header Código,Erro, got %q", lines[0])
	}
	if len(lines) != 4 {
		t.Fatalf("expected 3 data lines, got %v", lines)
	}
	// Keys are sorted, and a message containing a comma is quoted.
	if !strings.HasPrefix(lines[1], "F001,") || !strings.Contains(lines[1], `"`) {
		t.Fatalf("expected quoted F001 line first, got %q", lines[1])
	}
	if lines[3] != "F002,code already exists" {
		t.Fatalf("unexpected last line %q", lines[3])
	}
}
