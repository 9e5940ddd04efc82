package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// SupplierRow is one parsed spreadsheet line. It is consumed once by
// validation and import and never persisted as-is.
type SupplierRow struct {
	RowNumber       int
	Code            string
	Name            string
	Description     string
	Instagram       string
	Whatsapp        string
	Website         string
	AvgPriceText    string
	MinOrder        string
	City            string
	State           string
	ShippingMethods []string
	RequiresCNPJ    bool
	PaymentMethods  []string
	CategoryNames   []string
	ImageHints      []string
}

// Key returns the row's business key, or a synthetic per-row key when the
// code cell is blank so errors still have a stable address.
func (r SupplierRow) Key() string {
	if r.Code != "" {
		return r.Code
	}
	return syntheticRowKey(r.RowNumber)
}

func syntheticRowKey(rowNumber int) string {
	return "linha-" + strconv.Itoa(rowNumber)
}

// RowErrorSet maps a row's business key to its ordered error messages.
// A key with no entry is import-eligible; any non-empty list makes the row
// ineligible.
type RowErrorSet map[string][]string

func (s RowErrorSet) Add(key, message string) {
	s[key] = append(s[key], message)
}

func (s RowErrorSet) HasErrors() bool {
	for _, msgs := range s {
		if len(msgs) > 0 {
			return true
		}
	}
	return false
}

// Keys returns the row keys in sorted order for deterministic exports.
func (s RowErrorSet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s RowErrorSet) Value() (driver.Value, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return json.Marshal(s)
}

func (s *RowErrorSet) Scan(value any) error {
	if value == nil {
		*s = RowErrorSet{}
		return nil
	}
	data, ok := value.([]byte)
	if !ok {
		if str, sok := value.(string); sok {
			data = []byte(str)
		} else {
			return errors.New("row error set: unsupported scan type")
		}
	}
	return json.Unmarshal(data, s)
}

// ImageMap maps a supplier business key to its uploaded image URLs.
// A missing key means no images were uploaded for that code.
type ImageMap map[string][]string

type SupplierImportStatus string

const (
	SupplierImportStatusProcessing       SupplierImportStatus = "processing"
	SupplierImportStatusCompleted        SupplierImportStatus = "completed"
	SupplierImportStatusValidationFailed SupplierImportStatus = "validation_failed"
	SupplierImportStatusFailed           SupplierImportStatus = "failed"
)

type ImportRunStatus string

const (
	ImportRunSuccess ImportRunStatus = "success"
	ImportRunPartial ImportRunStatus = "partial"
	ImportRunError   ImportRunStatus = "error"
)

// SupplierImportJob is the audit record of one import run.
type SupplierImportJob struct {
	ID             uuid.UUID            `db:"id" json:"id"`
	UploadedBy     uuid.UUID            `db:"uploaded_by" json:"uploaded_by"`
	Filename       string               `db:"filename" json:"filename"`
	Status         SupplierImportStatus `db:"status" json:"status"`
	RunStatus      *ImportRunStatus     `db:"run_status" json:"run_status,omitempty"`
	TotalRows      int                  `db:"total_rows" json:"total_rows"`
	SuccessCount   int                  `db:"success_count" json:"success_count"`
	ErrorCount     int                  `db:"error_count" json:"error_count"`
	ImagesUploaded int                  `db:"images_uploaded" json:"images_uploaded"`
	ImagesFailed   int                  `db:"images_failed" json:"images_failed"`
	Errors         RowErrorSet          `db:"errors" json:"errors,omitempty"`
	Warnings       RowErrorSet          `db:"warnings" json:"warnings,omitempty"`
	SubmittedAt    time.Time            `db:"submitted_at" json:"submitted_at"`
	CompletedAt    *time.Time           `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt      time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time            `db:"updated_at" json:"updated_at"`
}

// ResolveRunStatus classifies a finished run: success means every row was
// created, error means none were, partial is everything in between.
func ResolveRunStatus(successCount, errorCount int) ImportRunStatus {
	switch {
	case errorCount == 0:
		return ImportRunSuccess
	case successCount == 0:
		return ImportRunError
	default:
		return ImportRunPartial
	}
}
