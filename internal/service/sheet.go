package service

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/fornecelist/backend/internal/domain"
)

var (
	ErrImportEmptyFile        = errors.New("sheet file is empty")
	ErrImportTooLarge         = errors.New("sheet file exceeds maximum size")
	ErrImportInvalidHeaders   = errors.New("sheet headers missing required columns")
	ErrImportRowLimitExceeded = errors.New("sheet exceeds maximum allowed rows")
	ErrImportUnreadable       = errors.New("sheet file could not be parsed")
)

// sheetColumns is the fixed header contract of the supplier import sheet.
// The first row must carry these names; data rows start at row 2.
var sheetColumns = []string{
	"codigo", "nome", "descricao", "instagram", "whatsapp", "site",
	"preco_medio", "quantidade_minima", "cidade", "estado", "envio",
	"precisa_cnpj", "formas_pagamento", "tipo_fornecedor", "imagens",
}

// ParseSupplierSheet parses an uploaded spreadsheet (xlsx, or csv fallback by
// extension) into supplier rows. Structural problems are fatal and reported
// through the sentinel errors above.
func ParseSupplierSheet(filename string, contents []byte) ([]domain.SupplierRow, error) {
	if len(contents) == 0 {
		return nil, ErrImportEmptyFile
	}

	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		records, err = readCSV(contents)
	default:
		records, err = readXLSX(contents)
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrImportEmptyFile
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = domain.NormalizeKey(h)
	}
	if missing := missingColumns(header, sheetColumns); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrImportInvalidHeaders, strings.Join(missing, ", "))
	}

	rows := make([]domain.SupplierRow, 0, len(records)-1)
	for idx, record := range records[1:] {
		if isRecordEmpty(record) {
			continue
		}
		values := rowToMap(header, record)
		rows = append(rows, domain.SupplierRow{
			RowNumber:       idx + 2,
			Code:            values["codigo"],
			Name:            values["nome"],
			Description:     values["descricao"],
			Instagram:       values["instagram"],
			Whatsapp:        values["whatsapp"],
			Website:         values["site"],
			AvgPriceText:    values["preco_medio"],
			MinOrder:        values["quantidade_minima"],
			City:            values["cidade"],
			State:           values["estado"],
			ShippingMethods: splitTags(values["envio"]),
			RequiresCNPJ:    parseBoolPT(values["precisa_cnpj"]),
			PaymentMethods:  splitTags(values["formas_pagamento"]),
			CategoryNames:   splitTags(values["tipo_fornecedor"]),
			ImageHints:      splitTags(values["imagens"]),
		})
	}
	if len(rows) == 0 {
		return nil, ErrImportEmptyFile
	}
	return rows, nil
}

func readXLSX(contents []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(contents))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrImportUnreadable, err.Error())
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, ErrImportEmptyFile
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrImportUnreadable, err.Error())
	}
	return rows, nil
}

func readCSV(contents []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(contents))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records := make([][]string, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrImportUnreadable, err.Error())
		}
		records = append(records, record)
	}
	return records, nil
}

func missingColumns(header []string, required []string) []string {
	set := make(map[string]struct{}, len(header))
	for _, h := range header {
		set[h] = struct{}{}
	}
	var missing []string
	for _, req := range required {
		if _, ok := set[req]; !ok {
			missing = append(missing, req)
		}
	}
	return missing
}

func rowToMap(header []string, record []string) map[string]string {
	out := make(map[string]string, len(header))
	for idx, key := range header {
		val := ""
		if idx < len(record) {
			val = strings.TrimSpace(record[idx])
		}
		out[key] = val
	}
	return out
}

// splitTags splits a multi-value cell on commas and trims each token.
func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseBoolPT(raw string) bool {
	switch domain.NormalizeKey(raw) {
	case "sim", "s", "yes", "y", "true", "1", "verdadeiro":
		return true
	default:
		return false
	}
}

func isRecordEmpty(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
