package tabular

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gridlens/domain/dataset"
	"gridlens/internal/errors"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// Reader parses CSV and XLSX content into immutable datasets.
type Reader struct {
	// SampleRows caps how many rows type inference looks at.
	SampleRows int
}

// NewReader creates a reader with the default inference sample size.
func NewReader() *Reader {
	return &Reader{SampleRows: 500}
}

// ReadFile parses a file on disk, picking the format from the extension.
func (r *Reader) ReadFile(path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()
	return r.Read(f, filepath.Base(path))
}

// Read parses uploaded content. The format is picked from the file name
// extension: .csv is read as CSV, .xlsx (and .xlsm) as Excel.
func (r *Reader) Read(src io.Reader, name string) (*dataset.Dataset, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return r.ReadCSV(src, name)
	case ".xlsx", ".xlsm":
		return r.ReadXLSX(src, name)
	default:
		return nil, errors.UnsupportedFile("unsupported file type, expected .csv or .xlsx")
	}
}

// ReadCSV parses CSV content into a dataset.
func (r *Reader) ReadCSV(src io.Reader, name string) (*dataset.Dataset, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.InvalidInput("malformed CSV content"), err.Error())
	}

	return r.buildDataset(rows, name)
}

// ReadXLSX parses the first sheet of an Excel workbook into a dataset.
func (r *Reader) ReadXLSX(src io.Reader, name string) (*dataset.Dataset, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, errors.Wrap(errors.InvalidInput("malformed Excel content"), err.Error())
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.EmptyDataset("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", sheets[0])
	}

	return r.buildDataset(rows, name)
}

// buildDataset converts raw string rows into an immutable dataset:
// header row, trimmed cells, per-record maps, inferred column types.
func (r *Reader) buildDataset(rows [][]string, name string) (*dataset.Dataset, error) {
	if len(rows) == 0 {
		return nil, errors.EmptyDataset("file has no rows")
	}
	if len(rows) < 2 {
		return nil, errors.EmptyDataset("file must have a header row and at least one data row")
	}

	headers := make([]string, 0, len(rows[0]))
	for _, h := range rows[0] {
		headers = append(headers, strings.TrimSpace(h))
	}
	if len(headers) == 0 || allEmpty(headers) {
		return nil, errors.EmptyDataset("header row is empty")
	}

	records := make([]dataset.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(dataset.Record, len(headers))
		for j, cell := range row {
			// Cells beyond the header width are dropped.
			if j >= len(headers) {
				break
			}
			rec[headers[j]] = strings.TrimSpace(cell)
		}
		records = append(records, rec)
	}

	ds := &dataset.Dataset{
		ID:         uuid.NewString(),
		Name:       name,
		Headers:    headers,
		Records:    records,
		UploadedAt: time.Now().UTC(),
	}
	ds.Types = r.inferTypes(ds)
	return ds, nil
}

func allEmpty(values []string) bool {
	for _, v := range values {
		if v != "" {
			return false
		}
	}
	return true
}
