package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shandysiswandi/godash/internal/dashboard/entity"
)

var (
	// ErrNoColumns is the cause when the input has no header row.
	ErrNoColumns = errors.New("no columns to parse from file")
	// ErrInvalidEncoding is the cause when a field is not valid UTF-8.
	ErrInvalidEncoding = errors.New("file is not valid UTF-8 text")
)

// ParseError reports why input could not be read as a dataset.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

//nolint:gochecknoglobals // read-only lookup table
var missingMarkers = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// Load reads the CSV file at path.
func Load(path string) (*entity.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read parses CSV from r. The first record is the header.
func Read(r io.Reader) (*entity.Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Err: ErrNoColumns}
	}
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	names, err := columnNames(header)
	if err != nil {
		return nil, &ParseError{Line: 1, Err: err}
	}

	ncol := len(names)
	cells := make([][]string, ncol)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Err: err}
		}

		line, _ := reader.FieldPos(0)
		if len(record) > ncol {
			return nil, &ParseError{Line: line, Err: fmt.Errorf("expected %d fields, saw %d", ncol, len(record))}
		}

		for j := 0; j < ncol; j++ {
			field := ""
			if j < len(record) {
				field = record[j]
			}
			if !utf8.ValidString(field) {
				return nil, &ParseError{Line: line, Err: ErrInvalidEncoding}
			}
			cells[j] = append(cells[j], field)
		}
	}

	columns := make([]entity.Column, ncol)
	for j, name := range names {
		columns[j] = inferColumn(name, cells[j])
	}

	return &entity.Table{Columns: columns}, nil
}

// columnNames copies the header, naming blank columns "Unnamed: <i>" and
// suffixing repeats with ".1", ".2", ...
func columnNames(header []string) ([]string, error) {
	names := make([]string, len(header))
	taken := make(map[string]struct{}, len(header))

	for i, raw := range header {
		if i == 0 {
			raw = strings.TrimPrefix(raw, "\ufeff")
		}
		if !utf8.ValidString(raw) {
			return nil, ErrInvalidEncoding
		}

		name := strings.TrimSpace(raw)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}

		base := name
		for n := 1; ; n++ {
			if _, dup := taken[name]; !dup {
				break
			}
			name = base + "." + strconv.Itoa(n)
		}

		taken[name] = struct{}{}
		names[i] = name
	}

	return names, nil
}

func inferColumn(name string, raw []string) entity.Column {
	values := make([]entity.Value, len(raw))
	numeric := true
	present := 0

	for i, s := range raw {
		trimmed := strings.TrimSpace(s)
		if _, missing := missingMarkers[trimmed]; missing {
			values[i] = entity.Value{Raw: s, Missing: true}
			continue
		}

		present++
		values[i] = entity.Value{Raw: s}
		if !numeric {
			continue
		}

		n, ok := parseNumber(trimmed)
		if !ok {
			numeric = false
			continue
		}
		values[i].Number = n
	}

	kind := entity.ColumnKindText
	if numeric && present > 0 {
		kind = entity.ColumnKindNumeric
	}

	return entity.Column{Name: name, Kind: kind, Values: values}
}

// parseNumber accepts decimal and exponent forms. Out of range values become
// ±Inf; hex literals are text.
func parseNumber(s string) (float64, bool) {
	digits := strings.TrimLeft(s, "+-")
	if len(digits) > 1 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return 0, false
	}
	if strings.ContainsRune(s, '_') {
		return 0, false
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}

	return n, true
}
