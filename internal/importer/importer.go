package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	enc "github.com/ruicoelho/tally/internal/encoding"
	"github.com/ruicoelho/tally/internal/ledger"
)

// Service parses CSV statements into ledger create params.
//
// Expected columns: title, amount, type. Amount is a decimal number of
// currency units ("12.50"); type is credit or debit. A leading header row
// is skipped when present.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

func (s *Service) Parse(r io.Reader) ([]ledger.CreateParams, error) {
	utf8r, err := enc.UTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &ledger.ValidationError{Field: "file", Message: fmt.Sprintf("malformed csv: %v", err)}
	}

	var params []ledger.CreateParams

	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}

		if isBlank(row) {
			continue
		}

		p, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		params = append(params, p)
	}

	return params, nil
}

func isHeader(row []string) bool {
	return len(row) >= 3 &&
		strings.EqualFold(strings.TrimSpace(row[0]), "title") &&
		strings.EqualFold(strings.TrimSpace(row[1]), "amount") &&
		strings.EqualFold(strings.TrimSpace(row[2]), "type")
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}

func parseRow(row []string) (ledger.CreateParams, error) {
	if len(row) < 3 {
		return ledger.CreateParams{}, &ledger.ValidationError{
			Field:   "file",
			Message: "expected title, amount and type columns",
		}
	}

	amount, err := parseAmount(row[1])
	if err != nil {
		return ledger.CreateParams{}, &ledger.ValidationError{
			Field:   "amount",
			Message: err.Error(),
		}
	}

	return ledger.CreateParams{
		Title:  strings.TrimSpace(row[0]),
		Amount: amount,
		Type:   ledger.Type(strings.ToLower(strings.TrimSpace(row[2]))),
	}, nil
}

// parseAmount converts a decimal string of currency units into cents.
// "12.50" -> 1250. Sub-cent precision is rejected rather than rounded.
func parseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}

	cents := d.Mul(decimal.NewFromInt(100))
	if !cents.IsInteger() {
		return 0, fmt.Errorf("sub-cent precision: %q", s)
	}

	return cents.IntPart(), nil
}
