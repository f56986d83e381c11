package importer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/ruicoelho/tally/internal/importer"
	"github.com/ruicoelho/tally/internal/ledger"
)

func TestParse_WithHeader(t *testing.T) {
	csv := `title,amount,type
Salary,5000.00,credit
Groceries,73.40,debit
`

	params, err := importer.NewService().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, "Salary", params[0].Title)
	assert.Equal(t, int64(500000), params[0].Amount)
	assert.Equal(t, ledger.TypeCredit, params[0].Type)

	assert.Equal(t, "Groceries", params[1].Title)
	assert.Equal(t, int64(7340), params[1].Amount)
	assert.Equal(t, ledger.TypeDebit, params[1].Type)
}

func TestParse_WithoutHeader(t *testing.T) {
	csv := "Coffee,3.5,debit\n\nRent,800,debit\n"

	params, err := importer.NewService().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, int64(350), params[0].Amount)
	assert.Equal(t, int64(80000), params[1].Amount)
}

func TestParse_Windows1252Statement(t *testing.T) {
	encoded, err := charmap.Windows1252.NewEncoder().Bytes([]byte("Cartão refeição,25.00,credit\n"))
	require.NoError(t, err)

	params, err := importer.NewService().Parse(strings.NewReader(string(encoded)))
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, "Cartão refeição", params[0].Title)
}

func TestParse_BadAmount(t *testing.T) {
	type testCase struct {
		name string
		csv  string
	}

	tests := []testCase{
		{name: "NotANumber", csv: "Coffee,lots,debit\n"},
		{name: "SubCent", csv: "Coffee,3.501,debit\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := importer.NewService().Parse(strings.NewReader(tt.csv))
			assert.Nil(t, params)

			var verr *ledger.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "amount", verr.Field)
			assert.Contains(t, err.Error(), "row 1")
		})
	}
}

func TestParse_MissingColumns(t *testing.T) {
	params, err := importer.NewService().Parse(strings.NewReader("Coffee,3.50\n"))
	assert.Nil(t, params)

	var verr *ledger.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestParse_Empty(t *testing.T) {
	params, err := importer.NewService().Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, params)
}
