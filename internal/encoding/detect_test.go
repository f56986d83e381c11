package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/ruicoelho/tally/internal/encoding"
)

func TestUTF8Reader_Passthrough(t *testing.T) {
	input := "title,amount,type\nCafé,3.50,debit\n"

	r, err := encoding.UTF8Reader(bytes.NewReader([]byte(input)))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestUTF8Reader_StripsUTF8BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("title,amount,type\n")...)

	r, err := encoding.UTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "title,amount,type\n", string(got))
}

func TestUTF8Reader_UTF16LE(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()

	input, err := enc.Bytes([]byte("Café,3.50,debit\n"))
	require.NoError(t, err)

	r, err := encoding.UTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Café,3.50,debit\n", string(got))
}

func TestUTF8Reader_Windows1252Fallback(t *testing.T) {
	input, err := charmap.Windows1252.NewEncoder().Bytes([]byte("Padaria São João,12.00,debit\n"))
	require.NoError(t, err)

	r, err := encoding.UTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Padaria São João,12.00,debit\n", string(got))
}
