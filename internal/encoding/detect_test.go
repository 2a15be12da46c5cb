package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/cestas/internal/encoding"
)

const header = "Nome;Quantidade;Preço unitário\nFeijão;30;7,25\nAçúcar;25;4,75\n"

func TestDecode(t *testing.T) {
	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte(header))
	require.NoError(t, err)

	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(header))
	require.NoError(t, err)

	type testCase struct {
		name        string
		input       []byte
		wantCharset string
	}

	tests := []testCase{
		{name: "UTF8Passthrough", input: []byte(header), wantCharset: encoding.CharsetUTF8},
		{name: "UTF8BOM", input: append([]byte{0xEF, 0xBB, 0xBF}, header...), wantCharset: encoding.CharsetUTF8},
		{name: "UTF16LE", input: utf16, wantCharset: encoding.CharsetUTF16LE},
		{name: "Latin1", input: latin1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, charset, err := encoding.Decode(bytes.NewReader(tt.input))
			require.NoError(t, err)

			got, err := io.ReadAll(r)
			require.NoError(t, err)

			assert.Equal(t, header, string(got))
			if tt.wantCharset != "" {
				assert.Equal(t, tt.wantCharset, charset)
			}
		})
	}
}

func TestDecode_Empty(t *testing.T) {
	r, charset, err := encoding.Decode(bytes.NewReader(nil))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, encoding.CharsetUTF8, charset)
}
