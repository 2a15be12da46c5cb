// Package encoding normalises uploaded spreadsheets to UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffSize = 4096

const (
	CharsetUTF8        = "UTF-8"
	CharsetUTF16LE     = "UTF-16LE"
	CharsetUTF16BE     = "UTF-16BE"
	CharsetWindows1252 = "windows-1252"
	CharsetISO8859_9   = "ISO-8859-9"
)

var boms = []struct {
	prefix  []byte
	charset string
	decoder xencoding.Encoding
}{
	{[]byte{0xEF, 0xBB, 0xBF}, CharsetUTF8, nil},
	{[]byte{0xFF, 0xFE}, CharsetUTF16LE, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)},
	{[]byte{0xFE, 0xFF}, CharsetUTF16BE, unicode.UTF16(unicode.BigEndian, unicode.UseBOM)},
}

// detected maps chardet results onto decoders. Brazilian spreadsheets saved by
// Excel are usually windows-1252, reported by chardet as ISO-8859-1.
var detected = map[string]struct {
	charset string
	decoder xencoding.Encoding
}{
	"ISO-8859-1":   {CharsetWindows1252, charmap.Windows1252},
	"windows-1252": {CharsetWindows1252, charmap.Windows1252},
	"ISO-8859-9":   {CharsetISO8859_9, charmap.ISO8859_9},
}

// Decode returns a reader yielding r as UTF-8 together with the charset it
// was read as. A byte order mark is honoured and stripped, valid UTF-8 passes
// through, anything else goes through chardet and finally windows-1252.
func Decode(r io.Reader) (io.Reader, string, error) {
	br := bufio.NewReader(r)

	buf, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	for _, bom := range boms {
		if !bytes.HasPrefix(buf, bom.prefix) {
			continue
		}

		if bom.decoder == nil {
			_, _ = br.Discard(len(bom.prefix))
			return br, bom.charset, nil
		}

		return transform.NewReader(br, bom.decoder.NewDecoder()), bom.charset, nil
	}

	if utf8.Valid(buf) {
		return br, CharsetUTF8, nil
	}

	if result, err := chardet.NewTextDetector().DetectBest(buf); err == nil {
		if result.Charset == CharsetUTF8 {
			return br, CharsetUTF8, nil
		}

		if d, ok := detected[result.Charset]; ok {
			return transform.NewReader(br, d.decoder.NewDecoder()), d.charset, nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), CharsetWindows1252, nil
}
