package importer

import (
	"errors"
	"io"

	"github.com/MrJamesThe3rd/cestas/internal/item"
)

// ErrInvalidFile marks uploads that could not be parsed.
var ErrInvalidFile = errors.New("invalid import file")

type Format string

const (
	FormatPlanilha Format = "planilha"
)

type Importer interface {
	Parse(r io.Reader) ([]item.CreateParams, error)
}
