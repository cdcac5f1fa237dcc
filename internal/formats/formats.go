// Package formats extracts translatable units from source documents.
// Each supported format is a Kind; the position of a unit inside its
// source document is carried by a format-specific Locator.
package formats

import (
	"fmt"
	"io"
)

// Kind identifies a source document format.
type Kind string

const (
	Xliff Kind = "xliff"
	Txt   Kind = "txt"
)

// Kinds lists every supported format.
var Kinds = []Kind{Xliff, Txt}

// ParseKind validates s as a supported format.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case Xliff, Txt:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Locator ties an extracted unit back to its position in the source document.
// The set of implementations is closed: XliffLocator and TxtLocator.
type Locator interface {
	Kind() Kind
	locator()
}

// XliffLocator identifies an XLIFF translation unit and its workflow state.
type XliffLocator struct {
	UnitID string `json:"unit_id" yaml:"unit_id"`
	State  string `json:"state" yaml:"state"`
}

// Kind returns Xliff.
func (XliffLocator) Kind() Kind { return Xliff }
func (XliffLocator) locator()   {}

// TxtLocator is the byte offset of a sentence in a plain-text document.
type TxtLocator struct {
	Offset int64 `json:"offset" yaml:"offset"`
}

// Kind returns Txt.
func (TxtLocator) Kind() Kind { return Txt }
func (TxtLocator) locator()   {}

// Unit is one translatable segment in document order.
type Unit struct {
	Source   string
	Target   string
	Approved bool
	Locator  Locator
}

// Extractor reads a raw source document and returns its units in order.
type Extractor interface {
	Extract(r io.Reader) ([]Unit, error)
}

// ExtractorFor returns the extractor for k.
func ExtractorFor(k Kind) (Extractor, error) {
	switch k {
	case Xliff:
		return xliffExtractor{}, nil
	case Txt:
		return txtExtractor{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, k)
	}
}
