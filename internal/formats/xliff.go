package formats

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// StateTranslated is the XLIFF state recorded for units that received a new target.
const StateTranslated = "translated"

const (
	stateNew           = "new"
	stateInitial       = "initial"
	stateFinal         = "final"
	stateSignedOff     = "signed-off"
	approvedAttrValue  = "yes"
	translateAttrNever = "no"
)

type xliffText struct {
	Inner string `xml:",innerxml"`
}

type xliffTarget struct {
	State string `xml:"state,attr"`
	Inner string `xml:",innerxml"`
}

// transUnit is an XLIFF 1.2 <trans-unit>.
type transUnit struct {
	ID        string       `xml:"id,attr"`
	Approved  string       `xml:"approved,attr"`
	Translate string       `xml:"translate,attr"`
	Source    xliffText    `xml:"source"`
	Target    *xliffTarget `xml:"target"`
}

// unit is an XLIFF 2.0 <unit> holding one or more segments.
type unit struct {
	ID        string    `xml:"id,attr"`
	Translate string    `xml:"translate,attr"`
	Segments  []segment `xml:"segment"`
}

type segment struct {
	ID     string     `xml:"id,attr"`
	State  string     `xml:"state,attr"`
	Source xliffText  `xml:"source"`
	Target *xliffText `xml:"target"`
}

type xliffExtractor struct{}

// Extract streams the document and collects XLIFF 1.2 trans-units and
// XLIFF 2.0 unit segments in document order. Inline markup is flattened
// to its text content.
func (xliffExtractor) Extract(r io.Reader) ([]Unit, error) {
	dec := xml.NewDecoder(r)
	units := make([]Unit, 0)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "trans-unit":
			var tu transUnit
			if err := dec.DecodeElement(&tu, &start); err != nil {
				return nil, fmt.Errorf("%w: trans-unit: %w", ErrMalformed, err)
			}
			u, ok, err := fromTransUnit(tu)
			if err != nil {
				return nil, err
			}
			if ok {
				units = append(units, u)
			}
		case "unit":
			var xu unit
			if err := dec.DecodeElement(&xu, &start); err != nil {
				return nil, fmt.Errorf("%w: unit: %w", ErrMalformed, err)
			}
			extracted, err := fromUnit(xu)
			if err != nil {
				return nil, err
			}
			units = append(units, extracted...)
		}
	}

	return units, nil
}

func fromTransUnit(tu transUnit) (Unit, bool, error) {
	if tu.Translate == translateAttrNever {
		return Unit{}, false, nil
	}

	source, err := plainText(tu.Source.Inner)
	if err != nil {
		return Unit{}, false, fmt.Errorf("trans-unit %s source: %w", tu.ID, err)
	}
	if strings.TrimSpace(source) == "" {
		return Unit{}, false, nil
	}

	u := Unit{
		Source:   source,
		Approved: tu.Approved == approvedAttrValue,
		Locator:  XliffLocator{UnitID: tu.ID, State: stateNew},
	}

	if tu.Target != nil {
		target, err := plainText(tu.Target.Inner)
		if err != nil {
			return Unit{}, false, fmt.Errorf("trans-unit %s target: %w", tu.ID, err)
		}
		u.Target = target

		if tu.Target.State != "" {
			u.Locator = XliffLocator{UnitID: tu.ID, State: tu.Target.State}
		}
		if tu.Target.State == stateFinal || tu.Target.State == stateSignedOff {
			u.Approved = true
		}
	}

	return u, true, nil
}

func fromUnit(xu unit) ([]Unit, error) {
	if xu.Translate == translateAttrNever {
		return nil, nil
	}

	units := make([]Unit, 0, len(xu.Segments))
	for i, seg := range xu.Segments {
		segID := seg.ID
		if segID == "" {
			segID = fmt.Sprintf("%d", i+1)
		}
		id := xu.ID + "/" + segID

		source, err := plainText(seg.Source.Inner)
		if err != nil {
			return nil, fmt.Errorf("unit %s source: %w", id, err)
		}
		if strings.TrimSpace(source) == "" {
			continue
		}

		state := seg.State
		if state == "" {
			state = stateInitial
		}

		u := Unit{
			Source:   source,
			Approved: state == stateFinal,
			Locator:  XliffLocator{UnitID: id, State: state},
		}

		if seg.Target != nil {
			target, err := plainText(seg.Target.Inner)
			if err != nil {
				return nil, fmt.Errorf("unit %s target: %w", id, err)
			}
			u.Target = target
		}

		units = append(units, u)
	}

	return units, nil
}

// plainText returns the character data of an XML fragment, dropping inline elements.
func plainText(inner string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(inner))
	var sb strings.Builder

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return sb.String(), nil
		}
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		if cd, ok := tok.(xml.CharData); ok {
			sb.Write(cd)
		}
	}
}
