package formats_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/JaimeStill/scribe/internal/formats"
)

const xliff12 = `<?xml version="1.0" encoding="UTF-8"?>
<xliff version="1.2" xmlns="urn:oasis:names:tc:xliff:document:1.2">
  <file source-language="en" target-language="ru" datatype="plaintext" original="doc.txt">
    <body>
      <trans-unit id="1">
        <source>Regional Effects</source>
      </trans-unit>
      <group id="g1">
        <trans-unit id="2" approved="yes">
          <source>Approved text</source>
          <target state="translated">Утверждённый текст</target>
        </trans-unit>
        <trans-unit id="3">
          <source>Click <g id="b">here</g> &amp; go</source>
          <target state="needs-review-translation">Нажмите</target>
        </trans-unit>
      </group>
      <trans-unit id="4" translate="no">
        <source>Do not translate</source>
      </trans-unit>
      <trans-unit id="5">
        <source>   </source>
      </trans-unit>
      <trans-unit id="6">
        <source>Signed</source>
        <target state="signed-off">Подписано</target>
      </trans-unit>
    </body>
  </file>
</xliff>`

const xliff20 = `<?xml version="1.0" encoding="UTF-8"?>
<xliff version="2.0" xmlns="urn:oasis:names:tc:xliff:document:2.0" srcLang="en" trgLang="de">
  <file id="f1">
    <unit id="u1">
      <segment id="s1" state="final">
        <source>First sentence.</source>
        <target>Erster Satz.</target>
      </segment>
      <segment>
        <source>Second sentence.</source>
      </segment>
    </unit>
  </file>
</xliff>`

func TestXliff12Extract(t *testing.T) {
	units := extract(t, formats.Xliff, xliff12)

	want := []formats.Unit{
		{
			Source:  "Regional Effects",
			Locator: formats.XliffLocator{UnitID: "1", State: "new"},
		},
		{
			Source:   "Approved text",
			Target:   "Утверждённый текст",
			Approved: true,
			Locator:  formats.XliffLocator{UnitID: "2", State: "translated"},
		},
		{
			Source:  "Click here & go",
			Target:  "Нажмите",
			Locator: formats.XliffLocator{UnitID: "3", State: "needs-review-translation"},
		},
		{
			Source:   "Signed",
			Target:   "Подписано",
			Approved: true,
			Locator:  formats.XliffLocator{UnitID: "6", State: "signed-off"},
		},
	}

	if len(units) != len(want) {
		t.Fatalf("Extract() returned %d units, want %d: %+v", len(units), len(want), units)
	}
	for i := range want {
		if units[i] != want[i] {
			t.Errorf("unit %d = %+v, want %+v", i, units[i], want[i])
		}
	}
}

func TestXliff20Extract(t *testing.T) {
	units := extract(t, formats.Xliff, xliff20)

	want := []formats.Unit{
		{
			Source:   "First sentence.",
			Target:   "Erster Satz.",
			Approved: true,
			Locator:  formats.XliffLocator{UnitID: "u1/s1", State: "final"},
		},
		{
			Source:  "Second sentence.",
			Locator: formats.XliffLocator{UnitID: "u1/2", State: "initial"},
		},
	}

	if len(units) != len(want) {
		t.Fatalf("Extract() returned %d units, want %d", len(units), len(want))
	}
	for i := range want {
		if units[i] != want[i] {
			t.Errorf("unit %d = %+v, want %+v", i, units[i], want[i])
		}
	}
}

func TestXliffMalformed(t *testing.T) {
	ex, _ := formats.ExtractorFor(formats.Xliff)
	_, err := ex.Extract(strings.NewReader(`<xliff><file><body><trans-unit id="1"><source>open`))
	if !errors.Is(err, formats.ErrMalformed) {
		t.Errorf("Extract() error = %v, want ErrMalformed", err)
	}
}
