package bayernrecht

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const normPage = `<html><body>
<div class="paraheading">
  <div class="paranr">Art. 6a</div>
  <div class="paratitel">Versammlungsleitung</div>
</div>
<div class="paracontent">
  <div class="paratext"><sup class="satznr">1</sup>Der Veranstalter leitet die Versammlung. <sup class="satznr">2</sup>Er kann die Leitung einer anderen Person übertragen.</div>
  <div class="paratext">Die Leitung umfasst insbesondere:</div>
  <dl>
    <dt>1.</dt><dd>die Eröffnung,</dd>
    <dt>2.</dt><dd><sup class="satznr">1</sup>die Unterbrechung. <sup class="satznr">2</sup>Sie ist zu begründen.</dd>
  </dl>
  <dl>
    <dt>1.</dt><dd>eine alleinstehende Aufzählung</dd>
  </dl>
  <p>wird ignoriert</p>
</div>
</body></html>`

func TestParseNorm(t *testing.T) {
	record, err := ParseNorm([]byte(normPage))
	if err != nil {
		t.Fatal(err)
	}

	require.Equal(t, "6a", record.Number)
	require.Equal(t, "Art. 6a", record.NumberRaw)
	require.Equal(t, "Versammlungsleitung", record.Title)
	require.Empty(t, record.References)

	require.Len(t, record.Content, 3)

	require.Equal(t, BlockParagraph, record.Content[0].Kind)
	require.Equal(
		t,
		"<satznr>1</satznr>Der Veranstalter leitet die Versammlung. "+
			"<satznr>2</satznr>Er kann die Leitung einer anderen Person übertragen.",
		record.Content[0].Text,
	)
	require.Empty(t, record.Content[0].Items)

	// the dl right after the second paragraph belongs to it
	require.Equal(t, BlockParagraph, record.Content[1].Kind)
	require.Equal(t, "Die Leitung umfasst insbesondere:", record.Content[1].Text)
	require.Equal(t, []string{
		"die Eröffnung,",
		"<satznr>1</satznr>die Unterbrechung. <satznr>2</satznr>Sie ist zu begründen.",
	}, record.Content[1].Items)

	// the second dl has no preceding paragraph and stands alone
	require.Equal(t, BlockList, record.Content[2].Kind)
	require.Equal(t, []string{"eine alleinstehende Aufzählung"}, record.Content[2].Items)
}

func TestParseNormMissingHeading(t *testing.T) {
	_, err := ParseNorm([]byte(`<html><body><div class="paracontent"></div></body></html>`))
	require.ErrorIs(t, err, ErrNoHeading)
}

func TestParseNormNumberFallback(t *testing.T) {
	page := `<html><body>
<div class="paraheading">
  <div class="paranr">Vorbemerkung</div>
  <div class="paratitel"></div>
</div>
</body></html>`
	record, err := ParseNorm([]byte(page))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "Vorbemerkung", record.Number)
	require.Equal(t, "", record.Title)
}

func TestParseNormMissingContentContainer(t *testing.T) {
	page := `<html><body>
<div class="paraheading">
  <div class="paranr">Art. 1</div>
  <div class="paratitel">Titel</div>
</div>
</body></html>`
	record, err := ParseNorm([]byte(page))
	if err != nil {
		t.Fatal(err)
	}
	require.Empty(t, record.Content)
}

func TestParseOverviewDate(t *testing.T) {
	page := `<html><body><div class="gesamtfassung">Gesamtausgabe Stand: 01.08.2025</div></body></html>`
	date, ok := ParseOverviewDate([]byte(page))
	require.True(t, ok)
	require.Equal(t, "01.08.2025", date)

	_, ok = ParseOverviewDate([]byte(`<html><body>kein Datum</body></html>`))
	require.False(t, ok)
}

func TestFingerprint(t *testing.T) {
	base := NormRecord{
		NumberRaw: "Art. 1",
		Title:     "Titel",
		Content:   []Block{{Kind: BlockParagraph, Text: "Text"}},
	}

	require.Equal(t, base.Fingerprint(), base.Fingerprint())
	require.Len(t, base.Fingerprint(), 64)

	titleChanged := base
	titleChanged.Title = "Anderer Titel"
	require.NotEqual(t, base.Fingerprint(), titleChanged.Fingerprint())

	numberChanged := base
	numberChanged.NumberRaw = "Art. 2"
	require.NotEqual(t, base.Fingerprint(), numberChanged.Fingerprint())

	contentChanged := base
	contentChanged.Content = []Block{{Kind: BlockParagraph, Text: "Anderer Text"}}
	require.NotEqual(t, base.Fingerprint(), contentChanged.Fingerprint())

	// the url is not part of the digest
	urlChanged := base
	urlChanged.Url = "https://example.com"
	require.Equal(t, base.Fingerprint(), urlChanged.Fingerprint())
}
