package collector

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRequiredAndOptional(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlDoc(
		`<h1>Hola</h1><p> a </p><p></p><p>b</p><img src="/x.png">`)))
	require.NoError(t, err)

	rules := []Rule{
		{Field: "h", Selector: "h1", Required: true},
		{Field: "ps", Selector: "p", All: true},
		{Field: "first", Selector: "p"},
		{Field: "src", Selector: "img", Attr: "src"},
		{Field: "missing", Selector: ".nada"},
		{Field: "upper", Selector: "h1", Transform: strings.ToUpper},
	}
	got, err := Extract(doc.Selection, rules)
	require.NoError(t, err)

	assert.Equal(t, "Hola", got.First("h"))
	assert.Equal(t, []string{"a", "b"}, got["ps"])
	assert.Equal(t, "a", got.First("first"))
	assert.Equal(t, "/x.png", got.First("src"))
	assert.NotContains(t, got, "missing")
	assert.Equal(t, "", got.First("missing"))
	assert.Equal(t, "HOLA", got.First("upper"))

	_, err = Extract(doc.Selection, []Rule{{Field: "title", Selector: "header h1.entry-title", Required: true}})
	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "title", missing.Field)
}

func TestTrimPermalink(t *testing.T) {
	assert.Equal(t, "Noticia", trimPermalink("Vínculo Permanente a Noticia"))
	assert.Equal(t, "Story", trimPermalink("Permanent link to Story"))
	assert.Equal(t, "Sin prefijo", trimPermalink("Sin prefijo"))
}
