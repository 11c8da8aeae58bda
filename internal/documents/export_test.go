package documents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExporterHTML(t *testing.T) {
	exporter, err := NewPDFExporter(nil)
	require.NoError(t, err)

	doc := previewDocument()
	doc.ClientName = `<script>alert("x")</script>`
	doc.Signature = "data:image/png;base64,AAAA"
	pv := NewPresenter("", "", false).Build(doc, customSettings(), DefaultPreviewOptions())

	html, err := exporter.HTML(pv)
	require.NoError(t, err)
	out := string(html)

	assert.Contains(t, out, "<title>Bill BILL-123456</title>")
	assert.Contains(t, out, "Rs.3,100.50")
	assert.Contains(t, out, "- Rs.400.00")
	assert.Contains(t, out, "Three Thousand One Hundred and Fifty Cents Rupees Only")
	assert.Contains(t, out, `src="data:image/png;base64,AAAA"`)
	assert.Contains(t, out, "table.items")
	assert.NotContains(t, out, "<script>alert")
	assert.Contains(t, out, "VAT-42")
}

func TestExporterDropsUnsafeSignature(t *testing.T) {
	exporter, err := NewPDFExporter(nil)
	require.NoError(t, err)

	doc := previewDocument()
	doc.Signature = "javascript:alert(1)"
	html, err := exporter.HTML(NewPresenter("", "", false).Build(doc, customSettings(), DefaultPreviewOptions()))
	require.NoError(t, err)
	assert.NotContains(t, string(html), "javascript:")
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "bill-123456.pdf", FileName(Document{Number: "BILL-123456"}))
	assert.Equal(t, "quotation.pdf", FileName(Document{Kind: "quotation"}))
}
