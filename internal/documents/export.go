package documents

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/quotebill/quotebill/report"
	"github.com/quotebill/quotebill/web"
)

// Renderer converts HTML into PDF bytes.
type Renderer interface {
	RenderHTML(ctx context.Context, html []byte, page report.PageOptions) ([]byte, error)
}

// PDFExporter renders previews through the document template.
type PDFExporter struct {
	renderer Renderer
	tpl      *template.Template
	css      template.CSS
}

type pdfPage struct {
	Title   string
	Number  string
	CSS     template.CSS
	Preview Preview
}

// NewPDFExporter parses the embedded document template. renderer may be nil,
// in which case only HTML rendering is available.
func NewPDFExporter(renderer Renderer) (*PDFExporter, error) {
	funcMap := template.FuncMap{
		"safeURL": safeImageURL,
	}
	tpl, err := template.New("document.html").Funcs(funcMap).ParseFS(web.Templates, "templates/documents/document.html")
	if err != nil {
		return nil, fmt.Errorf("documents: parse template: %w", err)
	}
	css, err := web.Static.ReadFile("static/css/document.css")
	if err != nil {
		return nil, fmt.Errorf("documents: read stylesheet: %w", err)
	}
	return &PDFExporter{renderer: renderer, tpl: tpl, css: template.CSS(css)}, nil
}

// HTML renders the printable page for pv.
func (e *PDFExporter) HTML(pv Preview) ([]byte, error) {
	var buf bytes.Buffer
	page := pdfPage{Title: pv.Title, Number: pv.Number, CSS: e.css, Preview: pv}
	if err := e.tpl.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("documents: render template: %w", err)
	}
	return buf.Bytes(), nil
}

// PDF renders pv to HTML and converts it to PDF.
func (e *PDFExporter) PDF(ctx context.Context, pv Preview) ([]byte, error) {
	if e == nil || e.renderer == nil {
		return nil, ErrRendererUnavailable
	}
	html, err := e.HTML(pv)
	if err != nil {
		return nil, err
	}
	pdf, err := e.renderer.RenderHTML(ctx, html, report.A4)
	if err != nil {
		return nil, fmt.Errorf("documents: render pdf: %w", err)
	}
	return pdf, nil
}

// safeImageURL lets inline image data and http(s) links through the
// template's URL sanitiser; anything else is dropped.
func safeImageURL(s string) template.URL {
	switch {
	case strings.HasPrefix(s, "data:image/"),
		strings.HasPrefix(s, "https://"),
		strings.HasPrefix(s, "http://"):
		return template.URL(s)
	default:
		return ""
	}
}

// FileName returns the attachment name for a document PDF.
func FileName(doc Document) string {
	number := doc.Number
	if number == "" {
		number = string(doc.Kind)
	}
	return strings.ToLower(number) + ".pdf"
}
