// Package web holds the assets compiled into the binaries: the printable
// document template and its stylesheet.
package web

import "embed"

// Templates holds the HTML templates rendered for previews and PDFs.
//
//go:embed templates/documents/*.html
var Templates embed.FS

// Static holds the assets served under /static and inlined into PDFs.
//
//go:embed static/css/*.css
var Static embed.FS
