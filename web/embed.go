// Package web holds the embedded page templates and static assets.
package web

import "embed"

// TemplatesFS holds the layout, shared partials and one page_*.html per page.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds stylesheets and scripts served under /static/.
//
//go:embed static
var StaticFS embed.FS
