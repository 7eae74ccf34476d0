// Package templates embeds the HTML documents rendered to PDF.
package templates

import "embed"

//go:embed *.html
var FS embed.FS

const Quotation = "quotation.html"
