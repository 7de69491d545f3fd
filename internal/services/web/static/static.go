// Package static embeds the dashboard stylesheet.
package static

import "embed"

// FS holds the embedded static assets served under /static/.
//
//go:embed style.css
var FS embed.FS
