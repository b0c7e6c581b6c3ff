// Package embedded provides embedded static assets for the application.
package embedded

import (
	"embed"
)

// Files contains all files embedded in the Go binary:
// - HTML page templates (templates/) - rendered by the server with html/template
// - Static assets (static/) - served directly under /static
//
//go:embed templates static
var Files embed.FS
