// Copyright © 2026 The sexp authors

// Package docs embeds the sexp language reference for use by the CLI.
package docs

import _ "embed"

//go:embed lang.md
var LangGuide string
