// Package web embeds the dashboard's server-rendered templates and
// static assets into the binary.
package web

import "embed"

//go:embed templates/*.html
var TemplatesFS embed.FS

//go:embed static/*
var StaticFS embed.FS
