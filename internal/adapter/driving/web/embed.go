package web

import "embed"

// StaticFS holds the embedded static assets (stylesheet).
//
//go:embed static/*
var StaticFS embed.FS

// templateFS holds the page templates. Each page is parsed together with
// layout.html.
//
//go:embed templates/*.html
var templateFS embed.FS
