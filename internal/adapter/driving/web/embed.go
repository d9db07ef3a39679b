package web

import "embed"

// StaticFS holds the embedded static assets (stylesheet, phone mask script).
//
//go:embed static/*
var StaticFS embed.FS
