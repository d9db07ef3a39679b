// Package templates holds the templ components of the web GUI. The .templ
// files are the source; the _templ.go files next to them are generated.
package templates

//go:generate go tool templ generate
