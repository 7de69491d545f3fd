// Package templates renders the dashboard pages. Components are written in
// .templ files; the *_templ.go files are generated from them.
package templates

//go:generate templ generate
