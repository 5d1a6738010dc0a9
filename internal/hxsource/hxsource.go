// Package hxsource extracts declarations from Haxe source text.
package hxsource

import (
	"regexp"
	"strings"
)

var (
	commentPattern = regexp.MustCompile(`(?s)//[^\n]*|/\*.*?\*/`)
	packagePattern = regexp.MustCompile(`(?m)^\s*package\s*([a-zA-Z0-9_.]*)\s*;`)
	typePattern    = regexp.MustCompile(`(?m)^\s*((?:(?:private|extern|final)\s+)*)(class|interface|enum|typedef|abstract)\s+([A-Z][A-Za-z0-9_]*)`)
)

// TypeDecl is a type declared in a module.
type TypeDecl struct {
	Kind    string
	Name    string
	Private bool
}

// StripComments removes line and block comments.
func StripComments(src string) string {
	return commentPattern.ReplaceAllString(src, "")
}

// Package returns the package declared by src, "" for the top level.
func Package(src string) string {
	for _, m := range packagePattern.FindAllStringSubmatch(StripComments(src), -1) {
		if m[1] != "" {
			return m[1]
		}
	}
	return ""
}

// PackagePath splits a dotted package into its segments.
func PackagePath(pkg string) []string {
	if pkg == "" {
		return nil
	}
	return strings.Split(pkg, ".")
}

// Types lists the type declarations of src in order.
func Types(src string) []TypeDecl {
	var decls []TypeDecl
	for _, m := range typePattern.FindAllStringSubmatch(StripComments(src), -1) {
		decls = append(decls, TypeDecl{
			Kind:    m[2],
			Name:    m[3],
			Private: strings.Contains(m[1], "private"),
		})
	}
	return decls
}
