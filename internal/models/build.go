package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultTarget is the platform used for ad hoc builds.
const DefaultTarget = "js"

// PackageTarget is the target reported for builds driven by an nmml file.
const PackageTarget = "nme"

// BuildArg is one compiler argument pair, e.g. ("-cp", "src").
// Value is empty for flags without an argument.
type BuildArg struct {
	Flag  string
	Value string
}

// Strings returns the argument as command line tokens.
func (a BuildArg) Strings() []string {
	if a.Value == "" {
		return []string{a.Flag}
	}
	return []string{a.Flag, a.Value}
}

// BuildConfig is one discovered or synthesized compilation target.
type BuildConfig struct {
	// Descriptor is the hxml file the build came from (or will be written to).
	Descriptor string

	// Target is the output platform, e.g. "js", "swf", "neko".
	Target string

	// Main is the fully qualified entry point class.
	Main string

	// Output is the file or directory the compiler writes.
	Output string

	// Args are the compiler argument pairs in declaration order.
	Args []BuildArg

	// PackageDescriptor is the nmml file for packaged builds.
	PackageDescriptor string
}

// NewBuildConfig creates an empty build for descriptor.
func NewBuildConfig(descriptor string) *BuildConfig {
	return &BuildConfig{
		Descriptor: descriptor,
		Args:       []BuildArg{},
	}
}

// IsPackaged reports whether the build is driven by a packaging descriptor.
func (b *BuildConfig) IsPackaged() bool {
	return b.PackageDescriptor != ""
}

// AddArg appends an argument pair.
func (b *BuildConfig) AddArg(flag, value string) {
	b.Args = append(b.Args, BuildArg{Flag: flag, Value: value})
}

// CommandLine flattens Args, appending -main when it is not already present.
func (b *BuildConfig) CommandLine() []string {
	var out []string
	hasMain := false
	for _, a := range b.Args {
		if a.Flag == "-main" {
			hasMain = true
		}
		out = append(out, a.Strings()...)
	}
	if !hasMain && b.Main != "" {
		out = append(out, "-main", b.Main)
	}
	return out
}

// String renders the one-line summary shown in choosers and the status bar.
func (b *BuildConfig) String() string {
	main := b.Main
	if main == "" {
		main = "[no main]"
	}
	if b.IsPackaged() {
		return fmt.Sprintf("%s (NME / %s)", main, filepath.Base(b.PackageDescriptor))
	}
	output := b.Output
	if output == "" {
		output = "[no output]"
	}
	return fmt.Sprintf("%s (%s: %s)", main, b.Target, output)
}

// Clone returns a deep copy.
func (b *BuildConfig) Clone() *BuildConfig {
	c := *b
	c.Args = append([]BuildArg(nil), b.Args...)
	return &c
}

// DescriptorName is the base name of the build's source file.
func (b *BuildConfig) DescriptorName() string {
	if b.IsPackaged() {
		return filepath.Base(b.PackageDescriptor)
	}
	return filepath.Base(b.Descriptor)
}

// Summary is the chooser row for a build: description plus file name.
func (b *BuildConfig) Summary() []string {
	return []string{b.String(), b.DescriptorName()}
}

// HasSuffixFold reports whether path ends in ext, ignoring case.
func HasSuffixFold(path, ext string) bool {
	return strings.HasSuffix(strings.ToLower(path), strings.ToLower(ext))
}
