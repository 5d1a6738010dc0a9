package models

// ServerModeMinVersion is the first compiler version with --wait/--connect.
const ServerModeMinVersion = 209

// BuiltinTypes are the primitive type names always offered for completion.
var BuiltinTypes = []string{
	"Void", "String", "Float", "Int", "UInt", "Bool",
	"Dynamic", "Iterator", "Iterable", "ArrayAccess",
}

// CompilerInfo is the cached result of probing the compiler.
type CompilerInfo struct {
	// Version is the three digit haxe_NNN define, 0 when undetected.
	Version int

	// VersionDetected distinguishes "no version in output" from version 0.
	VersionDetected bool

	// Classpaths are the standard library directories in first-seen order.
	Classpaths []string

	// Classes are the type names found on the classpaths.
	Classes []string

	// Packages are the package names found on the classpaths.
	Packages []string

	// ProbeErr is set when the compiler could not be run at all.
	ProbeErr error
}

// SupportsServer reports whether the compiler can run as a background server.
func (c CompilerInfo) SupportsServer() bool {
	return c.Version >= ServerModeMinVersion
}

// StdClasses returns BuiltinTypes followed by the discovered classes.
func (c CompilerInfo) StdClasses() []string {
	out := make([]string, 0, len(BuiltinTypes)+len(c.Classes))
	out = append(out, BuiltinTypes...)
	return append(out, c.Classes...)
}
