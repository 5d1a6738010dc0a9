package models

import "strings"

// PackageVariant is a target platform for packaged (nmml) builds.
type PackageVariant struct {
	// Label is shown in the variant chooser.
	Label string

	// Platform is passed to the packager, possibly several tokens.
	Platform string

	// Command is the packager verb: "test" or "build".
	Command string
}

// PlatformArgs splits Platform into command line tokens.
func (v PackageVariant) PlatformArgs() []string {
	return strings.Fields(v.Platform)
}

// PackageVariants is the ordered list offered when selecting a packaged build.
var PackageVariants = []PackageVariant{
	{Label: "Flash - test", Platform: "flash -debug", Command: "test"},
	{Label: "Flash - build only", Platform: "flash -debug", Command: "build"},
	{Label: "HTML5 - test", Platform: "html5 -debug", Command: "test"},
	{Label: "HTML5 - build only", Platform: "html5 -debug", Command: "build"},
	{Label: "C++ - test", Platform: "cpp -debug", Command: "test"},
	{Label: "C++ - build only", Platform: "cpp -debug", Command: "build"},
	{Label: "Linux - test", Platform: "linux -debug", Command: "test"},
	{Label: "Linux - build only", Platform: "linux -debug", Command: "build"},
	{Label: "Linux 64 - test", Platform: "linux -64 -debug", Command: "test"},
	{Label: "Linux 64 - build only", Platform: "linux -64 -debug", Command: "build"},
	{Label: "iOS - test in iPhone simulator", Platform: "ios -simulator -debug", Command: "test"},
	{Label: "iOS - test in iPad simulator", Platform: "ios -simulator -ipad -debug", Command: "test"},
	{Label: "iOS - update XCode project", Platform: "ios -debug", Command: "update"},
	{Label: "Android - test", Platform: "android -debug", Command: "test"},
	{Label: "Android - build only", Platform: "android -debug", Command: "build"},
	{Label: "WebOS - test", Platform: "webos -debug", Command: "test"},
	{Label: "WebOS - build only", Platform: "webos -debug", Command: "build"},
	{Label: "BlackBerry - test", Platform: "blackberry -debug", Command: "test"},
	{Label: "BlackBerry - build only", Platform: "blackberry -debug", Command: "build"},
}

// DefaultPackageVariant is in effect until the user picks another one.
var DefaultPackageVariant = PackageVariants[0]

// PackageVariantLabels returns the chooser labels in order.
func PackageVariantLabels() []string {
	labels := make([]string, len(PackageVariants))
	for i, v := range PackageVariants {
		labels[i] = v.Label
	}
	return labels
}
