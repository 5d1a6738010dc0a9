package discovery

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/jakoblorz/go-hxproject/internal/models"
)

// targetFlags maps compiler output flags to their target platform.
var targetFlags = map[string]string{
	"-js":     "js",
	"-swf":    "swf",
	"-swf9":   "swf",
	"-as3":    "as3",
	"-neko":   "neko",
	"-php":    "php",
	"-cpp":    "cpp",
	"-cs":     "cs",
	"-java":   "java",
	"-python": "python",
	"-lua":    "lua",
	"-hl":     "hl",
}

// ParseHXML reads the builds of one hxml file. "--next" starts a new build;
// arguments before "--each" are shared by every build that follows.
func ParseHXML(path string, data []byte) []*models.BuildConfig {
	var (
		builds []*models.BuildConfig
		common []models.BuildArg
	)

	current := models.NewBuildConfig(path)
	flush := func() {
		if len(current.Args) > len(common) {
			builds = append(builds, current)
		}
		current = models.NewBuildConfig(path)
		for _, a := range common {
			apply(current, a)
		}
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch line {
		case "--next":
			flush()
			continue
		case "--each":
			common = append([]models.BuildArg(nil), current.Args...)
			continue
		}

		// Nested hxml references are left to the compiler.
		if !strings.HasPrefix(line, "-") {
			continue
		}

		flag, value, _ := strings.Cut(line, " ")
		apply(current, models.BuildArg{Flag: flag, Value: strings.TrimSpace(value)})
	}
	flush()

	return builds
}

func apply(b *models.BuildConfig, a models.BuildArg) {
	flag := normalizeFlag(a.Flag)
	switch {
	case flag == "-main":
		b.Main = a.Value
	case targetFlags[flag] != "":
		b.Target = targetFlags[flag]
		b.Output = a.Value
	}
	b.Args = append(b.Args, a)
}

// normalizeFlag maps the long form "--js" to "-js".
func normalizeFlag(flag string) string {
	if strings.HasPrefix(flag, "--") {
		return flag[1:]
	}
	return flag
}
