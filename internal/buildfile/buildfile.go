// Package buildfile renders a build as hxml text.
package buildfile

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/jakoblorz/go-hxproject/internal/models"
)

const hxmlTemplate = `# Autogenerated {{ base .Build.Descriptor }}

# {{ .Build.String }}
-main {{ .Build.Main | default "Main" }}
{{- range .Build.Args }}
{{- if ne .Flag "-main" }}
{{ .Flag }}{{ with .Value }} {{ rel $.Dir . }}{{ end }}
{{- end }}
{{- end }}
`

var hxml = template.Must(template.New("hxml").
	Funcs(sprig.TxtFuncMap()).
	Funcs(template.FuncMap{"rel": relativeTo}).
	Parse(hxmlTemplate))

// Render returns the hxml text of build. Paths below the descriptor's
// directory are written relative to it.
func Render(build *models.BuildConfig) (string, error) {
	if build == nil {
		return "", fmt.Errorf("%w: no build", models.ErrNotFound)
	}

	var buf bytes.Buffer
	data := struct {
		Build *models.BuildConfig
		Dir   string
	}{
		Build: build,
		Dir:   filepath.Dir(build.Descriptor),
	}
	if err := hxml.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", build.Descriptor, err)
	}
	return buf.String(), nil
}

func relativeTo(dir, value string) string {
	if !filepath.IsAbs(value) || !filepath.IsAbs(dir) {
		return value
	}
	rel, err := filepath.Rel(dir, value)
	if err != nil || strings.HasPrefix(rel, "..") {
		return value
	}
	return filepath.ToSlash(rel)
}
