// Package fiddle holds the buffer set of a fiddle and the code that loads one
// from disk or from the template catalog.
package fiddle

import (
	"path/filepath"
	"sort"
	"strings"
)

// PackageJSONName is the reserved key of the package descriptor. Its content
// is derived from Metadata, never taken from an editor.
const PackageJSONName = "package.json"

// DefaultEditors are the editors every fiddle has.
var DefaultEditors = []string{"main.js", "renderer.js", "preload.js", "index.html", "styles.css"}

var supportedExts = map[string]bool{
	".js":   true,
	".mjs":  true,
	".cjs":  true,
	".ts":   true,
	".html": true,
	".css":  true,
	".json": true,
}

// Files maps a file name to its content. An empty string means the file is
// absent.
type Files map[string]string

// Names returns the file names in sorted order.
func (f Files) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a copy of f.
func (f Files) Clone() Files {
	out := make(Files, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// IsDefaultEditor reports whether name is one of DefaultEditors.
func IsDefaultEditor(name string) bool {
	for _, e := range DefaultEditors {
		if e == name {
			return true
		}
	}
	return false
}

// IsSupportedFile reports whether name has an extension an editor can show.
func IsSupportedFile(name string) bool {
	return supportedExts[strings.ToLower(filepath.Ext(name))]
}

// ValidName reports whether name is a plain file name that stays inside
// the fiddle directory.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

// Options records where a buffer set came from. It is only used for display.
type Options struct {
	FilePath     string `json:"filePath,omitempty"`
	TemplateName string `json:"templateName,omitempty"`
	GistID       string `json:"gistId,omitempty"`
}
