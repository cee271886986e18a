package theme

import (
	"embed"
	"io/fs"
	"strings"
)

// Stylesheets compiled into the binary. These style the .drop-* card
// classes and are always available; user sheets only shadow them.
//
//go:embed themes/*.css
var bundledFS embed.FS

// DefaultThemeName is the sheet used when nothing else resolves.
const DefaultThemeName = "default"

// bundledCSS returns the raw CSS of an embedded sheet.
func bundledCSS(name string) (string, bool) {
	data, err := bundledFS.ReadFile("themes/" + name + ".css")
	if err != nil {
		return "", false
	}
	return string(data), true
}

// BundledNames lists the embedded sheet names in filename order.
// Underscore-prefixed files are include fragments, not sheets.
func BundledNames() []string {
	entries, err := fs.ReadDir(bundledFS, "themes")
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "_") || !strings.HasSuffix(name, ".css") {
			continue
		}
		names = append(names, strings.TrimSuffix(name, ".css"))
	}
	return names
}

// IsBundled reports whether a sheet with this name ships embedded.
func IsBundled(name string) bool {
	_, ok := bundledCSS(name)
	return ok
}
