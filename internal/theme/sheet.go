package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// cardClasses are the style classes popup cards attach to their
// widgets. A usable stylesheet addresses at least some of them.
var cardClasses = []string{".drop-card", ".drop-title", ".drop-icon", ".drop-action"}

// includeRE matches @import "x.css"; in the forms GTK CSS accepts.
var includeRE = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?\s*;?`)

// Sheet is one resolved stylesheet for drop cards. Includes are
// inlined at load time so the GTK provider receives a single document.
type Sheet struct {
	Name    string
	Path    string // empty for bundled sheets
	CSS     string
	ModTime time.Time
	Bundled bool
}

// LoadSheet reads a stylesheet from disk and inlines its includes.
func LoadSheet(name, path string) (*Sheet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return &Sheet{
		Name:    name,
		Path:    path,
		CSS:     inlineIncludes(string(raw), filepath.Dir(path), nil),
		ModTime: info.ModTime(),
	}, nil
}

// BundledSheet builds a sheet from an embedded stylesheet.
func BundledSheet(name string) (*Sheet, bool) {
	css, ok := bundledCSS(name)
	if !ok {
		return nil, false
	}
	return &Sheet{
		Name:    name,
		CSS:     inlineIncludes(css, "", nil),
		Bundled: true,
	}, true
}

// DefaultSheet returns the embedded default stylesheet.
func DefaultSheet() *Sheet {
	s, _ := BundledSheet(DefaultThemeName)
	return s
}

// Refresh re-reads the sheet from disk when its file changed.
// Reports whether the resolved CSS is different.
func (s *Sheet) Refresh() (bool, error) {
	if s.Bundled {
		return false, nil
	}

	info, err := os.Stat(s.Path)
	if err != nil {
		return false, err
	}
	if !info.ModTime().After(s.ModTime) {
		return false, nil
	}

	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return false, err
	}

	css := inlineIncludes(string(raw), filepath.Dir(s.Path), nil)
	changed := css != s.CSS
	s.CSS = css
	s.ModTime = info.ModTime()
	return changed, nil
}

// MissingCardClasses lists the card classes the sheet never mentions.
// A sheet missing all of them cannot style a drop card at all.
func (s *Sheet) MissingCardClasses() []string {
	var missing []string
	for _, class := range cardClasses {
		if !strings.Contains(s.CSS, class) {
			missing = append(missing, class)
		}
	}
	return missing
}

// inlineIncludes replaces @import statements with the content of the
// referenced file. Local files resolve relative to dir; names that do
// not resolve locally fall back to bundled sheets. The seen set breaks
// include cycles.
func inlineIncludes(css, dir string, seen map[string]bool) string {
	matches := includeRE.FindAllStringSubmatchIndex(css, -1)
	if len(matches) == 0 {
		return css
	}
	if seen == nil {
		seen = make(map[string]bool)
	}

	var out strings.Builder
	last := 0
	for _, m := range matches {
		out.WriteString(css[last:m[0]])
		out.WriteString(resolveInclude(css[m[2]:m[3]], dir, seen))
		last = m[1]
	}
	out.WriteString(css[last:])
	return out.String()
}

// resolveInclude produces the replacement text for one @import.
func resolveInclude(name, dir string, seen map[string]bool) string {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	if seen[path] {
		return "/* circular import prevented: " + name + " */"
	}
	seen[path] = true

	raw, err := os.ReadFile(path)
	if err == nil {
		return "/* imported: " + name + " */\n" + inlineIncludes(string(raw), filepath.Dir(path), seen)
	}

	stem := strings.TrimSuffix(filepath.Base(name), ".css")
	if css, ok := bundledCSS(stem); ok {
		return "/* imported (embedded): " + name + " */\n" + css
	}
	return fmt.Sprintf("/* import failed: %s - %v */", name, err)
}

// Info describes one available stylesheet.
type Info struct {
	Name    string
	Path    string // empty for bundled sheets
	Bundled bool
}

// Catalog lists bundled sheets plus the user sheets found in dir.
// A user sheet with a bundled name replaces the bundled entry, which
// matches how the loader resolves names.
func Catalog(dir string) []Info {
	index := make(map[string]int)
	var infos []Info

	for _, name := range BundledNames() {
		index[name] = len(infos)
		infos = append(infos, Info{Name: name, Bundled: true})
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return infos
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "_") || filepath.Ext(name) != ".css" {
			continue
		}
		stem := strings.TrimSuffix(name, ".css")
		info := Info{Name: stem, Path: filepath.Join(dir, name)}
		if i, ok := index[stem]; ok {
			infos[i] = info
			continue
		}
		index[stem] = len(infos)
		infos = append(infos, info)
	}
	return infos
}

// UserDir returns the user stylesheet directory.
func UserDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "drops", "themes"), nil
}

// EnsureUserDir creates the user stylesheet directory if missing.
func EnsureUserDir() error {
	dir, err := UserDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}
