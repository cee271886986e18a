// Package theme resolves the CSS stylesheets that style drop cards.
// Sheets come from ~/.config/drops/themes/ or from the bundled set
// compiled into the binary; user sheets shadow bundled ones by name.
// A loaded sheet is pushed into a single GTK CSS provider and kept
// fresh by an fsnotify watcher.
package theme
