// Package display manages GTK4/libadwaita popup windows for drop cards.
// It handles popup creation, positioning via Wayland layer-shell,
// widget construction from built views, queuing, expiry, and taps.
package display
