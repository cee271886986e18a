// Package daemon provides supporting orchestration for dropsd: config
// hot-reload and internal event notifications.
package daemon
