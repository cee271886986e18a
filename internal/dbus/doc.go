// Package dbus implements the io.github.fernwick.Drops1 D-Bus interface.
// It provides a server that receives drop requests from clients and
// exposes Show, Dismiss, DismissAll and Status methods, plus a client
// used by the drops CLI to talk to a running daemon.
package dbus
