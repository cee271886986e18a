package dbus

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// EmitTapped emits the Tapped signal.
// Emitted when the user taps a drop's tap target and its handler runs.
func (s *Server) EmitTapped(id string) error {
	if s.conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	err := s.conn.Emit(DBusPath, DBusInterface+".Tapped", id)
	if err != nil {
		return fmt.Errorf("failed to emit Tapped signal: %w", err)
	}

	s.logger.Debug("emitted Tapped signal", "id", id)
	return nil
}

// EmitDismissed emits the Dismissed signal.
// Emitted whenever a drop leaves the screen, with the reason.
func (s *Server) EmitDismissed(id string, reason DismissReason) error {
	if s.conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	err := s.conn.Emit(DBusPath, DBusInterface+".Dismissed", id, uint32(reason))
	if err != nil {
		return fmt.Errorf("failed to emit Dismissed signal: %w", err)
	}

	s.logger.Debug("emitted Dismissed signal", "id", id, "reason", reason.String())
	return nil
}

// Connection returns the underlying D-Bus connection.
// This can be used for advanced operations like calling methods on other services.
func (s *Server) Connection() *dbus.Conn {
	return s.conn
}
