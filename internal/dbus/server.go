package dbus

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

const (
	// DBusInterface is the drops interface name.
	DBusInterface = "io.github.fernwick.Drops1"
	// DBusPath is the drops object path.
	DBusPath = "/io/github/fernwick/Drops"
	// DBusBusName is the bus name to claim.
	DBusBusName = "io.github.fernwick.Drops"
)

// ShowHandler is called when a Show request is received.
// It returns the ID of the created drop.
type ShowHandler func(req *ShowRequest) (string, error)

// DismissHandler is called when Dismiss is requested.
// It reports whether the ID referred to a known drop.
type DismissHandler func(id string) bool

// DismissAllHandler is called when DismissAll is requested.
// It returns the number of drops removed.
type DismissAllHandler func() int

// StatusHandler provides the daemon status snapshot.
type StatusHandler func() Status

// Server implements the io.github.fernwick.Drops1 D-Bus interface.
type Server struct {
	conn   *dbus.Conn
	logger *slog.Logger

	// Handlers
	showHandler       ShowHandler
	dismissHandler    DismissHandler
	dismissAllHandler DismissAllHandler
	statusHandler     StatusHandler

	mu         sync.RWMutex
	serverInfo ServerInfo
	running    bool
}

// NewServer creates a new drops D-Bus server.
func NewServer(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		logger:     logger,
		serverInfo: DefaultServerInfo(),
	}
}

// SetShowHandler sets the handler called when a Show request arrives.
func (s *Server) SetShowHandler(handler ShowHandler) {
	s.showHandler = handler
}

// SetDismissHandler sets the handler called when Dismiss is requested.
func (s *Server) SetDismissHandler(handler DismissHandler) {
	s.dismissHandler = handler
}

// SetDismissAllHandler sets the handler called when DismissAll is requested.
func (s *Server) SetDismissAllHandler(handler DismissAllHandler) {
	s.dismissAllHandler = handler
}

// SetStatusHandler sets the handler that supplies Status snapshots.
func (s *Server) SetStatusHandler(handler StatusHandler) {
	s.statusHandler = handler
}

// SetServerInfo sets the information returned by GetServerInformation.
func (s *Server) SetServerInfo(info ServerInfo) {
	s.serverInfo = info
}

// Start connects to the session bus and exports the drops service.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.mu.Unlock()

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	s.conn = conn

	// Export the drops server object
	if err := conn.Export(s, DBusPath, DBusInterface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	// Export introspection data
	node := &introspect.Node{
		Name: DBusPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    DBusInterface,
				Methods: dropsMethods(),
				Signals: dropsSignals(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), DBusPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	// Request the bus name
	reply, err := conn.RequestName(DBusBusName, dbus.NameFlagDoNotQueue|dbus.NameFlagReplaceExisting)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", DBusBusName)
	}

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	s.logger.Info("D-Bus server started", "interface", DBusInterface, "path", DBusPath)
	return nil
}

// Stop releases the bus name and stops serving.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if s.conn != nil {
		_, err := s.conn.ReleaseName(DBusBusName)
		if err != nil {
			s.logger.Warn("failed to release bus name", "error", err)
		}
		// Don't close the connection as it's shared (SessionBus)
	}

	s.logger.Info("D-Bus server stopped")
	return nil
}

// Show handles an incoming drop request.
// D-Bus method: Show(sa{sv}) -> s
func (s *Server) Show(title string, options map[string]dbus.Variant) (string, *dbus.Error) {
	s.logger.Debug("Show called", "title", title, "options", len(options))

	if s.showHandler == nil {
		return "", dbus.MakeFailedError(fmt.Errorf("no show handler registered"))
	}

	id, err := s.showHandler(&ShowRequest{Title: title, Options: options})
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	return id, nil
}

// Dismiss removes a drop by ID.
// D-Bus method: Dismiss(s) -> nothing
func (s *Server) Dismiss(id string) *dbus.Error {
	s.logger.Debug("Dismiss called", "id", id)

	if s.dismissHandler != nil {
		s.dismissHandler(id)
	}
	return nil
}

// DismissAll removes every visible and queued drop.
// D-Bus method: DismissAll() -> u
func (s *Server) DismissAll() (uint32, *dbus.Error) {
	s.logger.Debug("DismissAll called")

	if s.dismissAllHandler == nil {
		return 0, nil
	}
	return uint32(s.dismissAllHandler()), nil
}

// GetStatus returns a snapshot of the presentation state.
// D-Bus method: GetStatus() -> (uut)
func (s *Server) GetStatus() (uint32, uint32, uint64, *dbus.Error) {
	s.logger.Debug("GetStatus called")

	if s.statusHandler == nil {
		return 0, 0, 0, nil
	}
	st := s.statusHandler()
	return st.Visible, st.Queued, st.Shown, nil
}

// GetServerInformation returns information about the daemon.
// D-Bus method: GetServerInformation() -> (sss)
func (s *Server) GetServerInformation() (string, string, string, *dbus.Error) {
	s.logger.Debug("GetServerInformation called")
	return s.serverInfo.Name, s.serverInfo.Vendor, s.serverInfo.Version, nil
}

// dropsMethods returns the D-Bus method introspection data.
func dropsMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "Show",
			Args: []introspect.Arg{
				{Name: "title", Type: "s", Direction: "in"},
				{Name: "options", Type: "a{sv}", Direction: "in"},
				{Name: "id", Type: "s", Direction: "out"},
			},
		},
		{
			Name: "Dismiss",
			Args: []introspect.Arg{
				{Name: "id", Type: "s", Direction: "in"},
			},
		},
		{
			Name: "DismissAll",
			Args: []introspect.Arg{
				{Name: "count", Type: "u", Direction: "out"},
			},
		},
		{
			Name: "GetStatus",
			Args: []introspect.Arg{
				{Name: "visible", Type: "u", Direction: "out"},
				{Name: "queued", Type: "u", Direction: "out"},
				{Name: "shown", Type: "t", Direction: "out"},
			},
		},
		{
			Name: "GetServerInformation",
			Args: []introspect.Arg{
				{Name: "name", Type: "s", Direction: "out"},
				{Name: "vendor", Type: "s", Direction: "out"},
				{Name: "version", Type: "s", Direction: "out"},
			},
		},
	}
}

// dropsSignals returns the D-Bus signal introspection data.
func dropsSignals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: "Tapped",
			Args: []introspect.Arg{
				{Name: "id", Type: "s"},
			},
		},
		{
			Name: "Dismissed",
			Args: []introspect.Arg{
				{Name: "id", Type: "s"},
				{Name: "reason", Type: "u"},
			},
		},
	}
}
