package dbus

import (
	"context"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
)

// Client talks to a running dropsd over the session bus.
// Used by the drops CLI.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// NewClient connects to the session bus and binds the drops object.
func NewClient() (*Client, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &Client{
		conn: conn,
		obj:  conn.Object(DBusBusName, DBusPath),
	}, nil
}

// ShowOptions are the optional fields of a Show request.
// Zero values are omitted from the wire call.
type ShowOptions struct {
	Icon          string
	Action        bool
	ActionLabel   string
	Position      string
	Duration      time.Duration
	Background    string
	Accessibility string
}

// Show asks the daemon to present a drop and returns its ID.
func (c *Client) Show(ctx context.Context, title string, opts ShowOptions) (string, error) {
	options := make(map[string]dbus.Variant)
	if opts.Icon != "" {
		options["icon"] = dbus.MakeVariant(opts.Icon)
	}
	if opts.Action {
		options["action"] = dbus.MakeVariant(true)
	}
	if opts.ActionLabel != "" {
		options["action-label"] = dbus.MakeVariant(opts.ActionLabel)
	}
	if opts.Position != "" {
		options["position"] = dbus.MakeVariant(opts.Position)
	}
	if opts.Duration > 0 {
		options["duration-ms"] = dbus.MakeVariant(opts.Duration.Milliseconds())
	}
	if opts.Background != "" {
		options["background"] = dbus.MakeVariant(opts.Background)
	}
	if opts.Accessibility != "" {
		options["accessibility"] = dbus.MakeVariant(opts.Accessibility)
	}

	var id string
	call := c.obj.CallWithContext(ctx, DBusInterface+".Show", 0, title, options)
	if err := call.Store(&id); err != nil {
		return "", fmt.Errorf("Show call failed: %w", err)
	}
	return id, nil
}

// Dismiss removes a drop by ID.
func (c *Client) Dismiss(ctx context.Context, id string) error {
	call := c.obj.CallWithContext(ctx, DBusInterface+".Dismiss", 0, id)
	if call.Err != nil {
		return fmt.Errorf("Dismiss call failed: %w", call.Err)
	}
	return nil
}

// DismissAll removes every visible and queued drop.
// Returns the number of drops removed.
func (c *Client) DismissAll(ctx context.Context) (uint32, error) {
	var count uint32
	call := c.obj.CallWithContext(ctx, DBusInterface+".DismissAll", 0)
	if err := call.Store(&count); err != nil {
		return 0, fmt.Errorf("DismissAll call failed: %w", err)
	}
	return count, nil
}

// GetStatus fetches the daemon's presentation state.
func (c *Client) GetStatus(ctx context.Context) (Status, error) {
	var st Status
	call := c.obj.CallWithContext(ctx, DBusInterface+".GetStatus", 0)
	if err := call.Store(&st.Visible, &st.Queued, &st.Shown); err != nil {
		return Status{}, fmt.Errorf("GetStatus call failed: %w", err)
	}
	return st, nil
}

// GetServerInformation fetches the daemon's identity.
func (c *Client) GetServerInformation(ctx context.Context) (ServerInfo, error) {
	var info ServerInfo
	call := c.obj.CallWithContext(ctx, DBusInterface+".GetServerInformation", 0)
	if err := call.Store(&info.Name, &info.Vendor, &info.Version); err != nil {
		return ServerInfo{}, fmt.Errorf("GetServerInformation call failed: %w", err)
	}
	return info, nil
}

// Close closes nothing for the shared session bus but is kept for
// symmetry with other resources the CLI opens.
func (c *Client) Close() error {
	return nil
}
