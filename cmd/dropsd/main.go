// Package main is the entry point for the dropsd daemon.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/fernwick/drops/internal/audio"
	"github.com/fernwick/drops/internal/config"
	"github.com/fernwick/drops/internal/daemon"
	"github.com/fernwick/drops/internal/dbus"
	"github.com/fernwick/drops/internal/display"
	"github.com/fernwick/drops/internal/drop"
	"github.com/fernwick/drops/internal/theme"
)

const (
	appID   = "io.github.fernwick.dropsd"
	appName = "dropsd"
)

var (
	// Build-time variables
	version = "dev"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version and exit")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	if *showVersion {
		println("dropsd version", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(*logLevel),
	}))
	slog.SetDefault(logger)

	run(logger)
}

// parseLogLevel converts a flag value to a slog level.
func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func run(logger *slog.Logger) {
	logger.Info("starting dropsd", "version", version)

	cfg, err := config.LoadDaemonConfig()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	app := adw.NewApplication(appID, 0)

	// Shared state between GTK main loop and signal handlers
	var (
		dbusServer       *dbus.Server
		displayManager   *display.Manager
		themeLoader      *theme.Loader
		audioManager     *audio.Manager
		configWatcher    *daemon.ConfigWatcher
		internalNotifier *daemon.InternalNotifier
		running          atomic.Bool
	)

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()

		// Stop components in GTK main loop context
		glib.IdleAdd(func() {
			if running.Load() {
				app.Quit()
			}
		})
	}()

	app.ConnectActivate(func() {
		if running.Load() {
			logger.Warn("application already running")
			return
		}
		running.Store(true)

		// Theme loader
		themeLoader = theme.NewLoader(logger)
		if err := themeLoader.LoadTheme(cfg.Theme.Name); err != nil {
			logger.Warn("failed to load theme, using default", "error", err)
		}
		themeLoader.Apply(nil)
		themeLoader.StartHotReload(ctx)

		// Audio manager
		audioManager = audio.NewManager(cfg, logger)
		if err := audioManager.Start(ctx); err != nil {
			logger.Warn("failed to start audio manager", "error", err)
		}

		// Display manager
		displayManager = display.NewManager(&app.Application, cfg, logger)
		if err := displayManager.Start(); err != nil {
			logger.Error("failed to start display manager", "error", err)
			app.Quit()
			return
		}

		// D-Bus server
		dbusServer = dbus.NewServer(logger)
		dbusServer.SetServerInfo(dbus.ServerInfo{
			Name:    appName,
			Vendor:  "drops",
			Version: version,
		})

		dbusServer.SetShowHandler(func(req *dbus.ShowRequest) (string, error) {
			d := dropFromRequest(req, cfg, logger)

			go func() {
				if err := audioManager.PlayEvent(audio.EventShow); err != nil {
					logger.Debug("failed to play show sound", "error", err)
				}
			}()

			glib.IdleAdd(func() {
				if err := displayManager.Show(d); err != nil {
					logger.Error("failed to show drop", "id", d.ID, "error", err)
				}
			})
			return d.ID, nil
		})

		dbusServer.SetDismissHandler(func(id string) bool {
			glib.IdleAdd(func() {
				displayManager.Dismiss(id, dbus.ReasonDismissed)
			})
			return true
		})

		dbusServer.SetDismissAllHandler(func() int {
			count := displayManager.VisibleCount() + displayManager.QueuedCount()
			glib.IdleAdd(func() {
				displayManager.DismissAll()
			})
			return count
		})

		dbusServer.SetStatusHandler(displayManager.Status)

		// Display manager callbacks back to the bus
		displayManager.SetDismissCallback(func(id string, reason dbus.DismissReason) {
			if err := dbusServer.EmitDismissed(id, reason); err != nil {
				logger.Warn("failed to emit Dismissed signal", "id", id, "error", err)
			}
		})
		displayManager.SetTapCallback(func(id string) {
			if err := dbusServer.EmitTapped(id); err != nil {
				logger.Warn("failed to emit Tapped signal", "id", id, "error", err)
			}
			go func() {
				if err := audioManager.PlayEvent(audio.EventTap); err != nil {
					logger.Debug("failed to play tap sound", "error", err)
				}
			}()
		})

		if err := dbusServer.Start(); err != nil {
			logger.Error("failed to start D-Bus server", "error", err)
			displayManager.Stop()
			app.Quit()
			return
		}

		// Internal notifier for self-notifications
		internalNotifier = daemon.NewInternalNotifier(logger)
		internalNotifier.SetShowHandler(func(d drop.Drop) error {
			glib.IdleAdd(func() {
				if err := displayManager.Show(d); err != nil {
					logger.Warn("failed to show internal drop", "error", err)
				}
			})
			return nil
		})

		// Config hot-reload
		configWatcher, err = daemon.NewConfigWatcher(logger)
		if err != nil {
			logger.Warn("failed to create config watcher", "error", err)
		} else {
			configWatcher.SetReloadCallback(func(newConfig *config.DaemonConfig) {
				glib.IdleAdd(func() {
					displayManager.UpdateConfig(newConfig)
					audioManager.UpdateConfig(newConfig)

					if newConfig.Theme.Name != cfg.Theme.Name {
						if err := themeLoader.LoadTheme(newConfig.Theme.Name); err != nil {
							logger.Warn("failed to load new theme", "theme", newConfig.Theme.Name, "error", err)
							internalNotifier.NotifyThemeError(err)
						} else {
							themeLoader.Apply(nil)
							internalNotifier.NotifyThemeReloaded(newConfig.Theme.Name)
						}
					}

					cfg = newConfig
					internalNotifier.NotifyConfigReloaded()
				})
			})
			configWatcher.SetErrorCallback(func(err error) {
				internalNotifier.NotifyConfigError(err)
			})
			if err := configWatcher.Start(ctx, cfg); err != nil {
				logger.Warn("failed to start config watcher", "error", err)
			}
		}

		logger.Info("dropsd ready", "dbus_interface", dbus.DBusInterface)

		// Hidden window keeps the application running; GTK apps quit
		// when all windows are closed.
		keepAliveWindow := gtk.NewWindow()
		keepAliveWindow.SetApplication(&app.Application)
		keepAliveWindow.SetDefaultSize(1, 1)
		keepAliveWindow.SetDecorated(false)
		keepAliveWindow.SetVisible(false)
	})

	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		if configWatcher != nil {
			configWatcher.Stop()
		}
		if audioManager != nil {
			audioManager.Stop()
		}
		if themeLoader != nil {
			themeLoader.StopHotReload()
		}
		if displayManager != nil {
			displayManager.Stop()
		}
		if dbusServer != nil {
			_ = dbusServer.Stop()
		}
		running.Store(false)
	})

	status := app.Run(os.Args)
	cancel()

	if status != 0 {
		logger.Error("application exited with error", "status", status)
		os.Exit(status)
	}

	logger.Info("dropsd stopped")
}

// dropFromRequest builds a drop descriptor from an incoming Show call,
// filling absent options from daemon defaults.
func dropFromRequest(req *dbus.ShowRequest, cfg *config.DaemonConfig, logger *slog.Logger) drop.Drop {
	dc := drop.Config{
		Title:                drop.NewTitle(req.Title),
		AccessibilityMessage: req.Accessibility(),
	}

	if icon := req.Icon(); icon != "" {
		if strings.Contains(icon, "/") {
			dc.Icon = &drop.Icon{Path: icon}
		} else {
			dc.Icon = &drop.Icon{Name: icon}
		}
	}

	if req.HasAction() {
		action := &drop.Action{
			Handler: func() {
				logger.Debug("drop tap handler invoked")
			},
		}
		if label := req.ActionLabel(); label != "" {
			title := drop.NewTitle(label)
			action.Title = &title
		}
		dc.Action = action
	}

	if pos := req.Position(); pos != "" {
		dc.Position = drop.ParsePosition(pos)
	} else {
		dc.Position = cfg.DefaultPosition()
	}

	if d := req.Duration(); d != 0 {
		dc.Duration = drop.Seconds(d.Seconds())
	} else {
		dc.Duration = cfg.DefaultDuration()
	}

	if bg := req.Background(); bg != "" {
		col, err := drop.ParseColor(bg)
		if err != nil {
			logger.Warn("invalid background color, using default", "value", bg, "error", err)
			col = cfg.DefaultBackground()
		}
		dc.Background = col
	} else {
		dc.Background = cfg.DefaultBackground()
	}

	return drop.FromConfig(dc)
}
