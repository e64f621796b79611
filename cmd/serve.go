package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rubiojr/quarry/pkg/api"
	"github.com/rubiojr/quarry/pkg/config"
	"github.com/rubiojr/quarry/pkg/log"
	"github.com/rubiojr/quarry/pkg/realtime"
	"github.com/rubiojr/quarry/pkg/storage"
	"github.com/urfave/cli/v3"
)

// ServeCommand creates the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP search API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Address to bind (overrides config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to bind (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Reload datasets when the datasets directory changes",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, c.String("config"), c.String("host"), c.Int("port"), c.Bool("watch"))
		},
	}
}

// serve runs the HTTP API until the context is cancelled or a termination
// signal arrives.
func serve(ctx context.Context, configPath, host string, port int, watch bool) error {
	logger := log.ForComponent("serve")

	cfg, store, engine, cleanup, err := openEngine(configPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := cleanup(); err != nil {
			logger.Warnf("failed to close storage: %v", err)
		}
	}()

	if host == "" {
		host = cfg.Host
	}
	if port == 0 {
		port = cfg.Port
	}

	hub := realtime.NewHub(0)
	server := api.NewServer(store, engine, hub, cfg)

	mux := http.NewServeMux()
	server.RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      api.CorsMiddleware(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // firehose connections are long-lived
	}

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on http://%s:%d with %d datasets", host, port, store.Count())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if watch {
		if cfg.Storage != config.StorageDir {
			logger.Warnf("--watch only applies to the %q storage backend, ignoring", config.StorageDir)
		} else {
			watcher, err := watchDatasets(serveCtx, cfg.DatasetsDir, store, hub, logger)
			if err != nil {
				logger.Warnf("failed to watch datasets directory: %v", err)
			} else {
				defer func() {
					if err := watcher.Close(); err != nil {
						logger.Warnf("failed to close dataset watcher: %v", err)
					}
				}()
			}
		}
	}

	select {
	case sig := <-sigCh:
		logger.Infof("received %v, shutting down", sig)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}

// watchDatasets reloads the store whenever files under dir change and
// publishes a reload event on the hub. Editors often replace files
// atomically, so rename and remove events trigger a reload too.
func watchDatasets(ctx context.Context, dir string, store *storage.Store, hub *realtime.Hub, logger *log.Logger) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	logger.Infof("watching datasets directory: %s", dir)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
					continue
				}
				logger.Debugf("dataset change: %s (%s)", event.Name, event.Op)

				// Small delay so the write settles before reloading.
				time.Sleep(100 * time.Millisecond)

				if err := store.Load(); err != nil {
					logger.Errorf("failed to reload datasets: %v", err)
					continue
				}
				logger.Infof("reloaded %d datasets after change to %s", store.Count(), event.Name)
				hub.Publish(realtime.NewDatasetEvent(realtime.EventReloaded, "", ""))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warnf("dataset watcher error: %v", err)
			}
		}
	}()

	return watcher, nil
}
