package cmd

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/offerdeck/offerdeck/pkg/api"
	"github.com/offerdeck/offerdeck/pkg/livefeed"
	"github.com/offerdeck/offerdeck/pkg/prefs"
)

//go:embed web/static/*
var staticFS embed.FS

// WebCommand creates the web command serving the dashboard
func WebCommand() *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Start the web dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "port",
				Usage: "Port to listen on",
				Value: "8080",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind to",
				Value: "localhost",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return startWebServer(ctx, c, c.String("host"), c.String("port"))
		},
	}
}

func startWebServer(ctx context.Context, c *cli.Command, host, port string) error {
	app, err := setupApp(ctx, c)
	if err != nil {
		return err
	}

	// Pick up token refreshes without a restart.
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go func() {
		if err := app.session.Watch(watchCtx); err != nil && watchCtx.Err() == nil {
			log.Printf("Warning: token file watcher stopped: %v", err)
		}
	}()

	prefsPath, err := prefs.DefaultPath()
	if err != nil {
		log.Printf("Warning: preference persistence disabled: %v", err)
		prefsPath = ""
	}

	hub := livefeed.NewHub(0)
	server := api.NewServer(app.cfg, app.client, app.session, hub, prefsPath)
	defer server.Close()

	mux := http.NewServeMux()
	server.RegisterRoutes(mux)
	server.RegisterUIRoutes(mux)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(mustStaticFS()))))

	handler := api.CorsMiddleware(mux)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", host, port),
		Handler: handler,
	}

	go func() {
		log.Printf("Starting dashboard on http://%s:%s", host, port)
		log.Printf("Available endpoints:")
		log.Printf("  Web UI:")
		log.Printf("    GET / - Offers table")
		log.Printf("    GET /table - Table fragment")
		log.Printf("  API:")
		log.Printf("    GET /api/table - Table view as JSON")
		log.Printf("    POST /api/table/state - Mutate table state")
		log.Printf("    POST /api/offer - Create an offer")
		log.Printf("    POST /api/offer/{action}/{id} - Accept, reject or e-sign")
		log.Printf("    GET /api/live - Live refresh feed (WebSocket)")
		log.Printf("    GET /health - Health check")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down dashboard...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return httpServer.Shutdown(shutdownCtx)
}

func mustStaticFS() fs.FS {
	sub, err := fs.Sub(staticFS, "web/static")
	if err != nil {
		panic(err)
	}
	return sub
}
