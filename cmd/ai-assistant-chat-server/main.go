package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mgoltzsche/ai-assistant-chat/internal/cli"
	"github.com/mgoltzsche/ai-assistant-chat/internal/server"
	"github.com/mgoltzsche/ai-assistant-chat/internal/session"
	"github.com/mgoltzsche/ai-assistant-chat/internal/transport"
	"github.com/mgoltzsche/ai-assistant-chat/pkg/config"
)

func main() {
	cli.LoadDotEnv()

	var cfg config.Configuration

	err := config.AddFlags(flag.CommandLine, &cfg, "/etc/ai-assistant-chat/config.yaml")
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}

	listenAddr := ":8080"
	webDir := ""

	flag.StringVar(&listenAddr, "listen", listenAddr, "Address the server should listen on")
	flag.StringVar(&webDir, "web-dir", webDir, "Path to the web UI directory")
	cli.ParseFlagsWithEnvVars(flag.CommandLine, "CHAT_")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = runServer(ctx, cfg, listenAddr, webDir)
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func runServer(ctx context.Context, cfg config.Configuration, listenAddr, webDir string) error {
	client := transport.NewClient(cfg.Endpoint, time.Duration(cfg.Timeout))
	client.MaxResponseBytes = cfg.MaxResponseBytes

	sessions := session.NewSessions(client)
	defer sessions.Stop()

	mux := http.NewServeMux()
	srv := &http.Server{
		Addr:        listenAddr,
		BaseContext: func(net.Listener) context.Context { return ctx },
		Handler:     mux,
	}

	server.AddRoutes(sessions, webDir, mux)

	go func() {
		<-ctx.Done()
		slog.Info("terminating")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		sessions.Stop()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info(fmt.Sprintf("listening on %s, forwarding messages to %s", srv.Addr, cfg.Endpoint))

	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}

	return err
}
