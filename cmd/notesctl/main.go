// Command notesctl is a terminal client for the notes API.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"notes-be/internal/client"
	"notes-be/internal/logger"
)

func main() {
	apiBase := flag.String("api", envOr("NOTES_API", "http://localhost:5000"), "API base URL")
	token := flag.String("token", os.Getenv("NOTES_TOKEN"), "Bearer token from a previous login")
	logLevel := flag.String("log-level", "warn", "Log level")
	flag.Parse()

	log := logger.NewWithWriter(os.Stderr, "notesctl", *logLevel)

	api, err := client.New(*apiBase, client.WithToken(*token))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := newApp(api, client.NewStore(api, log), bufio.NewReader(os.Stdin), os.Stdout)
	defer a.close()
	runREPL(ctx, a)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
