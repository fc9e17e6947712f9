package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/filmorate/backend/internal/app"
)

func main() {
	if err := app.Run(context.Background(), os.Args[1:]); err != nil {
		slog.Error("filmorate exited", "error", err)
		os.Exit(1)
	}
}
