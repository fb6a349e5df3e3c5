package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/specialistvlad/playpublisher/internal/app"
	"github.com/specialistvlad/playpublisher/internal/cli"
	"github.com/specialistvlad/playpublisher/internal/ctxlog"
)

// main is the entrypoint for the playpublisher application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}

// run parses args and performs one publish. The status line goes to outW,
// usage text and logs go to errW.
func run(outW, errW io.Writer, args []string) error {
	ctx := ctxlog.WithLogger(context.Background(), slog.Default())

	appConfig, shouldExit, err := cli.Parse(ctx, args, errW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	return app.NewApp(outW, errW, appConfig).Run(ctx)
}
