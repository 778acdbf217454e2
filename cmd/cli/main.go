package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/specialistvlad/variantplan/internal/app"
	"github.com/specialistvlad/variantplan/internal/cli"
	"github.com/specialistvlad/variantplan/internal/hcl"
)

// main is the entrypoint for the variantplan application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// Ctrl-C stops variants that have not started; running ones finish.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// The real main function handles errors and exit codes.
	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			stop()
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW, errW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// Instantiate the concrete HCL loader to pass to the app.
	loader := hcl.NewLoader()
	planApp, err := app.NewApp(outW, errW, appConfig, loader)
	if err != nil {
		return err
	}

	batch, err := planApp.Run(ctx)
	if err != nil {
		return err
	}
	if !batch.OK() {
		return &cli.ExitError{
			Code:    1,
			Message: fmt.Sprintf("%d variant(s) failed, %d skipped", len(batch.Failures), len(batch.Skipped)),
		}
	}
	return nil
}
