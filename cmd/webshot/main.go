package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"webshot/pkg/config"
	"webshot/pkg/export"
	"webshot/pkg/offscreen"
	"webshot/pkg/watch"
	stdnet "webshot/std/net"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
		os.Exit(1)
	}
	cmd, err := config.Parse("webshot", os.Args[1:], os.LookupEnv, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	setupLogging(cmd.Verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cmd); err != nil {
		fmt.Fprintf(os.Stderr, "Error capturing %s: %v\n", cmd.URL, err)
		os.Exit(1)
	}
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// run captures once, then keeps capturing on every change in watch mode.
func run(ctx context.Context, cmd *config.Command) error {
	if !cmd.Watch {
		return capture(ctx, cmd)
	}

	path, err := localPath(cmd.URL)
	if err != nil {
		return err
	}
	if err := capture(ctx, cmd); err != nil {
		slog.Error("webshot: capture failed", "url", cmd.URL, "err", err)
	}
	return watch.Run(ctx, path, func() {
		if err := capture(ctx, cmd); err != nil {
			slog.Error("webshot: capture failed", "url", cmd.URL, "err", err)
		}
	})
}

func capture(ctx context.Context, cmd *config.Command) error {
	session := offscreen.NewSession(cmd.Options(cmd.URL))
	surf, err := session.Run(ctx)
	if err != nil {
		return err
	}
	if err := export.SavePNG(ctx, cmd.Output, surf); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Saved %dx%d %s to %s\n", surf.Width, surf.Height, surf.Format, cmd.Output)
	return nil
}

// localPath returns the file behind arg, which watch mode requires.
func localPath(arg string) (string, error) {
	uri, err := stdnet.NormalizeURI(arg)
	if err != nil {
		return "", err
	}
	if !stdnet.IsFileURL(uri) {
		return "", fmt.Errorf("-watch needs a local file, got %s", arg)
	}
	return stdnet.FilePath(uri)
}
