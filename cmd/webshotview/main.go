package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"webshot/pkg/config"
	"webshot/pkg/offscreen"
	"webshot/pkg/watch"
	stdnet "webshot/std/net"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
		os.Exit(1)
	}
	cmd, err := config.Parse("webshotview", os.Args[1:], os.LookupEnv, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cmd.Verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	a := app.New()
	w := a.NewWindow("webshot")
	w.Resize(fyne.NewSize(1024, 768))

	shot := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	shot.FillMode = canvas.ImageFillOriginal
	shot.ScaleMode = canvas.ImageScalePixels
	status := widget.NewLabel("Loading " + cmd.URL + "...")
	w.SetContent(container.NewBorder(nil, status, nil, nil, container.NewScroll(shot)))

	ctx, cancel := context.WithCancel(context.Background())
	w.SetOnClosed(cancel)

	show := func() {
		session := offscreen.NewSession(cmd.Options(cmd.URL))
		session.OnStateChange = func(st offscreen.State) {
			fyne.Do(func() { status.SetText(st.String() + " " + cmd.URL) })
		}
		surf, err := session.Run(ctx)
		fyne.Do(func() {
			if err != nil {
				status.SetText("Error: " + err.Error())
				return
			}
			shot.Image = surf.RGBA()
			shot.Refresh()
			status.SetText(fmt.Sprintf("%dx%d %s, %s byte order", surf.Width, surf.Height, surf.Format, surf.Order))
			w.SetTitle(fmt.Sprintf("webshot - %s", session.Title()))
		})
	}

	go func() {
		show()
		if !cmd.Watch {
			return
		}
		uri, err := stdnet.NormalizeURI(cmd.URL)
		if err != nil || !stdnet.IsFileURL(uri) {
			slog.Warn("webshotview: -watch needs a local file", "url", cmd.URL)
			return
		}
		path, err := stdnet.FilePath(uri)
		if err != nil {
			slog.Warn("webshotview: watch", "err", err)
			return
		}
		if err := watch.Run(ctx, path, show); err != nil {
			slog.Warn("webshotview: watch", "err", err)
		}
	}()

	w.ShowAndRun()
}
