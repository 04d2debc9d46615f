// Command qrserve serves a QR code texture and its properties over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gogpu/qrtexture"
	"github.com/gogpu/qrtexture/schedule"
	"github.com/gogpu/qrtexture/server"
)

func main() {
	var (
		addr      = flag.String("addr", ":8080", "listen address")
		text      = flag.String("text", "", "initial payload")
		maxBorder = flag.Int("max-border", server.DefaultMaxBorder, "largest accepted border in modules (-1 for no cap)")
		verbose   = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	qrtexture.SetLogger(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop := schedule.NewLoop()
	tex := qrtexture.New(
		qrtexture.WithScheduler(loop),
		qrtexture.WithText(*text),
		qrtexture.WithMaxBorder(*maxBorder),
	)
	defer tex.Close()

	srv := &http.Server{
		Addr:              *addr,
		Handler:           server.New(loop, tex).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	loopErr := make(chan error, 1)
	go func() { loopErr <- loop.Run(ctx) }()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			qrtexture.Logger().Warn("qrserve: shutdown", "err", err)
		}
	}()

	qrtexture.Logger().Info("qrserve: listening", "addr", *addr, "rid", tex.RID())
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	if err := <-loopErr; !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}
