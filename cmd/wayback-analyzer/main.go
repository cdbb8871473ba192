package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dhanasekarraju/wayBackAnalyzer/cmd/wayback-analyzer/app"
	"github.com/dhanasekarraju/wayBackAnalyzer/internal/clock"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := app.Run(ctx, os.Args, os.Stdout, os.Stderr, &http.Client{}, clock.NewSystem())
	stop()
	if err != nil {
		log.Print(err)
		os.Exit(1)
	}
}
