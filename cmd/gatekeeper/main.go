package main

import (
	"context"
	"os"
	"os/signal"

	"gatekeeper/cmd/gatekeeper/serve"
	"gatekeeper/internal/logutil"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "gatekeeper",
		Usage: "Credential issuance and session verification service",
		Commands: []*cli.Command{
			serve.Cmd(),
		},
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx = logutil.WithLogger(ctx, log.Logger)
	err := app.RunContext(ctx, os.Args)
	if err != nil {
		log.Error().Err(err).Msg("Application failed")
	}
}
