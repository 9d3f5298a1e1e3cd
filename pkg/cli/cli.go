package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/acalanetwork/relver/pkg/cli/config"
	"github.com/acalanetwork/relver/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"
)

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	loggerCfg := config.Logger{Output: stderr}
	var logger *slog.Logger

	app := &cli.Command{
		Name:      "relver",
		Usage:     "Release metadata helpers for CI workflows",
		Version:   types.Version,
		Flags:     loggerCfg.Flags(),
		Writer:    stdout,
		ErrWriter: stderr,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdInspect(stderr),
			cmdMatrix(stderr),
			cmdScanLog(stdout),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.New(slog.NewTextHandler(stderr, nil))
		}
		logger.Error("CLI execution failed", slog.Any("error", err))
		return err
	}

	return nil
}
