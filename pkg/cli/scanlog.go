package cli

import (
	"context"
	"io"
	"os"

	"github.com/acalanetwork/relver/pkg/domain/model"
	"github.com/acalanetwork/relver/pkg/infra/actions"
	"github.com/acalanetwork/relver/pkg/usecase"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdScanLog(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "scan-log",
		Usage:     "Print a warning annotation for every index change reported in a log file",
		ArgsUsage: "<log file>",
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			path := c.Args().First()
			if path == "" {
				return goerr.Wrap(model.ErrMissingArgument, "log file path is required")
			}

			f, err := os.Open(path)
			if err != nil {
				return goerr.Wrap(err, "failed to open log file", goerr.V("path", path))
			}
			defer f.Close()

			changes, err := usecase.ScanIndexChanges(f)
			if err != nil {
				return goerr.Wrap(err, "failed to scan log file", goerr.V("path", path))
			}

			for _, change := range changes {
				if err := actions.Warning(stdout, change.Line); err != nil {
					return err
				}
			}

			logger.Info("Scanned log file",
				"path", path,
				"index_changes", len(changes),
			)
			return nil
		},
	}
}
