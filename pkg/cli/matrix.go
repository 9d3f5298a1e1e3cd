package cli

import (
	"context"
	"io"

	"github.com/acalanetwork/relver/pkg/cli/config"
	"github.com/acalanetwork/relver/pkg/domain/model"
	"github.com/acalanetwork/relver/pkg/usecase"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdMatrix(summary io.Writer) *cli.Command {
	var (
		actionsCfg config.Actions
		releaseCfg config.Release
	)

	return &cli.Command{
		Name:    "matrix",
		Aliases: []string{"m"},
		Usage:   "Select the chains to build: the release branch's chain, or every known chain",
		Flags:   append(actionsCfg.Flags(), releaseCfg.Flags()...),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if err := releaseCfg.Configure(); err != nil {
				return goerr.Wrap(err, "failed to configure release settings")
			}

			// Matrix selection only parses names, so no branch lister is needed
			resolver, err := usecase.NewResolver(nil, usecase.WithChains(releaseCfg.ChainSet()))
			if err != nil {
				return goerr.Wrap(err, "failed to create resolver")
			}

			selection, err := resolver.SelectMatrix(actionsCfg.BranchName())
			if err != nil {
				return goerr.Wrap(err, "failed to select build matrix")
			}

			entries, err := matrixOutputs(selection)
			if err != nil {
				return err
			}
			if err := writeBatches(logger, newEntryBatch("output", actionsCfg.OutputPath, entries)); err != nil {
				return err
			}

			printMatrix(summary, selection)
			return nil
		},
	}
}

func matrixOutputs(sel *model.MatrixSelection) ([]model.Entry, error) {
	matrix, err := sel.Matrix.JSON()
	if err != nil {
		return nil, err
	}

	entries := []model.Entry{{Key: "matrix", Value: matrix}}
	if sel.Release != nil {
		entries = append(entries, model.Entry{Key: "version", Value: sel.Release.Version.String()})
	}
	return entries, nil
}
