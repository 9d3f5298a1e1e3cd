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

func cmdInspect(summary io.Writer) *cli.Command {
	var (
		actionsCfg     config.Actions
		releaseCfg     config.Release
		excludeCurrent bool
	)

	flags := append(actionsCfg.Flags(), releaseCfg.Flags()...)
	flags = append(flags, &cli.BoolFlag{
		Name:        "exclude-current",
		Usage:       "Pick the newest release branch of a different version instead of the second newest branch",
		Destination: &excludeCurrent,
		Sources:     cli.EnvVars("RELVER_EXCLUDE_CURRENT"),
	})

	return &cli.Command{
		Name:    "inspect",
		Aliases: []string{"i"},
		Usage:   "Resolve chain, version, previous version and scope of a release branch",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			branch := actionsCfg.BranchName()
			if branch == "" {
				return goerr.Wrap(model.ErrMissingArgument, "branch is required (--branch, GITHUB_HEAD_REF or GITHUB_REF_NAME)")
			}
			if err := releaseCfg.Configure(); err != nil {
				return goerr.Wrap(err, "failed to configure release settings")
			}

			lister, err := releaseCfg.NewLister()
			if err != nil {
				return goerr.Wrap(err, "failed to create branch lister")
			}

			resolver, err := usecase.NewResolver(lister, usecase.WithChains(releaseCfg.ChainSet()))
			if err != nil {
				return goerr.Wrap(err, "failed to create resolver")
			}

			inspection, err := resolver.Inspect(ctx, branch,
				usecase.WithExcludeCurrent(excludeCurrent),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to inspect release branch")
			}

			if err := writeBatches(logger,
				newEntryBatch("output", actionsCfg.OutputPath, inspectionOutputs(inspection)),
				newEntryBatch("env", actionsCfg.EnvPath, inspectionEnv(inspection)),
			); err != nil {
				return err
			}

			printInspection(summary, inspection)
			return nil
		},
	}
}

func inspectionOutputs(in *model.Inspection) []model.Entry {
	return []model.Entry{
		{Key: "chain", Value: string(in.Current.Chain)},
		{Key: "version", Value: in.Current.Version.String()},
		{Key: "scope", Value: string(in.Scope)},
	}
}

func inspectionEnv(in *model.Inspection) []model.Entry {
	return []model.Entry{
		{Key: "CHAIN", Value: string(in.Current.Chain)},
		{Key: "VERSION", Value: in.Current.Version.String()},
		{Key: "PREVIOUS_VERSION", Value: in.Previous.String()},
		{Key: "SCOPE", Value: string(in.Scope)},
	}
}
