package config

import (
	"bytes"
	"os"

	"github.com/acalanetwork/relver/pkg/domain/interfaces"
	"github.com/acalanetwork/relver/pkg/domain/model"
	"github.com/acalanetwork/relver/pkg/infra/gitcli"
	"github.com/acalanetwork/relver/pkg/infra/gogit"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

const (
	// ListerGit shells out to the git binary
	ListerGit = "git"
	// ListerGoGit reads the repository in-process
	ListerGoGit = "go-git"
)

// Release holds chain and repository configuration. Values given by flags or
// environment take precedence over the TOML file.
type Release struct {
	ConfigPath string
	Chains     []string
	RepoPath   string
	Lister     string
}

// releaseFile is the layout of the TOML configuration file
type releaseFile struct {
	Chains []string `toml:"chains"`
	Repo   string   `toml:"repo"`
	Lister string   `toml:"lister"`
}

// Flags returns CLI flags for release configuration
func (c *Release) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "TOML configuration file",
			Destination: &c.ConfigPath,
			Sources:     cli.EnvVars("RELVER_CONFIG"),
		},
		&cli.StringSliceFlag{
			Name:        "chain",
			Usage:       "Known chain, repeatable; order is the default matrix order (default: mandala, karura, acala)",
			Destination: &c.Chains,
			Sources:     cli.EnvVars("RELVER_CHAINS"),
		},
		&cli.StringFlag{
			Name:        "repo",
			Usage:       "Path of the git repository (default: .)",
			Destination: &c.RepoPath,
			Sources:     cli.EnvVars("RELVER_REPO"),
		},
		&cli.StringFlag{
			Name:        "lister",
			Usage:       "Branch lister implementation (git, go-git) (default: git)",
			Destination: &c.Lister,
			Sources:     cli.EnvVars("RELVER_LISTER"),
		},
	}
}

// Configure merges the configuration file, applies defaults and validates the result
func (c *Release) Configure() error {
	if c.ConfigPath != "" {
		file, err := loadReleaseFile(c.ConfigPath)
		if err != nil {
			return err
		}

		if len(c.Chains) == 0 {
			c.Chains = file.Chains
		}
		if c.RepoPath == "" {
			c.RepoPath = file.Repo
		}
		if c.Lister == "" {
			c.Lister = file.Lister
		}
	}

	if len(c.Chains) == 0 {
		c.Chains = model.DefaultChains().Strings()
	}
	if c.RepoPath == "" {
		c.RepoPath = "."
	}
	if c.Lister == "" {
		c.Lister = ListerGit
	}

	switch c.Lister {
	case ListerGit, ListerGoGit:
	default:
		return goerr.Wrap(model.ErrInvalidConfig, "unknown branch lister", goerr.V("lister", c.Lister))
	}

	return c.ChainSet().Validate()
}

// ChainSet returns the configured chains
func (c *Release) ChainSet() model.ChainSet {
	return model.NewChainSet(c.Chains...)
}

// NewLister creates the configured branch lister
func (c *Release) NewLister() (interfaces.BranchLister, error) {
	switch c.Lister {
	case ListerGoGit:
		lister, err := gogit.Open(c.RepoPath)
		if err != nil {
			return nil, err
		}
		return lister, nil
	case ListerGit, "":
		return gitcli.New(c.RepoPath), nil
	default:
		return nil, goerr.Wrap(model.ErrInvalidConfig, "unknown branch lister", goerr.V("lister", c.Lister))
	}
}

func loadReleaseFile(path string) (*releaseFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	var file releaseFile
	dec := toml.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, goerr.Wrap(model.ErrInvalidConfig, "failed to decode config file",
			goerr.V("path", path),
			goerr.V("reason", err.Error()),
		)
	}

	return &file, nil
}
