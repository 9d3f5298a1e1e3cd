package config

import (
	"os"

	"github.com/urfave/cli/v3"
)

// branchEnvVars are checked in order. GITHUB_HEAD_REF holds the source branch of
// a pull request, where GITHUB_REF_NAME is "<number>/merge".
var branchEnvVars = []string{"RELVER_BRANCH", "GITHUB_HEAD_REF", "GITHUB_REF_NAME"}

// Actions holds the inputs and output files provided by the workflow runner
type Actions struct {
	Branch     string
	OutputPath string
	EnvPath    string
}

// Flags returns CLI flags for workflow runner configuration
func (c *Actions) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "branch",
			Aliases:     []string{"b"},
			Usage:       "Branch name, e.g. release-karura-2.10.0 (remote prefixes are allowed)",
			Destination: &c.Branch,
			Sources:     cli.EnvVars(branchEnvVars...),
		},
		&cli.StringFlag{
			Name:        "github-output",
			Usage:       "Step output file; outputs are only logged when empty",
			Destination: &c.OutputPath,
			Sources:     cli.EnvVars("GITHUB_OUTPUT"),
		},
		&cli.StringFlag{
			Name:        "github-env",
			Usage:       "Environment file for subsequent steps; variables are only logged when empty",
			Destination: &c.EnvPath,
			Sources:     cli.EnvVars("GITHUB_ENV"),
		},
	}
}

// BranchName returns the branch given by flag, or the first non-empty branch
// variable. The runner exports GITHUB_HEAD_REF as an empty string outside pull
// requests, which stops the flag source lookup before GITHUB_REF_NAME.
func (c *Actions) BranchName() string {
	if c.Branch != "" {
		return c.Branch
	}
	for _, key := range branchEnvVars {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}
