package gitcli

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/acalanetwork/relver/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

// Runner executes a command in dir and returns its stdout
type Runner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

var _ interfaces.BranchLister = (*Lister)(nil)

// Lister lists remote branches by running the git CLI
type Lister struct {
	dir string
	run Runner
}

// Option configures a Lister
type Option func(*Lister)

// WithRunner replaces the command runner, mainly for tests
func WithRunner(run Runner) Option {
	return func(l *Lister) {
		l.run = run
	}
}

// New creates a Lister for the repository at dir
func New(dir string, opts ...Option) *Lister {
	l := &Lister{
		dir: dir,
		run: execRunner,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// branchListArgs sorts by committer date ascending and prints short ref names only
var branchListArgs = []string{
	"branch",
	"--remotes",
	"--sort=committerdate",
	"--format=%(refname:short)",
}

// ListBranches returns remote branches containing substr, oldest commit first
func (l *Lister) ListBranches(ctx context.Context, substr string) ([]string, error) {
	out, err := l.run(ctx, l.dir, "git", branchListArgs...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list remote branches",
			goerr.V("dir", l.dir),
			goerr.V("args", branchListArgs),
		)
	}

	return filterBranches(out, substr), nil
}

func filterBranches(out []byte, substr string) []string {
	var branches []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.Contains(line, substr) {
			continue
		}
		branches = append(branches, line)
	}
	return branches
}

func execRunner(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, goerr.Wrap(err, "command failed",
			goerr.V("command", name),
			goerr.V("stderr", strings.TrimSpace(stderr.String())),
		)
	}

	return stdout.Bytes(), nil
}
