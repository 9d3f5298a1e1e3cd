package usecase

import (
	"context"
	"regexp"
	"slices"
	"strings"

	"github.com/acalanetwork/relver/pkg/domain/interfaces"
	"github.com/acalanetwork/relver/pkg/domain/model"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Resolver extracts release metadata from branch names and finds the previous
// release of a chain
type Resolver struct {
	lister  interfaces.BranchLister
	chains  model.ChainSet
	pattern *regexp.Regexp
}

// ResolverOption configures a Resolver
type ResolverOption func(*Resolver)

// WithChains replaces the default known chain set
func WithChains(chains model.ChainSet) ResolverOption {
	return func(r *Resolver) {
		r.chains = slices.Clone(chains)
	}
}

// NewResolver creates a Resolver. lister may be nil when only parsing and
// matrix selection are needed.
func NewResolver(lister interfaces.BranchLister, opts ...ResolverOption) (*Resolver, error) {
	r := &Resolver{
		lister: lister,
		chains: model.DefaultChains(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.chains.Validate(); err != nil {
		return nil, err
	}

	alternatives := make([]string, len(r.chains))
	for i, c := range r.chains {
		alternatives[i] = regexp.QuoteMeta(string(c))
	}
	r.pattern = regexp.MustCompile(
		regexp.QuoteMeta(model.ReleaseBranchMarker) +
			`(` + strings.Join(alternatives, "|") + `)-(\d+\.\d+\.\d+)`,
	)

	return r, nil
}

// Chains returns the known chains in matrix order
func (r *Resolver) Chains() model.ChainSet {
	return slices.Clone(r.chains)
}

// Parse extracts chain and version from a branch name. The match may appear
// anywhere, so remote prefixes such as "origin/" are ignored.
func (r *Resolver) Parse(branch string) (*model.ReleaseRecord, error) {
	m := r.pattern.FindStringSubmatch(branch)
	if m == nil {
		return nil, goerr.Wrap(model.ErrParse, "branch does not match release pattern",
			goerr.V("branch", branch),
			goerr.V("chains", r.chains.Strings()),
		)
	}

	version, err := model.ParseReleaseVersion(m[2])
	if err != nil {
		return nil, goerr.Wrap(err, "invalid version in release branch", goerr.V("branch", branch))
	}

	return &model.ReleaseRecord{
		Chain:   model.Chain(m[1]),
		Version: version,
		Branch:  branch,
	}, nil
}

type previousConfig struct {
	current *model.ReleaseVersion
}

// PreviousOption configures PreviousVersion
type PreviousOption func(*previousConfig)

// WithCurrent excludes every branch of the given version and selects the newest
// remaining one, instead of assuming the newest listed branch is the current release
func WithCurrent(v model.ReleaseVersion) PreviousOption {
	return func(cfg *previousConfig) {
		cfg.current = &v
	}
}

// PreviousVersion returns the release preceding the in-flight one for chain.
// Branches are taken in commit date order as returned by the lister. By default
// the newest branch is assumed to be the in-flight release and the one before it
// is returned.
func (r *Resolver) PreviousVersion(ctx context.Context, chain model.Chain, opts ...PreviousOption) (model.ReleaseVersion, error) {
	logger := ctxlog.From(ctx)

	var cfg previousConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if r.lister == nil {
		return model.ReleaseVersion{}, goerr.New("branch lister is not configured")
	}
	if !r.chains.Contains(chain) {
		return model.ReleaseVersion{}, goerr.Wrap(model.ErrParse, "unknown chain",
			goerr.V("chain", chain),
			goerr.V("chains", r.chains.Strings()),
		)
	}

	raw, err := r.lister.ListBranches(ctx, chain.BranchPrefix())
	if err != nil {
		return model.ReleaseVersion{}, goerr.Wrap(err, "failed to list release branches", goerr.V("chain", chain))
	}
	branches := compactBranches(raw)

	logger.Debug("Listed release branches",
		"chain", chain,
		"count", len(branches),
		"branches", branches,
	)

	if cfg.current != nil {
		return r.latestExcluding(ctx, chain, branches, *cfg.current)
	}

	if len(branches) < 2 {
		return model.ReleaseVersion{}, goerr.Wrap(model.ErrInsufficientHistory, "at least two release branches are required",
			goerr.V("chain", chain),
			goerr.V("found", len(branches)),
		)
	}

	previous := branches[len(branches)-2]
	record, err := r.Parse(previous)
	if err != nil {
		return model.ReleaseVersion{}, goerr.Wrap(err, "failed to parse previous release branch", goerr.V("chain", chain))
	}

	logger.Debug("Selected previous release branch",
		"chain", chain,
		"branch", previous,
		"version", record.Version.String(),
	)

	return record.Version, nil
}

func (r *Resolver) latestExcluding(ctx context.Context, chain model.Chain, branches []string, current model.ReleaseVersion) (model.ReleaseVersion, error) {
	logger := ctxlog.From(ctx)

	for i := len(branches) - 1; i >= 0; i-- {
		record, err := r.Parse(branches[i])
		if err != nil {
			logger.Debug("Skip unparsable branch", "branch", branches[i], "error", err)
			continue
		}
		if record.Version == current {
			continue
		}

		logger.Debug("Selected previous release branch",
			"chain", chain,
			"branch", branches[i],
			"version", record.Version.String(),
			"excluded", current.String(),
		)
		return record.Version, nil
	}

	return model.ReleaseVersion{}, goerr.Wrap(model.ErrInsufficientHistory, "no release branch other than the current one",
		goerr.V("chain", chain),
		goerr.V("current", current.String()),
		goerr.V("found", len(branches)),
	)
}

// compactBranches trims entries and drops blank ones, keeping order
func compactBranches(raw []string) []string {
	branches := make([]string, 0, len(raw))
	for _, b := range raw {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		branches = append(branches, b)
	}
	return branches
}

// SelectMatrix returns a single-chain matrix for a release branch, or every
// known chain when branch is empty or not a release branch
func (r *Resolver) SelectMatrix(branch string) (*model.MatrixSelection, error) {
	if !strings.Contains(branch, model.ReleaseBranchMarker) {
		return &model.MatrixSelection{
			Matrix: model.Matrix{Network: r.Chains()},
		}, nil
	}

	record, err := r.Parse(branch)
	if err != nil {
		return nil, err
	}

	return &model.MatrixSelection{
		Matrix:  model.Matrix{Network: []model.Chain{record.Chain}},
		Release: record,
	}, nil
}

type inspectConfig struct {
	excludeCurrent bool
}

// InspectOption configures Inspect
type InspectOption func(*inspectConfig)

// WithExcludeCurrent makes Inspect ignore branches of the version being inspected
// when looking for the previous release
func WithExcludeCurrent(exclude bool) InspectOption {
	return func(cfg *inspectConfig) {
		cfg.excludeCurrent = exclude
	}
}

// Inspect parses branch, resolves the previous release of its chain and
// classifies the release scope
func (r *Resolver) Inspect(ctx context.Context, branch string, opts ...InspectOption) (*model.Inspection, error) {
	var cfg inspectConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	current, err := r.Parse(branch)
	if err != nil {
		return nil, err
	}

	var prevOpts []PreviousOption
	if cfg.excludeCurrent {
		prevOpts = append(prevOpts, WithCurrent(current.Version))
	}

	previous, err := r.PreviousVersion(ctx, current.Chain, prevOpts...)
	if err != nil {
		return nil, err
	}

	logger := ctxlog.From(ctx)

	// The newest listed branch is assumed to be the in-flight one. When it has
	// not been pushed yet the selected branch is the current or a newer release.
	if previous.Compare(current.Version) >= 0 {
		logger.Warn("Previous release is not lower than the current release; the current branch may not be listed yet",
			"branch", branch,
			"version", current.Version.String(),
			"previous_version", previous.String(),
		)
	}

	inspection := &model.Inspection{
		Current:  *current,
		Previous: previous,
		Scope:    model.ClassifyScope(previous, current.Version),
	}

	logger.Info("Inspected release branch",
		"branch", branch,
		"chain", current.Chain,
		"version", current.Version.String(),
		"previous_version", previous.String(),
		"scope", inspection.Scope,
	)

	return inspection, nil
}
