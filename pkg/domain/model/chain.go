package model

import (
	"regexp"
	"slices"

	"github.com/m-mizutani/goerr/v2"
)

// ReleaseBranchMarker is the substring every release branch name carries
const ReleaseBranchMarker = "release-"

// Chain identifies a network runtime being released (e.g. acala, karura)
type Chain string

const (
	ChainMandala Chain = "mandala"
	ChainKarura  Chain = "karura"
	ChainAcala   Chain = "acala"
)

// BranchPrefix returns the substring shared by all release branches of the chain
func (c Chain) BranchPrefix() string {
	return ReleaseBranchMarker + string(c) + "-"
}

var chainNamePattern = regexp.MustCompile(`^[a-z][a-z0-9]*$`)

// ChainSet is an ordered list of known chains. The order is kept in the default build matrix.
type ChainSet []Chain

// DefaultChains returns the chains built when no release branch is given
func DefaultChains() ChainSet {
	return ChainSet{ChainMandala, ChainKarura, ChainAcala}
}

// NewChainSet converts raw names into a ChainSet
func NewChainSet(names ...string) ChainSet {
	set := make(ChainSet, 0, len(names))
	for _, name := range names {
		set = append(set, Chain(name))
	}
	return set
}

// Validate checks that the set is non-empty, names are lowercase alphanumerics and unique
func (s ChainSet) Validate() error {
	if len(s) == 0 {
		return goerr.Wrap(ErrInvalidConfig, "at least one chain is required")
	}

	seen := make(map[Chain]struct{}, len(s))
	for _, c := range s {
		if !chainNamePattern.MatchString(string(c)) {
			return goerr.Wrap(ErrInvalidConfig, "invalid chain name", goerr.V("chain", c))
		}
		if _, ok := seen[c]; ok {
			return goerr.Wrap(ErrInvalidConfig, "duplicated chain name", goerr.V("chain", c))
		}
		seen[c] = struct{}{}
	}

	return nil
}

// Contains reports whether c is part of the set
func (s ChainSet) Contains(c Chain) bool {
	return slices.Contains(s, c)
}

// Strings returns chain names as plain strings
func (s ChainSet) Strings() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = string(c)
	}
	return names
}
