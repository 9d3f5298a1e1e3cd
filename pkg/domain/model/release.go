package model

import (
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
	"github.com/m-mizutani/goerr/v2"
)

// ReleaseVersion is a major.minor.patch triple without prerelease or build metadata
type ReleaseVersion struct {
	Major uint64
	Minor uint64
	Patch uint64
}

var releaseVersionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// ParseReleaseVersion parses "major.minor.patch". Components are plain decimal
// numbers, so "2.09.0" is read as 2.9.0. Prefixes, prerelease and build
// metadata are rejected.
func ParseReleaseVersion(s string) (ReleaseVersion, error) {
	if !releaseVersionPattern.MatchString(s) {
		return ReleaseVersion{}, goerr.Wrap(ErrParse, "release version must be major.minor.patch",
			goerr.V("version", s),
		)
	}

	v, err := semver.NewVersion(s)
	if err != nil {
		return ReleaseVersion{}, goerr.Wrap(ErrParse, "invalid release version",
			goerr.V("version", s),
			goerr.V("reason", err.Error()),
		)
	}

	return ReleaseVersion{
		Major: v.Major(),
		Minor: v.Minor(),
		Patch: v.Patch(),
	}, nil
}

// String returns the canonical "major.minor.patch" form
func (v ReleaseVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0 or 1 depending on whether v is lower, equal or higher than other
func (v ReleaseVersion) Compare(other ReleaseVersion) int {
	return v.toSemver().Compare(other.toSemver())
}

func (v ReleaseVersion) toSemver() *semver.Version {
	return semver.New(v.Major, v.Minor, v.Patch, "", "")
}

// ReleaseRecord is the chain and version extracted from a release branch
type ReleaseRecord struct {
	Chain   Chain          // Chain the branch releases
	Version ReleaseVersion // Version the branch releases
	Branch  string         // Branch name as given, including any remote prefix
}
