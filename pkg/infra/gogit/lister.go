package gogit

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/acalanetwork/relver/pkg/domain/interfaces"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/m-mizutani/goerr/v2"
)

var _ interfaces.BranchLister = (*Lister)(nil)

// Lister lists remote-tracking branches by reading the repository with go-git,
// without requiring a git binary
type Lister struct {
	repo *git.Repository
}

// New creates a Lister for an already opened repository
func New(repo *git.Repository) *Lister {
	return &Lister{repo: repo}
}

// Open opens the repository containing path, searching parent directories for .git
func Open(path string) (*Lister, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open git repository", goerr.V("path", path))
	}

	return New(repo), nil
}

type datedBranch struct {
	name string
	when time.Time
}

// ListBranches returns remote branches containing substr ordered by committer
// date ascending. Symbolic refs such as origin/HEAD are skipped.
func (l *Lister) ListBranches(ctx context.Context, substr string) ([]string, error) {
	refs, err := l.repo.References()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get references")
	}
	defer refs.Close()

	var found []datedBranch
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if ref.Type() != plumbing.HashReference || !ref.Name().IsRemote() {
			return nil
		}

		name := ref.Name().Short()
		if !strings.Contains(name, substr) {
			return nil
		}

		commit, err := l.repo.CommitObject(ref.Hash())
		if err != nil {
			return goerr.Wrap(err, "failed to resolve branch commit",
				goerr.V("branch", name),
				goerr.V("hash", ref.Hash().String()),
			)
		}

		found = append(found, datedBranch{name: name, when: commit.Committer.When})
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to iterate references")
	}

	// git sorts ties by refname, do the same
	sort.SliceStable(found, func(i, j int) bool {
		if found[i].when.Equal(found[j].when) {
			return found[i].name < found[j].name
		}
		return found[i].when.Before(found[j].when)
	})

	branches := make([]string, len(found))
	for i, b := range found {
		branches[i] = b.name
	}
	return branches, nil
}
