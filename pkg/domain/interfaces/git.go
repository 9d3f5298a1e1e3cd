package interfaces

import "context"

// BranchLister lists remote branches of the repository being released
type BranchLister interface {
	// ListBranches returns remote branch names containing substr, ordered by
	// commit date ascending (oldest first)
	ListBranches(ctx context.Context, substr string) ([]string, error)
}
