package gitinfo

import (
	"fmt"

	"github.com/go-git/go-git/v5"
)

// GitInfoAdapter implements domain.GitInfo using go-git. It identifies the
// checkout of the site that renders the carousels.
type GitInfoAdapter struct{}

func New() *GitInfoAdapter {
	return &GitInfoAdapter{}
}

// CommitHash returns the HEAD commit of the repository containing sitePath,
// suffixed with "-dirty" when the worktree has uncommitted changes.
func (g *GitInfoAdapter) CommitHash(sitePath string) (string, error) {
	repo, err := git.PlainOpenWithOptions(sitePath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("opening git repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}
	hash := head.Hash().String()

	wt, err := repo.Worktree()
	if err != nil {
		// bare repositories have no worktree to be dirty
		return hash, nil
	}
	status, err := wt.Status()
	if err != nil {
		return hash, nil
	}
	if !status.IsClean() {
		hash += "-dirty"
	}
	return hash, nil
}
