// Package gitsource mirrors git repositories of card spec files into a
// local cache directory so they can be walked like any other source.
package gitsource

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
)

// IsGitURL reports whether source names a remote git repository rather
// than a local path.
func IsGitURL(source string) bool {
	if strings.HasPrefix(source, "git@") {
		return true
	}
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && strings.HasSuffix(u.Path, ".git")
}

// Fetch clones repoURL under cacheDir, or pulls the latest changes if it
// was cloned before, and returns the local checkout path.
func Fetch(cacheDir, repoURL string) (string, error) {
	localPath, err := localPathFor(cacheDir, repoURL)
	if err != nil {
		return "", err
	}

	_, statErr := os.Stat(localPath)
	switch {
	case os.IsNotExist(statErr):
		slog.Info("cloning card source", "url", repoURL, "path", localPath)
		_, err := git.PlainClone(localPath, false, &git.CloneOptions{URL: repoURL})
		if err != nil {
			return "", fmt.Errorf("failed to clone %s: %w", repoURL, err)
		}
	case statErr == nil:
		slog.Info("updating card source", "url", repoURL, "path", localPath)
		repo, err := git.PlainOpen(localPath)
		if err != nil {
			return "", fmt.Errorf("failed to open checkout at %s: %w", localPath, err)
		}
		worktree, err := repo.Worktree()
		if err != nil {
			return "", fmt.Errorf("failed to get worktree at %s: %w", localPath, err)
		}
		err = worktree.Pull(&git.PullOptions{RemoteName: "origin"})
		if err != nil && err != git.NoErrAlreadyUpToDate {
			return "", fmt.Errorf("failed to pull %s: %w", repoURL, err)
		}
	default:
		return "", fmt.Errorf("failed to check %s: %w", localPath, statErr)
	}
	return localPath, nil
}

// localPathFor maps a repository URL to a stable checkout location under
// cacheDir, keyed by host and repository path.
func localPathFor(cacheDir, repoURL string) (string, error) {
	if strings.HasPrefix(repoURL, "git@") {
		// scp-like syntax: git@host:user/repo.git
		rest := strings.TrimPrefix(repoURL, "git@")
		host, repoPath, ok := strings.Cut(rest, ":")
		if !ok {
			return "", fmt.Errorf("could not parse git URL %q", repoURL)
		}
		return filepath.Join(cacheDir, host, strings.TrimSuffix(repoPath, ".git")), nil
	}

	u, err := url.Parse(repoURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("could not parse git URL %q", repoURL)
	}
	return filepath.Join(cacheDir, u.Host, strings.TrimSuffix(u.Path, ".git")), nil
}
