// Package history records every snapshot write as a commit in a plain git
// repository rooted at the data directory, so table state can be inspected
// and diffed with stock git tooling.
package history

import (
	"fmt"
	"os"
	"time"

	"github.com/go-git/go-billy/v6/osfs"
	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing/cache"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/go-git/go-git/v6/storage/filesystem"
)

const (
	authorName  = "topql"
	authorEmail = "topql@localhost"
)

// Entry describes one recorded snapshot commit.
type Entry struct {
	ID      string
	Message string
	When    time.Time
}

// Log is a commit log over a data directory. It is not safe for concurrent
// use; the owning database serializes access.
type Log struct {
	repo *git.Repository
}

// Open initializes or reopens the git repository under dir. The repository
// metadata lives in dir/.git; the worktree is dir itself.
func Open(dir string) (*Log, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("history: create dir: %w", err)
	}

	wt := osfs.New(dir)
	fs, err := wt.Chroot(".git")
	if err != nil {
		return nil, fmt.Errorf("history: chroot .git: %w", err)
	}
	storer := filesystem.NewStorage(fs, cache.NewObjectLRUDefault())

	var repo *git.Repository
	if _, statErr := os.Stat(fs.Root()); statErr != nil {
		repo, err = git.Init(storer, git.WithWorkTree(wt))
	} else {
		repo, err = git.Open(storer, wt)
	}
	if err != nil {
		return nil, fmt.Errorf("history: open repository: %w", err)
	}
	return &Log{repo: repo}, nil
}

// Commit stages everything in the data directory and records a commit with
// message. Commits are recorded even when nothing changed on disk, so the
// log mirrors the statement stream one to one.
func (l *Log) Commit(message string) error {
	wt, err := l.repo.Worktree()
	if err != nil {
		return fmt.Errorf("history: worktree: %w", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("history: stage snapshots: %w", err)
	}
	_, err = wt.Commit(message, &git.CommitOptions{
		AllowEmptyCommits: true,
		Author: &object.Signature{
			Name:  authorName,
			Email: authorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("history: commit: %w", err)
	}
	return nil
}

// Latest returns the most recent entry, or a zero Entry when the log is
// still empty.
func (l *Log) Latest() Entry {
	head, err := l.repo.Head()
	if err != nil || head == nil {
		return Entry{}
	}
	commit, err := l.repo.CommitObject(head.Hash())
	if err != nil {
		return Entry{}
	}
	return Entry{
		ID:      head.Hash().String(),
		Message: commit.Message,
		When:    commit.Committer.When,
	}
}

// Entries returns the full log, newest first.
func (l *Log) Entries() ([]Entry, error) {
	head, err := l.repo.Head()
	if err != nil {
		return nil, nil
	}
	iter, err := l.repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("history: read log: %w", err)
	}
	var out []Entry
	err = iter.ForEach(func(c *object.Commit) error {
		out = append(out, Entry{
			ID:      c.Hash.String(),
			Message: c.Message,
			When:    c.Committer.When,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("history: read log: %w", err)
	}
	return out, nil
}
