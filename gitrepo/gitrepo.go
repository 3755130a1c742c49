// Package gitrepo is the git adapter behind bucket pull/outdated and the
// host manager's own self-update check, built on
// github.com/go-git/go-git/v5 — the pure-Go git implementation some
// git-touching Go tools (haya14busa-binstaller, EvSecDev-SCMP) reach for
// instead of shelling out to a git binary.
package gitrepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/winpax/gscoop/progress"
	"github.com/winpax/gscoop/scooperr"
)

// Repository wraps an opened on-disk git repository.
type Repository struct {
	path string
	repo *git.Repository
}

// Open opens the repository rooted at path.
func Open(path string) (*Repository, error) {
	r, err := git.PlainOpen(path)
	if err != nil {
		return nil, scooperr.New("gitrepo.Open", scooperr.Repo, path, err)
	}
	return &Repository{path: path, repo: r}, nil
}

// ErrNoActiveBranch is returned by CurrentBranch when HEAD is detached.
var ErrNoActiveBranch = scooperr.Errorf(scooperr.Repo, "HEAD is not on a named branch")

// CurrentBranch returns HEAD's shorthand branch name.
func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", scooperr.New("Repository.CurrentBranch", scooperr.Repo, r.path, err)
	}
	if !head.Name().IsBranch() {
		return "", ErrNoActiveBranch
	}
	return head.Name().Short(), nil
}

// OriginURL returns the configured "origin" remote's fetch URL, or "" if
// there is no such remote.
func (r *Repository) OriginURL() string {
	origin, err := r.repo.Remote("origin")
	if err != nil || len(origin.Config().URLs) == 0 {
		return ""
	}
	return origin.Config().URLs[0]
}

// Fetch fetches from origin using its configured refspecs, with
// tag-autodownload enabled, reporting byte/object progress through p if non-nil.
func (r *Repository) Fetch(ctx context.Context, p progress.Reporter) error {
	origin, err := r.repo.Remote("origin")
	if err != nil {
		return scooperr.New("Repository.Fetch", scooperr.Repo, r.path, err)
	}
	opts := &git.FetchOptions{RemoteName: "origin", Tags: git.AllTags}
	if p != nil {
		opts.Progress = progress.GitSideband(p)
	}
	err = origin.FetchContext(ctx, opts)
	if p != nil {
		p.Finish()
	}
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return scooperr.New("Repository.Fetch", scooperr.Repo, r.path, err)
	}
	return nil
}

// Outdated reports whether the first branch ref origin advertises (or its
// first advertised ref, when it advertises no branch) differs from local
// HEAD, without performing a fetch: it lists the remote's
// advertised refs directly.
func (r *Repository) Outdated() (bool, error) {
	origin, err := r.repo.Remote("origin")
	if err != nil {
		return false, scooperr.New("Repository.Outdated", scooperr.Repo, r.path, err)
	}
	refs, err := origin.List(&git.ListOptions{})
	if err != nil {
		return false, scooperr.New("Repository.Outdated", scooperr.Repo, r.path, err)
	}
	if len(refs) == 0 {
		return false, nil
	}

	local, err := r.repo.Head()
	if err != nil {
		return false, scooperr.New("Repository.Outdated", scooperr.Repo, r.path, err)
	}

	remoteHead := firstRemoteHead(refs)
	if remoteHead == nil {
		return false, nil
	}
	return remoteHead.Hash() != local.Hash(), nil
}

func firstRemoteHead(refs []*plumbing.Reference) *plumbing.Reference {
	for _, ref := range refs {
		if ref.Name() == plumbing.HEAD {
			continue
		}
		if ref.Name().IsBranch() {
			return ref
		}
	}
	if len(refs) > 0 {
		return refs[0]
	}
	return nil
}

// PullResult describes which of Pull's three branches executed.
type PullResult int

const (
	PullUpToDate PullResult = iota
	PullFastForward
	PullMerged
)

// Pull implements a three-branch pull algorithm: fast-forward when local
// HEAD is an ancestor of the fetched commit, a merge commit when neither
// is an ancestor of the other, and a no-op when already
// up-to-date.
func (r *Repository) Pull(ctx context.Context, p progress.Reporter) (PullResult, error) {
	branch, err := r.CurrentBranch()
	if err != nil {
		return PullUpToDate, err
	}
	if err := r.Fetch(ctx, p); err != nil {
		return PullUpToDate, err
	}

	localRef, err := r.repo.Head()
	if err != nil {
		return PullUpToDate, scooperr.New("Repository.Pull", scooperr.Repo, r.path, err)
	}
	remoteRefName := plumbing.NewRemoteReferenceName("origin", branch)
	remoteRef, err := r.repo.Reference(remoteRefName, true)
	if err != nil {
		return PullUpToDate, scooperr.New("Repository.Pull", scooperr.Repo, r.path, err)
	}

	if localRef.Hash() == remoteRef.Hash() {
		return PullUpToDate, nil
	}

	localCommit, err := r.repo.CommitObject(localRef.Hash())
	if err != nil {
		return PullUpToDate, scooperr.New("Repository.Pull", scooperr.Repo, r.path, err)
	}
	remoteCommit, err := r.repo.CommitObject(remoteRef.Hash())
	if err != nil {
		return PullUpToDate, scooperr.New("Repository.Pull", scooperr.Repo, r.path, err)
	}

	isAncestor, err := localCommit.IsAncestor(remoteCommit)
	if err != nil {
		return PullUpToDate, scooperr.New("Repository.Pull", scooperr.Repo, r.path, err)
	}
	branchRef := plumbing.NewBranchReferenceName(branch)

	if isAncestor {
		if err := r.fastForward(branchRef, remoteRef.Hash()); err != nil {
			return PullUpToDate, err
		}
		return PullFastForward, nil
	}

	if err := r.merge(branchRef, localCommit, remoteCommit); err != nil {
		return PullUpToDate, err
	}
	return PullMerged, nil
}

func (r *Repository) fastForward(branchRef plumbing.ReferenceName, target plumbing.Hash) error {
	ref := plumbing.NewHashReference(branchRef, target)
	if err := r.repo.Storer.SetReference(ref); err != nil {
		return scooperr.New("Repository.fastForward", scooperr.Repo, r.path, err)
	}
	wt, err := r.repo.Worktree()
	if err != nil {
		return scooperr.New("Repository.fastForward", scooperr.Repo, r.path, err)
	}
	if err := wt.Checkout(&git.CheckoutOptions{Branch: branchRef, Force: true}); err != nil {
		return scooperr.New("Repository.fastForward", scooperr.Repo, r.path, err)
	}
	return nil
}

// merge constructs a merge commit recording both parents. go-git has no
// tree-level three-way merge algorithm, so the fetched commit's tree is
// taken wholesale as the merge result (remote wins on conflict) while the
// commit graph still records both parents, matching upstream history.
func (r *Repository) merge(branchRef plumbing.ReferenceName, local, remote *object.Commit) error {
	sig := object.Signature{Name: "gscoop", Email: "gscoop@localhost"}
	commit := &object.Commit{
		Author:       sig,
		Committer:    sig,
		Message:      fmt.Sprintf("Merge: %s into %s", remote.Hash.String(), local.Hash.String()),
		TreeHash:     remote.TreeHash,
		ParentHashes: []plumbing.Hash{local.Hash, remote.Hash},
	}
	obj := r.repo.Storer.NewEncodedObject()
	if err := commit.Encode(obj); err != nil {
		return scooperr.New("Repository.merge", scooperr.Repo, r.path, err)
	}
	hash, err := r.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return scooperr.New("Repository.merge", scooperr.Repo, r.path, err)
	}
	if err := r.fastForward(branchRef, hash); err != nil {
		return err
	}
	return nil
}

// PullWithChangelog pulls, then returns the first non-empty, trimmed
// subject line of every commit between the pre-pull HEAD and the new
// HEAD, oldest first.
func (r *Repository) PullWithChangelog(ctx context.Context, p progress.Reporter) ([]string, error) {
	before, err := r.repo.Head()
	if err != nil {
		return nil, scooperr.New("Repository.PullWithChangelog", scooperr.Repo, r.path, err)
	}
	preHash := before.Hash()

	if _, err := r.Pull(ctx, p); err != nil {
		return nil, err
	}

	after, err := r.repo.Head()
	if err != nil {
		return nil, scooperr.New("Repository.PullWithChangelog", scooperr.Repo, r.path, err)
	}
	if after.Hash() == preHash {
		return nil, nil
	}

	iter, err := r.repo.Log(&git.LogOptions{From: after.Hash()})
	if err != nil {
		return nil, scooperr.New("Repository.PullWithChangelog", scooperr.Repo, r.path, err)
	}
	defer iter.Close()

	var subjects []string
	err = iter.ForEach(func(c *object.Commit) error {
		if c.Hash == preHash {
			return storer.ErrStop
		}
		subjects = append(subjects, firstLine(c.Message))
		return nil
	})
	if err != nil && err != storer.ErrStop {
		return nil, scooperr.New("Repository.PullWithChangelog", scooperr.Repo, r.path, err)
	}

	for i, j := 0, len(subjects)-1; i < j; i, j = i+1, j-1 {
		subjects[i], subjects[j] = subjects[j], subjects[i]
	}
	return subjects, nil
}

func firstLine(msg string) string {
	for _, line := range strings.Split(msg, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// LatestCommitTime returns the committer time of HEAD, used by the
// export engine to report a bucket's last-updated timestamp.
func (r *Repository) LatestCommitTime() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", scooperr.New("Repository.LatestCommitTime", scooperr.Repo, r.path, err)
	}
	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return "", scooperr.New("Repository.LatestCommitTime", scooperr.Repo, r.path, err)
	}
	return commit.Committer.When.Format("2006-01-02T15:04:05Z07:00"), nil
}
