package workspace

import "sync"

// repoLocks hands out one mutex per repository name. Entries are never
// removed; the set of task identifiers a deployment sees is small and
// stable across rounds.
type repoLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newRepoLocks() *repoLocks {
	return &repoLocks{locks: make(map[string]*sync.Mutex)}
}

func (r *repoLocks) lockFor(repoName string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[repoName]
	if !ok {
		l = &sync.Mutex{}
		r.locks[repoName] = l
	}
	return l
}

// Lock serializes work on one repository's working tree. It blocks until the
// tree is free and returns the release function. Requests for different
// repositories proceed in parallel.
func (m *Manager) Lock(repoName string) (release func()) {
	l := m.locks.lockFor(repoName)
	l.Lock()
	return l.Unlock
}
