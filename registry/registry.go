package registry

import (
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Handle is a cancellable in-flight operation. Cancel must be safe to call
// after the operation has completed and must not call back into the
// Registry synchronously. Handles are compared by identity, so
// implementations should be pointer types.
type Handle interface {
	Cancel()
}

// Key builds the registry key for a tagged task.
func Key(tag string, taskID uint64) string {
	return tag + "-" + strconv.FormatUint(taskID, 10)
}

// Registry maps task keys to in-flight handles.
type Registry struct {
	mu    sync.Mutex
	tasks map[string]Handle
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{tasks: make(map[string]Handle)}
}

// Register stores h under key, replacing any previous handle.
func (r *Registry) Register(key string, h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[key] = h
}

// Remove deletes key. Removing an unknown key is a no-op.
func (r *Registry) Remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tasks, key)
}

// RemoveIf deletes key only while it still maps to h, so a completed task
// cannot evict a newer handle registered under the same key.
func (r *Registry) RemoveIf(key string, h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.tasks[key]; ok && cur == h {
		delete(r.tasks, key)
	}
}

// CancelPrefix cancels every handle whose key starts with prefix and
// returns how many were cancelled. Cancelled entries are removed. A prefix
// matching nothing is a no-op.
func (r *Registry) CancelPrefix(prefix string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]string, 0)
	for key := range r.tasks {
		if strings.HasPrefix(key, prefix) {
			matched = append(matched, key)
		}
	}
	for _, key := range matched {
		if h := r.tasks[key]; h != nil {
			h.Cancel()
		}
		delete(r.tasks, key)
	}
	return len(matched)
}

// Len returns the number of registered handles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

// Keys returns the registered keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.Lock()
	keys := make([]string, 0, len(r.tasks))
	for k := range r.tasks {
		keys = append(keys, k)
	}
	r.mu.Unlock()
	sort.Strings(keys)
	return keys
}
