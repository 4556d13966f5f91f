// -----------------------------------------------------------------------
// OperationRegistry: maps operation names to handler functions and
// enumerates the supported operation set.
// -----------------------------------------------------------------------

package registry

import (
	"sync"

	"github.com/ternarybob/batchpdf/internal/jobtypes"
)

// Handler is the uniform operation-handler signature the core consumes.
// A handler must be total: it never panics, and on internal failure it
// returns an OperationOutcome with Success=false and populated Errors.
type Handler func(filePath string, params map[string]interface{}) jobtypes.OperationOutcome

// Registry maps operation names to handlers. Safe for concurrent use:
// handlers are looked up from many worker goroutines simultaneously, one
// per in-flight job.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	order    []string
}

func New() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds or replaces the handler for name.
func (r *Registry) Register(name string, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[name]; !exists {
		r.order = append(r.order, name)
	}
	r.handlers[name] = handler
}

// Lookup returns the handler registered for name, or ok=false.
func (r *Registry) Lookup(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// Enumerate lists the registered operation names in registration order.
func (r *Registry) Enumerate() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}
