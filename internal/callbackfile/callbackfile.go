// Package callbackfile implements the callback-file pseudo-URI scheme: when
// the caller supplies buffer read/write callbacks instead of real paths,
// every path the core would otherwise hand to a file-facing collaborator is
// rewritten to a callback://<opaque-id> URI, and that collaborator reads or
// writes through the registered callbacks instead of the filesystem.
//
// Modeled on five82-spindle's internal/fileutil streaming-copy helpers,
// generalized from "copy these bytes" to "dispatch these bytes through a
// caller-supplied function instead of a file descriptor."
package callbackfile

import (
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
)

// Scheme is the pseudo-URI scheme prefix used for rewritten paths.
const Scheme = "callback://"

// ReadFunc reads up to len(buf) bytes identified by name into buf, returning
// the number of bytes read.
type ReadFunc func(name string, buf []byte) (int, error)

// WriteFunc writes buf under the identifier name, returning the number of
// bytes written.
type WriteFunc func(name string, buf []byte) (int, error)

// BufferCallbackParams carries the caller-supplied read/write callbacks. A
// nil field means that direction is not available through callbacks.
type BufferCallbackParams struct {
	ReadFunc  ReadFunc
	WriteFunc WriteFunc
}

// Enabled reports whether at least one callback is configured.
func (p BufferCallbackParams) Enabled() bool {
	return p.ReadFunc != nil || p.WriteFunc != nil
}

// Registry maps opaque callback-file IDs back to the original path and the
// callbacks that should service it. It is process-local and safe for
// concurrent use, since muxer/demuxer goroutines may resolve entries
// concurrently.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
	params  BufferCallbackParams
}

type entry struct {
	originalName string
}

// NewRegistry creates a registry that dispatches through params.
func NewRegistry(params BufferCallbackParams) *Registry {
	return &Registry{entries: make(map[string]entry), params: params}
}

// Rewrite returns path unchanged if no callback is configured or path is
// already empty; otherwise it registers path under a new opaque ID and
// returns the callback:// pseudo-URI standing in for it.
func (r *Registry) Rewrite(path string) string {
	if path == "" || !r.params.Enabled() {
		return path
	}
	id := uuid.NewString()
	r.mu.Lock()
	r.entries[id] = entry{originalName: path}
	r.mu.Unlock()
	return Scheme + id
}

// IsCallbackFile reports whether path uses the callback pseudo-scheme.
func IsCallbackFile(path string) bool {
	return len(path) >= len(Scheme) && path[:len(Scheme)] == Scheme
}

func idOf(path string) string {
	if !IsCallbackFile(path) {
		return ""
	}
	return path[len(Scheme):]
}

// Open returns a ReadWriteCloser that dispatches through the registered
// callbacks for a callback:// path. Calling it on a non-callback path is a
// programmer error; callers must check IsCallbackFile first.
func (r *Registry) Open(path string) (io.ReadWriteCloser, error) {
	id := idOf(path)
	if id == "" {
		return nil, fmt.Errorf("callbackfile: not a callback path: %s", path)
	}
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("callbackfile: unknown id: %s", id)
	}
	return &handle{registry: r, name: e.originalName}, nil
}

// handle adapts the registered callbacks to io.ReadWriteCloser for a single
// original name.
type handle struct {
	registry *Registry
	name     string
}

func (h *handle) Read(buf []byte) (int, error) {
	if h.registry.params.ReadFunc == nil {
		return 0, fmt.Errorf("callbackfile: no read callback configured for %s", h.name)
	}
	n, err := h.registry.params.ReadFunc(h.name, buf)
	if n == 0 && err == nil {
		return 0, io.EOF
	}
	return n, err
}

func (h *handle) Write(buf []byte) (int, error) {
	if h.registry.params.WriteFunc == nil {
		return 0, fmt.Errorf("callbackfile: no write callback configured for %s", h.name)
	}
	return h.registry.params.WriteFunc(h.name, buf)
}

func (h *handle) Close() error {
	return nil
}
