package authorization

import (
	"sync"

	"github.com/casework-hq/casework/internal/domain/permission"
)

// Request is the framework-independent view of an incoming request that
// guards work on. Guards may stash loaded data with Set for the handler.
type Request struct {
	User    permission.User
	Method  string
	Path    string
	Params  map[string]string
	Payload map[string]any

	mu     sync.RWMutex
	values map[string]any
}

func NewRequest(user permission.User, method, path string, params map[string]string, payload map[string]any) *Request {
	if params == nil {
		params = map[string]string{}
	}
	return &Request{
		User:    user,
		Method:  method,
		Path:    path,
		Params:  params,
		Payload: payload,
		values:  make(map[string]any),
	}
}

func (r *Request) Param(name string) string {
	return r.Params[name]
}

func (r *Request) Set(key string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.values == nil {
		r.values = make(map[string]any)
	}
	r.values[key] = value
}

func (r *Request) Get(key string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	return v, ok
}

// Values returns a copy of everything stored with Set.
func (r *Request) Values() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]any, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}
