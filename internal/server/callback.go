package server

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"sync"

	"github.com/desertthunder/spotkit/internal/auth"
	"github.com/desertthunder/spotkit/internal/shared"
)

// CallbackResult is the outcome of the redirect: a code, or why there is none.
type CallbackResult struct {
	Code string
	Err  error
}

// CallbackHandler receives the authorization redirect once.
type CallbackHandler struct {
	path   string
	state  string
	result chan CallbackResult
	once   sync.Once

	mu  sync.Mutex
	hit bool
}

// NewCallbackHandler serves GET path and expects state back. An empty state is not checked.
func NewCallbackHandler(path, state string) *CallbackHandler {
	if path == "" {
		path = "/callback"
	}
	return &CallbackHandler{
		path:   path,
		state:  state,
		result: make(chan CallbackResult, 1),
	}
}

func (h *CallbackHandler) Routes() []string {
	return []string{http.MethodGet + " " + h.path}
}

func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.hit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.hit = true
	h.mu.Unlock()

	q := r.URL.Query()
	if h.state != "" && q.Get("state") != h.state {
		h.send(CallbackResult{Err: shared.ErrStateMismatch})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	if errParam := q.Get("error"); errParam != "" {
		err := fmt.Errorf("%w: %s", shared.ErrAuthFailed, errParam)
		if desc := q.Get("error_description"); desc != "" {
			err = fmt.Errorf("%w: %s: %s", shared.ErrAuthFailed, errParam, desc)
		}
		h.send(CallbackResult{Err: err})
		render(w, http.StatusBadRequest, "Authorization Failed", errParam)
		return
	}

	code, ok := auth.ParseRedirectCode(r.URL.RequestURI())
	if !ok {
		h.send(CallbackResult{Err: shared.ErrNoRedirectCode})
		http.Error(w, "Missing authorization code", http.StatusBadRequest)
		return
	}

	h.send(CallbackResult{Code: code})
	render(w, http.StatusOK, "Authorization Successful", "You can close this window and return to the terminal.")
}

func (h *CallbackHandler) send(result CallbackResult) {
	h.once.Do(func() {
		h.result <- result
		close(h.result)
	})
}

// Result receives exactly one result and is then closed.
func (h *CallbackHandler) Result() <-chan CallbackResult {
	return h.result
}

// Wait blocks until the redirect arrives or ctx is done.
func (h *CallbackHandler) Wait(ctx context.Context) (string, error) {
	select {
	case res := <-h.result:
		return res.Code, res.Err
	case <-ctx.Done():
		return "", fmt.Errorf("%w: waiting for authorization: %v", shared.ErrTimeout, ctx.Err())
	}
}

var page = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{.Title}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #191414; }
        .container { text-align: center; background: #fff; padding: 2rem; border-radius: 8px; }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>{{.Title}}</h1>
        <p>{{.Message}}</p>
    </div>
</body>
</html>
`))

func render(w http.ResponseWriter, status int, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = page.Execute(w, struct{ Title, Message string }{title, message})
}
