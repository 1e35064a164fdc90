package port

import "net/http"

// HTTPDoer executes HTTP requests; *http.Client satisfies it
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}
