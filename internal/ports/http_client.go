package ports

import "net/http"

// HTTPClient executes HTTP requests for the senders and the segment client.
// *http.Client satisfies this interface; tests substitute a stub.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
