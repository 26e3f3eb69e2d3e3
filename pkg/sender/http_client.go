package sender

import "github.com/connecto-io/connecto-go/internal/ports"

// HTTPClient executes HTTP requests. The standard *http.Client satisfies it.
type HTTPClient = ports.HTTPClient
