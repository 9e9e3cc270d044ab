package httpclient

import "net/http"

// Caller executes outbound HTTP requests and captures their responses.
type Caller interface {
	Do(req *http.Request) (status int, body []byte, err error)
}
