package restclient

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// Method is the HTTP verb of a request descriptor. Only GET and POST exist.
type Method string

const (
	MethodGET  Method = http.MethodGet
	MethodPOST Method = http.MethodPost
)

// Request describes one Pusher REST call: the verb, the resource path
// relative to the client's base URL, and for POST a JSON body producer.
// A Request is immutable and may be reused across calls.
type Request struct {
	method   Method
	resource string
	content  func() (string, error)
}

// NewGetRequest describes a GET of resource, for example
// "/apps/123/channels".
func NewGetRequest(resource string) Request {
	return Request{method: MethodGET, resource: resource}
}

// NewPostRequest describes a POST of body to resource. json.RawMessage and
// []byte bodies are sent unchanged; any other value is JSON-encoded,
// including plain strings. The body is encoded on each call.
func NewPostRequest(resource string, body any) Request {
	return Request{
		method:   MethodPOST,
		resource: resource,
		content:  func() (string, error) { return encodeJSON(body) },
	}
}

// NewPostRequestFunc describes a POST to resource whose JSON body is
// produced by fn on each call.
func NewPostRequestFunc(resource string, fn func() (string, error)) Request {
	return Request{method: MethodPOST, resource: resource, content: fn}
}

// Method returns the request verb.
func (r Request) Method() Method { return r.method }

// ResourceURI returns the resource path.
func (r Request) ResourceURI() string { return r.resource }

// ContentAsJSON returns the JSON body. GET requests have none.
func (r Request) ContentAsJSON() (string, error) {
	if r.content == nil {
		return "", nil
	}
	return r.content()
}

// String returns "METHOD resource".
func (r Request) String() string {
	return string(r.method) + " " + r.resource
}

func encodeJSON(body any) (string, error) {
	switch v := body.(type) {
	case json.RawMessage:
		return string(v), nil
	case []byte:
		return string(v), nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(body); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
