package restclient

import (
	"encoding/json"
	"maps"
	"net/http"
	"strings"
	"sync"
)

// response is the raw outcome of one round trip.
type response struct {
	statusCode int
	headers    map[string]string
	body       string
}

// Result is the outcome of a GET: status, headers, raw body and the body
// decoded as T. Decoding happens on first access to Data and is cached.
type Result[T any] struct {
	raw response

	once sync.Once
	data T
	err  error
}

func newResult[T any](raw *response) *Result[T] {
	return &Result[T]{raw: *raw}
}

// StatusCode returns the HTTP status code.
func (r *Result[T]) StatusCode() int { return r.raw.statusCode }

// Headers returns a copy of the response headers, one value per name.
func (r *Result[T]) Headers() map[string]string { return maps.Clone(r.raw.headers) }

// Body returns the raw response body.
func (r *Result[T]) Body() string { return r.raw.body }

// IsSuccess reports a 2xx status.
func (r *Result[T]) IsSuccess() bool { return isSuccess(r.raw.statusCode) }

// Data decodes the body as T. An empty body yields the zero value.
// A body that is not valid JSON for T yields a decode error.
func (r *Result[T]) Data() (T, error) {
	r.once.Do(func() {
		r.err = decodeBody(r.raw, &r.data)
	})
	return r.data, r.err
}

// TriggerResult is the outcome of a POST. Besides the raw response it
// exposes the event ids the cluster assigned, when it returned any.
type TriggerResult struct {
	raw response

	once     sync.Once
	eventIDs map[string]string
	err      error
}

func newTriggerResult(raw *response) *TriggerResult {
	return &TriggerResult{raw: *raw}
}

// StatusCode returns the HTTP status code.
func (r *TriggerResult) StatusCode() int { return r.raw.statusCode }

// Headers returns a copy of the response headers, one value per name.
func (r *TriggerResult) Headers() map[string]string { return maps.Clone(r.raw.headers) }

// Body returns the raw response body.
func (r *TriggerResult) Body() string { return r.raw.body }

// IsSuccess reports a 2xx status.
func (r *TriggerResult) IsSuccess() bool { return isSuccess(r.raw.statusCode) }

// EventIDs returns the channel to event id map from the "event_ids" key of
// the body. A missing key or empty body yields an empty map.
func (r *TriggerResult) EventIDs() (map[string]string, error) {
	r.once.Do(func() {
		var payload struct {
			EventIDs map[string]string `json:"event_ids"`
		}
		r.err = decodeBody(r.raw, &payload)
		r.eventIDs = payload.EventIDs
		if r.eventIDs == nil {
			r.eventIDs = map[string]string{}
		}
	})
	return maps.Clone(r.eventIDs), r.err
}

func decodeBody(raw response, v any) error {
	if strings.TrimSpace(raw.body) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw.body), v); err != nil {
		return NewDecodeError(raw.statusCode, raw.body, err)
	}
	return nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
