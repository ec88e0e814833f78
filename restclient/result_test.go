package restclient

import (
	"errors"
	"net/http"
	"sync"
	"testing"
)

type eventList struct {
	Events []string `json:"events"`
}

func TestResult_Data(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantErr    bool
		wantEvents int
		wantNil    bool
	}{
		{"empty collection", `{"events":[]}`, false, 0, false},
		{"populated", `{"events":["a","b"]}`, false, 2, false},
		{"empty body", ``, false, 0, true},
		{"whitespace body", " \n", false, 0, true},
		{"malformed", `{"events":`, true, 0, true},
		{"wrong shape", `{"events":{}}`, true, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newResult[eventList](&response{statusCode: 200, body: tt.body})
			data, err := r.Data()
			if tt.wantErr {
				if !IsDecode(err) {
					t.Fatalf("err = %v, want decode error", err)
				}
				var e *Error
				if errors.As(err, &e) && e.Body != tt.body {
					t.Errorf("error body = %q", e.Body)
				}
				return
			}
			if err != nil {
				t.Fatalf("Data() error = %v", err)
			}
			if len(data.Events) != tt.wantEvents {
				t.Errorf("len(events) = %d, want %d", len(data.Events), tt.wantEvents)
			}
			if (data.Events == nil) != tt.wantNil {
				t.Errorf("events nil = %v, want %v", data.Events == nil, tt.wantNil)
			}
		})
	}
}

func TestResult_DataIsCachedAndConcurrent(t *testing.T) {
	r := newResult[map[string]int](&response{statusCode: 200, body: `{"a":1}`})
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := r.Data()
			if err != nil || d["a"] != 1 {
				t.Errorf("Data() = %v, %v", d, err)
			}
		}()
	}
	wg.Wait()

	first, _ := r.Data()
	second, _ := r.Data()
	first["a"] = 2
	if second["a"] != 2 {
		t.Error("Data() should decode once and return the cached value")
	}
}

func TestResult_Accessors(t *testing.T) {
	raw := &response{
		statusCode: http.StatusNotFound,
		headers:    map[string]string{"Content-Type": "application/json"},
		body:       `{"error":"x"}`,
	}
	r := newResult[struct{}](raw)
	if r.StatusCode() != 404 || r.IsSuccess() {
		t.Errorf("status = %d, success = %v", r.StatusCode(), r.IsSuccess())
	}
	if r.Body() != `{"error":"x"}` {
		t.Errorf("body = %q", r.Body())
	}
	h := r.Headers()
	h["Content-Type"] = "text/plain"
	if r.Headers()["Content-Type"] != "application/json" {
		t.Error("Headers() should return a copy")
	}
}

func TestTriggerResult_EventIDs(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    map[string]string
		wantErr bool
	}{
		{"with ids", `{"event_ids":{"c1":"id-1","c2":"id-2"}}`, map[string]string{"c1": "id-1", "c2": "id-2"}, false},
		{"empty object", `{}`, map[string]string{}, false},
		{"empty body", ``, map[string]string{}, false},
		{"malformed", `not json`, map[string]string{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTriggerResult(&response{statusCode: 200, body: tt.body})
			if r.StatusCode() != 200 || !r.IsSuccess() || r.Body() != tt.body {
				t.Errorf("accessors = %d %v %q", r.StatusCode(), r.IsSuccess(), r.Body())
			}
			ids, err := r.EventIDs()
			if tt.wantErr != IsDecode(err) {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if ids == nil {
				t.Fatal("EventIDs() should never return a nil map")
			}
			if len(ids) != len(tt.want) {
				t.Fatalf("EventIDs() = %v, want %v", ids, tt.want)
			}
			for k, v := range tt.want {
				if ids[k] != v {
					t.Errorf("ids[%q] = %q, want %q", k, ids[k], v)
				}
			}
		})
	}
}

func TestFlattenHeaders(t *testing.T) {
	h := http.Header{}
	h.Add("X-Multi", "first")
	h.Add("X-Multi", "second")
	h.Set("Content-Type", "application/json")
	h["X-Empty"] = nil

	got := flattenHeaders(h)
	if got["X-Multi"] != "first" || got["Content-Type"] != "application/json" {
		t.Errorf("flattenHeaders() = %v", got)
	}
	if _, ok := got["X-Empty"]; ok {
		t.Error("headers without values should be dropped")
	}
}
