package pushertest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/pusherrest/component"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// RecordedRequest is a request as the server received it.
type RecordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     string
}

type stub struct {
	status int
	body   string
	hold   *gate
}

// gate blocks held requests until opened.
type gate struct {
	ch   chan struct{}
	once sync.Once
}

func (g *gate) open() { g.once.Do(func() { close(g.ch) }) }

// Server is a fake Pusher HTTP API backed by httptest.Server. It records
// every request, answers the channel and event endpoints, and can be told
// to return canned responses or to hold requests open.
type Server struct {
	mu       sync.RWMutex
	ts       *httptest.Server
	started  bool
	requests []RecordedRequest
	stubs    map[string]*stub
	channels map[string]int
}

var _ component.Component = (*Server)(nil)

// New creates a stopped server.
func New() *Server {
	return &Server{
		stubs:    make(map[string]*stub),
		channels: make(map[string]int),
	}
}

// Start creates a started server and stops it when t ends.
func Start(t testing.TB) *Server {
	t.Helper()
	s := New()
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start pusher test server: %v", err)
	}
	t.Cleanup(func() { _ = s.Stop(context.Background()) })
	return s
}

// --- component.Component ---

func (s *Server) Name() string { return "pusher-test" }

func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("component already started")
	}
	s.ts = httptest.NewServer(s.engine())
	s.started = true
	return nil
}

func (s *Server) Stop(_ context.Context) error {
	s.mu.Lock()
	if !s.started || s.ts == nil {
		s.mu.Unlock()
		return nil
	}
	ts := s.ts
	s.started = false
	for _, st := range s.stubs {
		if st.hold != nil {
			st.hold.open()
		}
	}
	s.mu.Unlock()

	ts.Close()
	return nil
}

func (s *Server) Health(_ context.Context) component.Health {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return component.Health{Name: s.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	return component.Health{Name: s.Name(), Status: component.StatusHealthy}
}

// URL returns the server's base URL (e.g. "http://127.0.0.1:PORT").
// Returns empty string if not started.
func (s *Server) URL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ts == nil {
		return ""
	}
	return s.ts.URL
}

// Respond makes requests for method and path return status and body
// instead of the default handler.
func (s *Server) Respond(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stubs[method+" "+path] = &stub{status: status, body: body}
}

// Hold makes requests for method and path block until release is called or
// the client goes away, then answer with the default handler.
func (s *Server) Hold(method, path string) (release func()) {
	g := &gate{ch: make(chan struct{})}
	s.mu.Lock()
	s.stubs[method+" "+path] = &stub{hold: g}
	s.mu.Unlock()
	return g.open
}

// Requests returns a copy of every request received so far.
func (s *Server) Requests() []RecordedRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// Reset clears recorded requests, stubs and channel state.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.stubs {
		if st.hold != nil {
			st.hold.open()
		}
	}
	s.requests = nil
	s.stubs = make(map[string]*stub)
	s.channels = make(map[string]int)
}

func (s *Server) engine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.record(), s.stubbed())

	apps := r.Group("/apps/:app_id")
	apps.GET("/channels", s.listChannels)
	apps.GET("/channels/:channel_name", s.channelInfo)
	apps.GET("/channels/:channel_name/users", s.channelUsers)
	apps.POST("/events", s.requireJSON, s.triggerEvent)
	apps.POST("/batch_events", s.requireJSON, s.triggerBatch)
	return r
}

func (s *Server) record() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method:   c.Request.Method,
			Path:     c.Request.URL.Path,
			RawQuery: c.Request.URL.RawQuery,
			Header:   c.Request.Header.Clone(),
			Body:     string(body),
		})
		s.mu.Unlock()
		c.Next()
	}
}

func (s *Server) stubbed() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.RLock()
		st := s.stubs[c.Request.Method+" "+c.Request.URL.Path]
		s.mu.RUnlock()
		if st == nil {
			c.Next()
			return
		}
		if st.hold != nil {
			select {
			case <-st.hold.ch:
			case <-c.Request.Context().Done():
				c.Abort()
				return
			}
			c.Next()
			return
		}
		c.Data(st.status, "application/json", []byte(st.body))
		c.Abort()
	}
}

func (s *Server) requireJSON(c *gin.Context) {
	if c.ContentType() != "application/json" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": "Content-Type must be application/json",
		})
		return
	}
	c.Next()
}

func (s *Server) listChannels(c *gin.Context) {
	s.mu.RLock()
	names := make([]string, 0, len(s.channels))
	for name := range s.channels {
		names = append(names, name)
	}
	s.mu.RUnlock()
	sort.Strings(names)

	channels := make(map[string]gin.H, len(names))
	for _, name := range names {
		channels[name] = gin.H{}
	}
	c.JSON(http.StatusOK, gin.H{"channels": channels})
}

func (s *Server) channelInfo(c *gin.Context) {
	s.mu.RLock()
	_, occupied := s.channels[c.Param("channel_name")]
	s.mu.RUnlock()
	c.JSON(http.StatusOK, gin.H{"occupied": occupied})
}

func (s *Server) channelUsers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"users": []gin.H{}})
}

type event struct {
	Name     string   `json:"name" binding:"required"`
	Channel  string   `json:"channel"`
	Channels []string `json:"channels"`
	Data     string   `json:"data"`
	SocketID string   `json:"socket_id"`
}

func (e event) targets() []string {
	if e.Channel != "" {
		return append([]string{e.Channel}, e.Channels...)
	}
	return e.Channels
}

func (s *Server) triggerEvent(c *gin.Context) {
	var ev event
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	targets := ev.targets()
	if len(targets) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no channels given"})
		return
	}

	ids := s.publish(targets)
	c.JSON(http.StatusOK, gin.H{"event_ids": ids})
}

func (s *Server) triggerBatch(c *gin.Context) {
	var batch struct {
		Batch []event `json:"batch" binding:"required,dive"`
	}
	if err := c.ShouldBindJSON(&batch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for _, ev := range batch.Batch {
		s.publish(ev.targets())
	}
	c.JSON(http.StatusOK, gin.H{})
}

// publish marks channels occupied and returns an event id per channel.
func (s *Server) publish(channels []string) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make(map[string]string, len(channels))
	for _, ch := range channels {
		s.channels[ch]++
		ids[ch] = fmt.Sprintf("%s-%d", ch, s.channels[ch])
	}
	return ids
}
