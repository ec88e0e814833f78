package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/pusherrest/restclient"
	"github.com/kbukum/pusherrest/restclient/pushertest"
)

func run(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestGetCommand(t *testing.T) {
	srv := pushertest.Start(t)
	srv.Respond("GET", "/apps/1/channels", 200, `{"channels":{"my-channel":{}}}`)

	for _, mode := range []string{"blocking", "async"} {
		t.Run(mode, func(t *testing.T) {
			args := []string{"get", "/apps/1/channels?auth_key=k", "--base-url", srv.URL(), "--log-level", "error"}
			if mode == "async" {
				args = append(args, "--async")
			}
			out, _, err := run(t, "", args...)
			if err != nil {
				t.Fatalf("get error = %v", err)
			}
			if !strings.HasPrefix(out, "HTTP 200\n") {
				t.Errorf("missing status line: %q", out)
			}
			if !strings.Contains(out, `{"channels":{"my-channel":{}}}`) {
				t.Errorf("body not printed raw: %q", out)
			}
		})
	}

	reqs := srv.Requests()
	if len(reqs) != 2 || reqs[0].RawQuery != "auth_key=k" {
		t.Errorf("requests = %+v", reqs)
	}
}

func TestGetCommandErrorStatus(t *testing.T) {
	srv := pushertest.Start(t)
	srv.Respond("GET", "/apps/1/channels", 401, `{"error":"invalid signature"}`)

	out, _, err := run(t, "", "get", "/apps/1/channels", "--base-url", srv.URL(), "--log-level", "error")
	if !restclient.IsAuth(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if !strings.HasPrefix(out, "HTTP 401\n") || !strings.Contains(out, "invalid signature") {
		t.Errorf("non-success response not printed: %q", out)
	}
}

func TestPostCommand(t *testing.T) {
	srv := pushertest.Start(t)
	body := `{"name":"my-event","channels":["my-channel"],"data":"{}"}`

	dir := t.TempDir()
	file := filepath.Join(dir, "event.json")
	if err := os.WriteFile(file, []byte(body), 0644); err != nil {
		t.Fatalf("write body file: %v", err)
	}

	tests := []struct {
		name  string
		data  string
		stdin string
		async bool
	}{
		{"inline", body, "", false},
		{"file", "@" + file, "", false},
		{"stdin", "-", body + "\n", false},
		{"async", body, "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv.Reset()
			args := []string{"post", "/apps/1/events", "--data", tc.data, "--base-url", srv.URL(), "--log-level", "error"}
			if tc.async {
				args = append(args, "--async")
			}
			out, _, err := run(t, tc.stdin, args...)
			if err != nil {
				t.Fatalf("post error = %v", err)
			}
			if !strings.HasPrefix(out, "HTTP 200\n") || !strings.Contains(out, `"my-channel":"my-channel-1"`) {
				t.Errorf("unexpected output %q", out)
			}
			reqs := srv.Requests()
			if len(reqs) != 1 || reqs[0].Body != body {
				t.Errorf("requests = %+v", reqs)
			}
		})
	}
}

func TestPostCommandInvalidData(t *testing.T) {
	srv := pushertest.Start(t)

	_, _, err := run(t, "", "post", "/apps/1/events", "--data", "{not json", "--base-url", srv.URL())
	if err == nil || !strings.Contains(err.Error(), "not valid JSON") {
		t.Fatalf("expected invalid JSON error, got %v", err)
	}
	if n := len(srv.Requests()); n != 0 {
		t.Errorf("expected no request, got %d", n)
	}
}

func TestPostCommandRequiresData(t *testing.T) {
	_, _, err := run(t, "", "post", "/apps/1/events", "--base-url", "http://127.0.0.1:1")
	if err == nil {
		t.Fatal("expected missing --data error")
	}
}

func TestMissingBaseURL(t *testing.T) {
	_, _, err := run(t, "", "get", "/apps/1/channels", "--log-level", "error")
	if err == nil || !strings.Contains(err.Error(), "base_url") {
		t.Fatalf("expected base_url validation error, got %v", err)
	}
}

func TestConfigFile(t *testing.T) {
	srv := pushertest.Start(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "pusherrest.yml")
	content := "environment: production\npusher:\n  base_url: " + srv.URL() + "\n  timeout: 5s\nlogging:\n  level: error\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, _, err := run(t, "", "get", "/apps/1/channels/presence-room", "--config", path)
	if err != nil {
		t.Fatalf("get error = %v", err)
	}
	if !strings.Contains(out, `{"occupied":false}`) {
		t.Errorf("unexpected output %q", out)
	}
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	cfg, err := loadConfig(&globalFlags{
		baseURL:  "https://api-eu.pusher.com",
		logLevel: "warn",
		timeout:  5e9,
	})
	if err != nil {
		t.Fatalf("loadConfig error = %v", err)
	}
	if cfg.Pusher.BaseURL != "https://api-eu.pusher.com" || cfg.Pusher.Timeout.Seconds() != 5 {
		t.Errorf("pusher config = %+v", cfg.Pusher)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("log level = %q", cfg.Logging.Level)
	}
	if cfg.Pusher.LibraryName != serviceName || cfg.Pusher.LibraryVersion == "" {
		t.Errorf("library defaults not applied: %+v", cfg.Pusher)
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "", "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, serviceName+" ") || !strings.Contains(out, "Pusher-Library-Version: ") {
		t.Errorf("unexpected output %q", out)
	}
}
