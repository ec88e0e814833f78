package bootstrap

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kbukum/pusherrest/component"
	"github.com/kbukum/pusherrest/config"
	"github.com/kbukum/pusherrest/logger"
)

// testConfig is a minimal config for testing that satisfies the Config interface.
type testConfig struct {
	config.ServiceConfig
}

// mockComponent implements component.Component for testing.
type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	health   component.Health
	started  bool
	stopped  bool
	events   *[]string
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	m.started = true
	m.record("start " + m.name)
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	m.stopped = true
	m.record("stop " + m.name)
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) component.Health {
	if m.health.Status == "" {
		return component.Health{Name: m.name, Status: component.StatusHealthy}
	}
	return m.health
}
func (m *mockComponent) record(e string) {
	if m.events != nil {
		*m.events = append(*m.events, e)
	}
}

func newTestConfig(name, version string) *testConfig {
	return &testConfig{
		ServiceConfig: config.ServiceConfig{
			Name:        name,
			Version:     version,
			Environment: "development",
		},
	}
}

func newTestApp(t *testing.T) *App[*testConfig] {
	t.Helper()
	app, err := NewApp(newTestConfig("test-svc", "1.0.0"), WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app
}

func TestNewApp(t *testing.T) {
	app := newTestApp(t)
	if app.Name != "test-svc" {
		t.Errorf("expected name 'test-svc', got %q", app.Name)
	}
	if app.Version != "1.0.0" {
		t.Errorf("expected version '1.0.0', got %q", app.Version)
	}
	if app.Components == nil {
		t.Error("expected non-nil components registry")
	}
	if app.Logger == nil {
		t.Error("expected non-nil logger")
	}
	if app.Cfg.Environment != "development" {
		t.Errorf("expected typed config, got %+v", app.Cfg)
	}
}

func TestNewApp_DefaultsAndValidation(t *testing.T) {
	cfg := &testConfig{ServiceConfig: config.ServiceConfig{Name: "svc"}}
	if _, err := NewApp(cfg, WithLogger(logger.Nop())); err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if cfg.Environment != "development" {
		t.Errorf("defaults not applied: %+v", cfg.ServiceConfig)
	}

	_, err := NewApp(&testConfig{}, WithLogger(logger.Nop()))
	if err == nil || !strings.Contains(err.Error(), "config validation") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRunTask_Order(t *testing.T) {
	app := newTestApp(t)
	var events []string
	a := &mockComponent{name: "a", events: &events}
	b := &mockComponent{name: "b", events: &events}
	for _, c := range []component.Component{a, b} {
		if err := app.RegisterComponent(c); err != nil {
			t.Fatalf("RegisterComponent failed: %v", err)
		}
	}
	app.OnStart(func(ctx context.Context) error {
		events = append(events, "onStart")
		return nil
	})
	app.OnStop(func(ctx context.Context) error {
		events = append(events, "onStop")
		return nil
	})

	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		events = append(events, "task")
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}

	want := []string{"start a", "start b", "onStart", "task", "onStop", "stop b", "stop a"}
	if strings.Join(events, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", events, want)
	}
}

func TestRunTask_TaskErrorWins(t *testing.T) {
	app := newTestApp(t)
	comp := &mockComponent{name: "c", stopErr: errors.New("stop failed")}
	_ = app.RegisterComponent(comp)

	taskErr := errors.New("task failed")
	err := app.RunTask(context.Background(), func(ctx context.Context) error { return taskErr })
	if !errors.Is(err, taskErr) {
		t.Fatalf("expected task error, got %v", err)
	}
	if !comp.stopped {
		t.Error("component not stopped after task error")
	}
}

func TestRunTask_StopError(t *testing.T) {
	app := newTestApp(t)
	_ = app.RegisterComponent(&mockComponent{name: "c", stopErr: errors.New("stop failed")})

	err := app.RunTask(context.Background(), func(ctx context.Context) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "stop failed") {
		t.Fatalf("expected stop error, got %v", err)
	}
}

func TestRunTask_StartFailure(t *testing.T) {
	app := newTestApp(t)
	first := &mockComponent{name: "first"}
	broken := &mockComponent{name: "broken", startErr: errors.New("boom")}
	_ = app.RegisterComponent(first)
	_ = app.RegisterComponent(broken)

	ran := false
	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		ran = true
		return nil
	})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected start error, got %v", err)
	}
	if ran {
		t.Error("task ran after start failure")
	}
	if !first.stopped {
		t.Error("started component not stopped after start failure")
	}
	if broken.stopped {
		t.Error("failed component should not be stopped")
	}
}

func TestRunTask_Unhealthy(t *testing.T) {
	app := newTestApp(t)
	_ = app.RegisterComponent(&mockComponent{
		name:   "sick",
		health: component.Health{Name: "sick", Status: component.StatusUnhealthy, Message: "down"},
	})

	err := app.RunTask(context.Background(), func(ctx context.Context) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "sick=unhealthy(down)") {
		t.Fatalf("expected ready check error, got %v", err)
	}
}

func TestRunTask_HookErrors(t *testing.T) {
	app := newTestApp(t)
	app.OnStart(func(ctx context.Context) error { return errors.New("no start") })
	err := app.RunTask(context.Background(), func(ctx context.Context) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "onStart hook failed") {
		t.Fatalf("expected onStart error, got %v", err)
	}

	app = newTestApp(t)
	app.OnStop(func(ctx context.Context) error { return errors.New("no stop") })
	err = app.RunTask(context.Background(), func(ctx context.Context) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "hook 0 failed: no stop") {
		t.Fatalf("expected onStop error, got %v", err)
	}
}

func TestRunTask_ContextPassedToTask(t *testing.T) {
	app := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := app.RunTask(ctx, func(ctx context.Context) error { return ctx.Err() })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}
