// Package component defines the lifecycle contract shared by the long-lived
// resources of pusherrest (the REST client and its telemetry pipeline).
//
// A Registry starts components in registration order and stops them in
// reverse order, so the REST client is closed before telemetry is flushed.
package component
