// Package version parses the client library version advertised to the
// remote API and carries build information for the pusherrest binary.
//
// Library versions accept up to four numeric components ("1.2.3.4") but are
// always rendered with exactly three ("1.2.3"):
//
//	v, err := version.Parse("1.2.3.4")
//	v.String() // "1.2.3"
//
// Build information is set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/pusherrest/version.Version=1.0.0"
package version
