// Package util provides small string helpers shared by the client, the
// config loader and the command: secret masking for log output and
// environment value cleanup.
package util
