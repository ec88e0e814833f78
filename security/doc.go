// Package security holds the TLS settings applied to the REST client's
// transport.
//
//	cfg := security.TLSConfig{
//	    CAFile:     "/etc/pusher/ca.pem",
//	    MinVersion: "1.3",
//	}
//	tlsConfig, err := cfg.Build()
package security
