// Package api defines the transport DTOs and read-side services backing the
// daemon's HTTP endpoints and the CLI views. Conversions here are the only
// place queue records are reshaped for external consumers.
package api
