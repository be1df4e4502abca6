// Package exporter implements the final pipeline stage: it writes the
// persisted run result to the item's artifact directory as CSV and JSON.
package exporter
