// Package workflow drives queued documents through the processing pipeline.
//
// A single background goroutine polls the queue for the earliest item whose
// status starts a configured stage, transitions it to the stage's processing
// status, runs the handler under a heartbeat, and persists the resulting
// status. Items that stop heartbeating (crashed daemon, killed process) are
// reclaimed back to their start status before each poll.
package workflow
