// Package daemon ties the queue store, workflow manager, and HTTP API into
// one single-instance background process guarded by a file lock.
package daemon
