// Package queue persists document items and their derived entities and
// facts in SQLite, and exposes helpers for driving item lifecycle.
//
// The Store manages the database connection, schema initialization, stats
// queries, heartbeat tracking, and stuck-item recovery. Items capture
// progress, the extracted unit list, and the structuring result so stages
// can coordinate without additional state.
//
// The database is working state for in-flight documents plus the derived
// entity/fact rows; exported artifacts on disk are the long-term contract.
// Schema changes bump schemaVersion; users clear the database to adopt the
// new schema.
package queue
