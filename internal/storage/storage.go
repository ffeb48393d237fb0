// Package storage holds the Postgres-backed implementations of the
// narrow store interfaces the core subsystems consume.
package storage
