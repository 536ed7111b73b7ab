// Package state keeps per-user conversation records in memory.
// Records are typed by the caller and lost on restart.
package state
