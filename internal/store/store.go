// Package store persists the working state and saved recipes in SQLite.
package store

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

const sqliteTimeLayout = "2006-01-02 15:04:05"
