// Package repo contains the Postgres and SQLite repositories for populations and results.
package repo

import "errors"

// ErrNotFound is returned when a population does not exist.
var ErrNotFound = errors.New("repo: not found")
