//go:build !linux || !cgo

// Package systemd reads the systemd journal through libsystemd.
package systemd

import (
	"fmt"

	"github.com/DeBrosOfficial/journal-exporter/pkg/errors"
	"github.com/DeBrosOfficial/journal-exporter/pkg/journal"
)

// Backend is unavailable on this platform; Open always fails.
type Backend struct{}

// New returns the libsystemd backend.
func New() Backend {
	return Backend{}
}

// Open implements journal.Backend.
func (Backend) Open(journal.OpenOptions) (journal.Cursor, journal.Waitable, error) {
	return nil, nil, errors.NewStoreUnavailableError("open",
		fmt.Errorf("systemd journal support requires linux and cgo"))
}
