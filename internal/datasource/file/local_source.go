// Package file reads case exports and reference lists from local disk.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Local opens one file on the local filesystem.
type Local struct{ path string }

// NewLocal returns a Local bound to path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Open returns the file for reading. A context that is already done wins
// over touching the filesystem. Open errors wrap the path and keep
// errors.Is(err, os.ErrNotExist) working.
//
// Exports are read front to back exactly once, so the kernel is told to
// read ahead aggressively where that hint exists.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	adviseSequential(f)
	return f, nil
}

// String names the source in logs.
func (l *Local) String() string { return l.path }
