// Package parser defines the contract between raw input bytes and decoded
// records.
package parser

import (
	"io"

	"github.com/arthurrossibr/general-vision-simplified/pkg/records"
)

// Parser decodes every record in r. The int result counts input values
// that were skipped because they could not be records.
type Parser interface {
	Parse(r io.Reader) ([]records.Record, int, error)
}
