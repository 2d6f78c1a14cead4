// Package transformer defines load-time record transformations. They run
// once, between parsing and case decoding, while records are still owned
// by the loader; after that the snapshot is immutable.
package transformer

import "github.com/arthurrossibr/general-vision-simplified/pkg/records"

// Transformer rewrites a batch of records. It may mutate and reuse in.
type Transformer interface {
	Apply([]records.Record) []records.Record
}

// Chain is an ordered list of transformers.
type Chain []Transformer

// Apply runs every transformer in order.
func (c Chain) Apply(in []records.Record) []records.Record {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}
