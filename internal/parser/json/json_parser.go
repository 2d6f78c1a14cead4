// Package json turns case-export JSON into records.Record maps.
//
// Accepted shapes:
//
//   - a root array of objects: [ {...}, {...} ]
//   - an envelope object whose first key (or Options.RootKey) holds the
//     array: { "processos": [ {...}, {...} ] }
//   - newline-delimited objects, each one record:
//     {"numeroProcessoUnico":"1"}
//     {"numeroProcessoUnico":"2"}
//
// Numbers are kept as json.Number so monetary amounts are never routed
// through float64.
package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/arthurrossibr/general-vision-simplified/internal/config"
	"github.com/arthurrossibr/general-vision-simplified/pkg/records"
)

// Options controls envelope detection.
type Options struct {
	// RootKey names the envelope key holding the records. Empty means the
	// first key of the root object.
	RootKey string

	// Envelope enables unwrapping of a root object. When false a root
	// object is always a single record.
	Envelope bool
}

// DefaultOptions unwraps envelopes by their first key.
func DefaultOptions() Options { return Options{Envelope: true} }

// FromConfigOptions reads "root_key" and "envelope" from parser options.
func FromConfigOptions(o config.Options) Options {
	return Options{
		RootKey:  o.String("root_key", ""),
		Envelope: o.Bool("envelope", true),
	}
}

// Parser adapts DecodeAll to the parser.Parser interface.
type Parser struct{ opt Options }

// New returns a Parser using opt.
func New(opt Options) *Parser { return &Parser{opt: opt} }

// Parse decodes every record in r. The int result counts top-level or
// array elements skipped because they were not objects.
func (p *Parser) Parse(r io.Reader) ([]records.Record, int, error) {
	return DecodeAll(r, p.opt)
}

// DecodeAll reads every JSON value in r and returns the records it holds,
// along with the number of non-object values skipped. An empty reader
// yields (nil, 0, nil). Syntax errors abort with the records read so far
// discarded.
func DecodeAll(r io.Reader, opt Options) ([]records.Record, int, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var out []records.Record
	skipped := 0
	for first := true; ; first = false {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return out, skipped, nil
			}
			return nil, skipped, fmt.Errorf("json parser: decode: %w", err)
		}
		recs, n, err := unwrap(raw, opt, first)
		if err != nil {
			return nil, skipped, err
		}
		out = append(out, recs...)
		skipped += n
	}
}

// unwrap turns one top-level value into records.
func unwrap(raw json.RawMessage, opt Options, first bool) ([]records.Record, int, error) {
	switch firstByte(raw) {
	case '[':
		var arr []any
		if err := decodeNumbers(raw, &arr); err != nil {
			return nil, 0, fmt.Errorf("json parser: decode array: %w", err)
		}
		recs, skipped := objects(arr)
		return recs, skipped, nil

	case '{':
		if first && opt.Envelope {
			if key, ok, err := envelopeKey(raw, opt.RootKey); err != nil {
				return nil, 0, err
			} else if ok {
				var env map[string]any
				if err := decodeNumbers(raw, &env); err != nil {
					return nil, 0, fmt.Errorf("json parser: decode envelope: %w", err)
				}
				arr, _ := env[key].([]any)
				recs, skipped := objects(arr)
				return recs, skipped, nil
			}
		}
		var m map[string]any
		if err := decodeNumbers(raw, &m); err != nil {
			return nil, 0, fmt.Errorf("json parser: decode object: %w", err)
		}
		return []records.Record{records.Record(m)}, 0, nil

	default:
		return nil, 1, nil
	}
}

// envelopeKey finds the key of raw (an object) that holds the record array.
// With want set only that key qualifies; otherwise only the first key in
// document order does, and only when its value is an array.
func envelopeKey(raw json.RawMessage, want string) (string, bool, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil { // '{'
		return "", false, fmt.Errorf("json parser: envelope: %w", err)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return "", false, fmt.Errorf("json parser: envelope key: %w", err)
		}
		key, _ := tok.(string)
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return "", false, fmt.Errorf("json parser: envelope value %q: %w", key, err)
		}
		if want != "" && key != want {
			continue
		}
		return key, firstByte(val) == '[', nil
	}
	return "", false, nil
}

func objects(arr []any) ([]records.Record, int) {
	out := make([]records.Record, 0, len(arr))
	skipped := 0
	for _, elem := range arr {
		obj, ok := elem.(map[string]any)
		if !ok {
			skipped++
			continue
		}
		out = append(out, records.Record(obj))
	}
	return out, skipped
}

func decodeNumbers(raw json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}

func firstByte(raw json.RawMessage) byte {
	b := bytes.TrimLeft(raw, " \t\r\n")
	if len(b) == 0 {
		return 0
	}
	return b[0]
}
