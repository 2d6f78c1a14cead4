// Package datasource opens the raw bytes of case exports. Concrete
// sources live in subpackages; FromConfig picks one per configured entry.
package datasource

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/arthurrossibr/general-vision-simplified/internal/config"
	"github.com/arthurrossibr/general-vision-simplified/internal/datasource/file"
	"github.com/arthurrossibr/general-vision-simplified/internal/datasource/httpds"
	"github.com/arthurrossibr/general-vision-simplified/internal/datasource/s3ds"
	"github.com/arthurrossibr/general-vision-simplified/internal/datasource/sqlds"
	"github.com/arthurrossibr/general-vision-simplified/internal/skiplog"
)

// Source yields the bytes of one export. The caller closes the reader.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FromConfig builds one Source per entry, in order. Sources that skip
// malformed input count it in drops, which may be nil.
func FromConfig(ctx context.Context, specs []config.Source, drops *skiplog.Stats) ([]Source, error) {
	out := make([]Source, 0, len(specs))
	for i, s := range specs {
		src, err := build(ctx, s, drops)
		if err != nil {
			return nil, fmt.Errorf("sources[%d]: %w", i, err)
		}
		out = append(out, src)
	}
	return out, nil
}

func build(ctx context.Context, s config.Source, drops *skiplog.Stats) (Source, error) {
	switch s.Kind {
	case "file":
		return file.NewLocal(s.File.Path), nil
	case "http":
		var timeout time.Duration
		if s.HTTP.Timeout != "" {
			d, err := time.ParseDuration(s.HTTP.Timeout)
			if err != nil {
				return nil, fmt.Errorf("http timeout: %w", err)
			}
			timeout = d
		}
		client := httpds.NewClient(httpds.Config{Timeout: timeout, MaxRetries: s.HTTP.Retries})
		return httpds.NewSource(client, s.HTTP.URL), nil
	case "s3":
		src, err := s3ds.New(ctx, s3ds.Config{
			Bucket:          s.S3.Bucket,
			Key:             s.S3.Key,
			Region:          s.S3.Region,
			Endpoint:        s.S3.Endpoint,
			AccessKeyID:     s.S3.AccessKeyID,
			SecretAccessKey: s.S3.SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		return src, nil
	case "sql":
		src, err := sqlds.New(sqlds.Config{
			Driver: s.SQL.Driver,
			DSN:    s.SQL.DSN,
			Query:  s.SQL.Query,
			Drops:  drops,
		})
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", s.Kind)
	}
}

// Name returns a printable name for src.
func Name(src Source) string {
	if s, ok := src.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", src)
}
