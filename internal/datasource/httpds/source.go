package httpds

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Source reads one URL.
type Source struct {
	client *Client
	url    string
}

// NewSource returns a Source fetching url with client.
func NewSource(client *Client, url string) *Source {
	return &Source{client: client, url: url}
}

// Open performs the GET and returns the body. Any status outside 2xx is an
// error.
func (s *Source) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := s.client.Get(ctx, s.url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("httpds: GET %s: status %d", s.url, resp.StatusCode)
	}
	return resp.Body, nil
}

// String names the source in logs.
func (s *Source) String() string { return s.url }
