package httpds

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"salesclean/internal/datasource"
)

// Remote is an HTTP(S) data source bound to one URL. It satisfies the same
// contract as the local file source, so the pipeline does not care where an
// export lives.
type Remote struct {
	url    string
	client *Client
}

var _ datasource.Source = (*Remote)(nil)

// NewRemote returns a Remote source for url.
func NewRemote(url string, cfg Config) *Remote {
	return &Remote{url: url, client: NewClient(cfg)}
}

// Open issues a GET and hands back the response body as the raw byte
// stream. Any non-2xx status is an error and the body is closed.
func (r *Remote) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := r.client.Get(ctx, r.url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", r.url, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: %s", r.url, resp.Status)
	}
	return resp.Body, nil
}
