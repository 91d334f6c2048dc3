package feed

import (
	"context"

	"github.com/matzehuels/recycleview/pkg/buildinfo"
	"github.com/matzehuels/recycleview/pkg/errors"
	"github.com/matzehuels/recycleview/pkg/httputil"
)

// HTTP fetches cards from a JSON endpoint. Transient failures (network
// errors, 5xx, 429) are retried by the client before Load gives up.
type HTTP struct {
	url    string
	client *httputil.Client
}

// NewHTTP returns a loader for url. A nil client gets a default client
// without response caching.
func NewHTTP(url string, client *httputil.Client) (*HTTP, error) {
	if err := errors.ValidateURL(url); err != nil {
		return nil, err
	}
	if client == nil {
		client = httputil.NewClient(nil, 0, map[string]string{"User-Agent": buildinfo.UserAgent()})
	}
	return &HTTP{url: url, client: client}, nil
}

func (h *HTTP) Kind() string     { return KindHTTP }
func (h *HTTP) Location() string { return h.url }
func (h *HTTP) Close() error     { return nil }

// Load fetches and decodes the endpoint body.
func (h *HTTP) Load(ctx context.Context) ([]Card, error) {
	body, err := h.client.Fetch(ctx, h.url, true)
	if err != nil {
		return nil, err
	}
	return DecodeJSON(body)
}
