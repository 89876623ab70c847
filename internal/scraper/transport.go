package scraper

import (
	"context"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

// Response is the outcome of a single GET
type Response struct {
	StatusCode int
	Body       []byte
}

// Transport performs a single GET for one strategy.
// Non-2xx statuses are responses, not errors.
type Transport interface {
	Get(ctx context.Context, url string) (*Response, error)
}

type restyTransport struct {
	client *resty.Client
}

func newRestyClient(timeout time.Duration) *resty.Client {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeaders(DefaultHeaders)
	return client
}

// NewPrimaryTransport returns a plain resty transport with the browser header set
func NewPrimaryTransport(timeout time.Duration) Transport {
	return &restyTransport{client: newRestyClient(timeout)}
}

// NewFallbackTransport returns a resty transport whose TLS handshake and
// headers mimic Chrome, enough to pass Cloudflare's automated-traffic check.
func NewFallbackTransport(timeout time.Duration) Transport {
	client := newRestyClient(timeout)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	return &restyTransport{client: client}
}

func (t *restyTransport) Get(ctx context.Context, url string) (*Response, error) {
	resp, err := t.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, err
	}
	return &Response{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}, nil
}
