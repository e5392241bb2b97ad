package imaging

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"atelier/internal/logging"
)

// Reference is one generated image as returned by the upstream API: either
// a remote URL or an inline base64 payload. Exactly one side is populated
// on a successful response; which one is provider-dependent.
type Reference struct {
	URL     string `json:"url,omitempty"`
	B64JSON string `json:"b64_json,omitempty"`
}

// Fetcher resolves references into base64-encoded image bytes. It keeps no
// state between calls: no cache, no retries.
type Fetcher struct {
	client *http.Client
	log    *slog.Logger
}

// NewFetcher creates a Fetcher. A nil client gets a default with a generous
// timeout; image CDN responses can be slow.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}
	return &Fetcher{client: client, log: logging.New("fetcher")}
}

// Fetch resolves a single reference. URL references cost one GET; inline
// payloads are returned verbatim with no network activity.
func (f *Fetcher) Fetch(ctx context.Context, ref Reference) (string, error) {
	switch {
	case ref.URL != "":
		return f.download(ctx, ref.URL)
	case ref.B64JSON != "":
		return ref.B64JSON, nil
	default:
		return "", ErrNoImageData
	}
}

// FetchAll resolves references concurrently, preserving input order. The
// first failure cancels the remaining downloads.
func (f *Fetcher) FetchAll(ctx context.Context, refs []Reference) ([]string, error) {
	out := make([]string, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		g.Go(func() error {
			encoded, err := f.Fetch(gctx, ref)
			if err != nil {
				return err
			}
			out[i] = encoded
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (f *Fetcher) download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", ErrFetch, url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s returned status %d: %s", ErrFetch, url, resp.StatusCode, truncate(string(body), 200))
	}

	f.log.Info("image downloaded", "url", url, "bytes", len(body))
	return base64.StdEncoding.EncodeToString(body), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
