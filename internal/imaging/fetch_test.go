package imaging_test

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"atelier/internal/imaging"
)

// countingTransport fails every request and counts how many were attempted.
type countingTransport struct {
	calls atomic.Int64
}

func (t *countingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	t.calls.Add(1)
	return nil, errors.New("network disabled in test")
}

func TestFetch_InlinePayloadPassthrough(t *testing.T) {
	transport := &countingTransport{}
	fetcher := imaging.NewFetcher(&http.Client{Transport: transport})

	got, err := fetcher.Fetch(context.Background(), imaging.Reference{B64JSON: "aW5saW5l"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got != "aW5saW5l" {
		t.Errorf("Fetch = %q, want inline payload unchanged", got)
	}
	if n := transport.calls.Load(); n != 0 {
		t.Errorf("inline fetch made %d network calls, want 0", n)
	}
}

func TestFetch_URL(t *testing.T) {
	body := []byte{0xff, 0xd8, 0xff, 0xe0, 0x01, 0x02}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer ts.Close()

	fetcher := imaging.NewFetcher(ts.Client())
	got, err := fetcher.Fetch(context.Background(), imaging.Reference{URL: ts.URL + "/x.jpg"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if want := base64.StdEncoding.EncodeToString(body); got != want {
		t.Errorf("Fetch = %q, want %q", got, want)
	}
}

func TestFetch_NonOKStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "expired signature", http.StatusForbidden)
	}))
	defer ts.Close()

	fetcher := imaging.NewFetcher(ts.Client())
	_, err := fetcher.Fetch(context.Background(), imaging.Reference{URL: ts.URL})
	if !errors.Is(err, imaging.ErrFetch) {
		t.Fatalf("want ErrFetch for non-2xx status, got %v", err)
	}
}

func TestFetch_ConnectionError(t *testing.T) {
	fetcher := imaging.NewFetcher(&http.Client{Transport: &countingTransport{}})
	_, err := fetcher.Fetch(context.Background(), imaging.Reference{URL: "http://example.invalid/x.png"})
	if !errors.Is(err, imaging.ErrFetch) {
		t.Fatalf("want ErrFetch for transport failure, got %v", err)
	}
}

func TestFetch_EmptyReference(t *testing.T) {
	fetcher := imaging.NewFetcher(nil)
	_, err := fetcher.Fetch(context.Background(), imaging.Reference{})
	if !errors.Is(err, imaging.ErrNoImageData) {
		t.Fatalf("want ErrNoImageData, got %v", err)
	}
}

func TestFetchAll_PreservesOrder(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "body-of-%s", r.URL.Path[1:])
	}))
	defer ts.Close()

	refs := []imaging.Reference{
		{URL: ts.URL + "/a"},
		{B64JSON: "aW5saW5l"},
		{URL: ts.URL + "/c"},
	}
	fetcher := imaging.NewFetcher(ts.Client())
	got, err := fetcher.FetchAll(context.Background(), refs)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	want := []string{
		base64.StdEncoding.EncodeToString([]byte("body-of-a")),
		"aW5saW5l",
		base64.StdEncoding.EncodeToString([]byte("body-of-c")),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FetchAll mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchAll_PropagatesFailure(t *testing.T) {
	fetcher := imaging.NewFetcher(nil)
	_, err := fetcher.FetchAll(context.Background(), []imaging.Reference{
		{B64JSON: "aW5saW5l"},
		{},
	})
	if !errors.Is(err, imaging.ErrNoImageData) {
		t.Fatalf("want ErrNoImageData from failing reference, got %v", err)
	}
}
