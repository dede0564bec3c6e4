package page

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

// StaticOptions configures the plain-HTTP page source.
type StaticOptions struct {
	UserAgent string
	Headers   map[string]string
	Timeout   time.Duration
}

// Static fetches a page over HTTP and queries it with goquery. No scripts run, so it only suits
// pages whose fixture tables are server-rendered. It also serves offline HTML in tests.
type Static struct {
	client    *http.Client
	userAgent string
	headers   map[string]string
	body      []byte
	doc       *goquery.Document
}

var _ Session = (*Static)(nil)

func NewStatic(opts StaticOptions) *Static {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DisableCompression = true // we send Accept-Encoding and decode in readBodyDecode

	return &Static{
		client:    &http.Client{Timeout: timeout, Transport: transport},
		userAgent: opts.UserAgent,
		headers:   opts.Headers,
	}
}

// NewStaticFromHTML returns a source with html already loaded. Navigate still works on it.
func NewStaticFromHTML(html string) (*Static, error) {
	s := NewStatic(StaticOptions{})
	if err := s.load([]byte(html)); err != nil {
		return nil, err
	}
	return s, nil
}

// Navigate replaces the loaded document with url. The previous document is dropped first, so a
// failed navigation leaves nothing to query or snapshot.
func (s *Static) Navigate(ctx context.Context, url string) error {
	s.body, s.doc = nil, nil

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br, zstd")
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("navigate %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := readBodyDecode(resp)
	if err != nil {
		return fmt.Errorf("read %s: %w", url, err)
	}
	return s.load(body)
}

func (s *Static) load(body []byte) error {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("parse html: %w", err)
	}
	s.body = body
	s.doc = doc
	return nil
}

func (s *Static) QueryAll(ctx context.Context, selector string) ([]Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.doc == nil {
		return nil, ErrNoDocument
	}
	return wrapSelection(s.doc.Find(selector)), nil
}

// Snapshot returns the raw HTML that was last loaded.
func (s *Static) Snapshot(ctx context.Context) ([]byte, string, error) {
	if s.doc == nil {
		return nil, "", ErrNoDocument
	}
	return s.body, ".html", nil
}

func (s *Static) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

type staticElement struct {
	sel *goquery.Selection
}

func wrapSelection(sel *goquery.Selection) []Element {
	out := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, &staticElement{sel: s})
	})
	return out
}

func (e *staticElement) QueryAll(ctx context.Context, selector string) ([]Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return wrapSelection(e.sel.Find(selector)), nil
}

func (e *staticElement) InnerText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return e.sel.Text(), nil
}

// readBodyDecode reads response body and decompresses it based on Content-Encoding (gzip, br, zstd).
func readBodyDecode(resp *http.Response) ([]byte, error) {
	enc := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
	switch {
	case enc == "br" || strings.Contains(enc, "br"):
		return io.ReadAll(brotli.NewReader(resp.Body))
	case enc == "zstd" || strings.Contains(enc, "zstd"):
		r, err := zstd.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		defer r.Close()
		return io.ReadAll(r)
	case enc == "gzip" || strings.Contains(enc, "gzip"):
		r, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer r.Close()
		return io.ReadAll(r)
	default:
		return io.ReadAll(resp.Body)
	}
}
