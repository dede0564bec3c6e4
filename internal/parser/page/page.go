// Package page provides the page sources the extraction adapter reads fixtures from.
//
// A Source navigates and hands out element handles; it knows nothing about fixtures. Site markup
// lives in selector data owned by the sources package.
package page

import (
	"context"
	"errors"
)

// ErrNoDocument is returned by queries issued before a successful Navigate.
var ErrNoDocument = errors.New("page: no document loaded")

// Source is the capability to load a URL and query elements on the loaded document.
type Source interface {
	Navigate(ctx context.Context, url string) error
	// QueryAll returns every element matching selector, possibly none. It does not wait for
	// elements to appear.
	QueryAll(ctx context.Context, selector string) ([]Element, error)
}

// Element is a handle to one node of the loaded document.
type Element interface {
	// QueryAll returns descendants of the element matching selector.
	QueryAll(ctx context.Context, selector string) ([]Element, error)
	// InnerText reads the rendered text of the element. Callers bound it with ctx.
	InnerText(ctx context.Context) (string, error)
}

// Snapshotter captures the current page state for offline debugging.
// ext is the file extension matching data (".png", ".html").
type Snapshotter interface {
	Snapshot(ctx context.Context) (data []byte, ext string, err error)
}

// Session is a page source owned by one run.
type Session interface {
	Source
	Snapshotter
	Close() error
}
