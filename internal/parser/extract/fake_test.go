package extract

import (
	"context"
	"errors"

	"github.com/Vodeneev/matchsync/internal/parser/page"
)

// fakeSource answers QueryAll from a selector table and records every query it receives.
type fakeSource struct {
	results map[string][]page.Element
	fail    map[string]error
	queries []string
}

func (f *fakeSource) Navigate(ctx context.Context, url string) error { return nil }

func (f *fakeSource) QueryAll(ctx context.Context, selector string) ([]page.Element, error) {
	f.queries = append(f.queries, selector)
	if err := f.fail[selector]; err != nil {
		return nil, err
	}
	return f.results[selector], nil
}

func (f *fakeSource) queried(selector string) bool {
	for _, q := range f.queries {
		if q == selector {
			return true
		}
	}
	return false
}

// fakeElement maps field selectors to child elements carrying text.
type fakeElement struct {
	text     string
	children map[string][]page.Element
	panicOn  string
	readErr  error
}

func (f *fakeElement) QueryAll(ctx context.Context, selector string) ([]page.Element, error) {
	if f.panicOn != "" && selector == f.panicOn {
		panic("detached node")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.children[selector], nil
}

func (f *fakeElement) InnerText(ctx context.Context) (string, error) {
	if f.readErr != nil {
		return "", f.readErr
	}
	return f.text, nil
}

func textEl(s string) page.Element { return &fakeElement{text: s} }

var errTimeout = errors.New("timed out waiting for node")

// row builds a candidate element from selector -> text pairs.
func row(fields map[string]string) *fakeElement {
	el := &fakeElement{children: map[string][]page.Element{}}
	for sel, text := range fields {
		el.children[sel] = []page.Element{textEl(text)}
	}
	return el
}
