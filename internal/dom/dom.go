// Package dom defines the small browser surface the checks are written against.
// Both drivers in internal/browser implement it.
package dom

import "context"

// Browser hands out isolated pages, one per scenario
type Browser interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

// Page is a single browser tab
type Page interface {
	Navigate(ctx context.Context, url string) error

	// Elements returns every element matching the XPath expression right now.
	// It does not wait; an empty result is not an error.
	Elements(ctx context.Context, xpath string) ([]Element, error)

	// Screenshot returns a PNG of the current viewport
	Screenshot(ctx context.Context) ([]byte, error)

	Close() error
}

// Element is a live handle to a DOM node
type Element interface {
	// Elements evaluates a relative XPath (".//...") against this element
	Elements(ctx context.Context, xpath string) ([]Element, error)

	// Text returns the rendered (inner) text, untrimmed
	Text(ctx context.Context) (string, error)

	// Attribute returns the attribute value, or "" when it is absent
	Attribute(ctx context.Context, name string) (string, error)

	Visible(ctx context.Context) (bool, error)

	// ScrollIntoView centers the element in the viewport on both axes
	ScrollIntoView(ctx context.Context) error

	Hover(ctx context.Context) error
	Click(ctx context.Context) error

	// Center returns the element's center in viewport coordinates
	Center(ctx context.Context) (x, y int, err error)
}
