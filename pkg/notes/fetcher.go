// Package notes fetches per-issue release note documents and dissects them
// into the fragments the report needs.
package notes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/goblinsan/relnotes-helper/pkg/htmldoc"
	"github.com/goblinsan/relnotes-helper/pkg/types"
)

// Headings that delimit the two fragments inside a release note document.
const (
	summaryHeading = "Summary of Change"
	detailsHeading = "Details of Change"
)

// DefaultTimeout bounds a single release note fetch.
const DefaultTimeout = 30 * time.Second

// Note carries the two fragments extracted from a release note document.
// Both are containers whose children the caller clones into the report.
type Note struct {
	Summary *html.Node
	Details *html.Node
}

// Fetcher retrieves the release note attached to an issue.
type Fetcher interface {
	Fetch(ctx context.Context, issue types.Issue) (*Note, error)
}

// HTTPFetcher fetches release notes over HTTP with a per-fetch timeout.
type HTTPFetcher struct {
	client  *http.Client
	timeout time.Duration
}

// NewHTTPFetcher creates a fetcher. A non-positive timeout falls back to
// DefaultTimeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPFetcher{client: &http.Client{}, timeout: timeout}
}

// Fetch downloads and dissects the release note attached to issue. Each
// issue is attempted exactly once; there are no retries.
func (f *HTTPFetcher) Fetch(ctx context.Context, issue types.Issue) (*Note, error) {
	if issue.NoteURL == "" {
		return nil, errors.New("issue has no release note address")
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, issue.NoteURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch release note: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s fetching release note", resp.Status)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse release note: %w", err)
	}
	return Dissect(doc)
}

// Dissect extracts the summary and details fragments from a parsed release
// note document. The summary is the first paragraph following the "Summary
// of Change" heading; the details are everything between the "Details of
// Change" heading and the next heading.
func Dissect(doc *html.Node) (*Note, error) {
	summary, err := summaryFragment(doc)
	if err != nil {
		return nil, err
	}
	details, err := detailsFragment(doc)
	if err != nil {
		return nil, err
	}
	return &Note{Summary: summary, Details: details}, nil
}

func summaryFragment(doc *html.Node) (*html.Node, error) {
	h := findHeading(doc, summaryHeading)
	if h == nil {
		return nil, fmt.Errorf("release note has no %q heading", summaryHeading)
	}
	for s := h.NextSibling; s != nil; s = s.NextSibling {
		if isHeading(s) {
			break
		}
		if s.Type == html.ElementNode && s.DataAtom == atom.P {
			return s, nil
		}
	}
	return nil, fmt.Errorf("release note has no paragraph after the %q heading", summaryHeading)
}

func detailsFragment(doc *html.Node) (*html.Node, error) {
	h := findHeading(doc, detailsHeading)
	if h == nil {
		return nil, fmt.Errorf("release note has no %q heading", detailsHeading)
	}
	container := &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: atom.Div.String()}
	for s := h.NextSibling; s != nil && !isHeading(s); s = s.NextSibling {
		container.AppendChild(htmldoc.Clone(s))
	}
	return container, nil
}

func findHeading(n *html.Node, title string) *html.Node {
	if isHeading(n) && strings.TrimSpace(textOf(n)) == title {
		return n
	}
	for k := n.FirstChild; k != nil; k = k.NextSibling {
		if h := findHeading(k, title); h != nil {
			return h
		}
	}
	return nil
}

func isHeading(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}

func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for k := n.FirstChild; k != nil; k = k.NextSibling {
		b.WriteString(textOf(k))
	}
	return b.String()
}
