// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/jadmax0w0/conference-paper-scrapper/pkg/types"
)

// cvfBase is the CVF Open Access root. Declared as a var so tests can
// substitute an httptest server.
var cvfBase = "https://openaccess.thecvf.com"

// CVFSite scrapes openaccess.thecvf.com. Listing pages mark each title
// as a link inside <dt class="ptitle">; detail pages carry the author
// line in <div id="authors"> and the abstract in <div id="abstract">.
type CVFSite struct{}

// Name returns the site identifier.
func (s *CVFSite) Name() string { return "cvf" }

// Conferences lists the conference labels this site hosts.
func (s *CVFSite) Conferences() []string { return []string{"cvpr", "iccv", "wacv"} }

// ListingURL builds the all-days accepted-papers listing URL.
func (s *CVFSite) ListingURL(conf, year string) (string, error) {
	if conf == "" || year == "" {
		return "", fmt.Errorf("conference and year are required")
	}
	return fmt.Sprintf("%s/%s%s?day=all", cvfBase, strings.ToUpper(conf), year), nil
}

// ParseListing extracts title/link pairs from the listing page. Relative
// hrefs are resolved against the page URL.
func (s *CVFSite) ParseListing(r io.Reader, base *url.URL) ([]types.PaperRecord, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing listing HTML: %w", err)
	}

	var papers []types.PaperRecord
	for _, dt := range findAll(doc, byClass("dt", "ptitle")) {
		a := find(dt, byTag("a"))
		if a == nil {
			continue
		}

		title := strings.ReplaceAll(strings.TrimSpace(text(a)), "\n", " ")
		href := attr(a, "href")
		if title == "" || href == "" {
			continue
		}

		link := href
		if ref, err := url.Parse(href); err == nil && base != nil {
			link = base.ResolveReference(ref).String()
		}

		papers = append(papers, types.PaperRecord{Title: title, Link: link})
	}
	return papers, nil
}

// ParseDetail extracts the author line and abstract from a paper page.
func (s *CVFSite) ParseDetail(r io.Reader) (authors, abstract string, err error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", "", fmt.Errorf("parsing detail HTML: %w", err)
	}

	authorsDiv := find(doc, byID("authors"))
	if authorsDiv == nil {
		return "", "", fmt.Errorf("no #authors element on page")
	}
	authors = strings.TrimSpace(text(authorsDiv))
	authors = strings.ReplaceAll(authors, ";", ",")
	authors = strings.Join(strings.Fields(authors), " ")

	abstractDiv := find(doc, byID("abstract"))
	if abstractDiv == nil {
		return "", "", fmt.Errorf("no #abstract element on page")
	}
	abstract = strings.TrimSpace(text(abstractDiv))

	return authors, abstract, nil
}

// --- HTML traversal helpers ---

type matcher func(*html.Node) bool

func byTag(tag string) matcher {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag
	}
}

func byID(id string) matcher {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && attr(n, "id") == id
	}
}

func byClass(tag, class string) matcher {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != tag {
			return false
		}
		for _, c := range strings.Fields(attr(n, "class")) {
			if c == class {
				return true
			}
		}
		return false
	}
}

// find returns the first node in document order matching m, or nil.
func find(n *html.Node, m matcher) *html.Node {
	if m(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, m); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns every node in document order matching m.
func findAll(n *html.Node, m matcher) []*html.Node {
	var nodes []*html.Node
	if m(n) {
		nodes = append(nodes, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		nodes = append(nodes, findAll(c, m)...)
	}
	return nodes
}

// text concatenates all text nodes under n.
func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
