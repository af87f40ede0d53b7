package crawler

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/nao1215/sitemirror/internal/pathmap"
)

// Parser extracts the page title and same-site links from HTML.
//
// Design decision: We use golang.org/x/net/html rather than regex
// because:
//  1. It correctly handles malformed HTML common on the web
//  2. Provides a proper DOM-like structure
//  3. More maintainable than complex regex patterns
type Parser struct {
	// baseURL is the URL of the page being parsed, used for resolving
	// relative links and for the same-site check.
	baseURL *url.URL
}

// ParseResult contains the information one parsing pass extracts.
type ParseResult struct {
	// Title is the page title from the <title> tag, empty when absent.
	Title string

	// InternalLinks are same-site page URLs in document order, deduplicated,
	// with queries and fragments stripped.
	InternalLinks []string
}

// NewParser creates a parser for a page at the given URL.
func NewParser(baseURL string) (*Parser, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Parser{baseURL: u}, nil
}

// Parse walks the HTML tree once and collects the title and internal
// links.
func (p *Parser) Parse(content io.Reader) (*ParseResult, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{
		InternalLinks: make([]string, 0),
	}
	seen := make(map[string]bool)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if result.Title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					result.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "a":
				if href := getAttr(n, "href"); href != "" {
					if link := p.resolveInternal(href); link != "" && !seen[link] {
						seen[link] = true
						result.InternalLinks = append(result.InternalLinks, link)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return result, nil
}

// resolveInternal resolves an href against the page URL and returns the
// normalized absolute URL when it points at the same site, or "" when it
// does not.
func (p *Parser) resolveInternal(href string) string {
	href = strings.TrimSpace(href)
	if !pathmap.IsInternal(href, p.baseURL.String()) {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := p.baseURL.ResolveReference(u)

	// Queries and fragments never change which page is mirrored.
	resolved.RawQuery = ""
	resolved.Fragment = ""
	resolved.Scheme = strings.ToLower(resolved.Scheme)
	resolved.Host = strings.ToLower(resolved.Host)
	if resolved.Path == "" {
		resolved.Path = "/"
	}
	return resolved.String()
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
