package badge

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/sitemirror/internal/model"
)

// maxBadgeTextLen is the upper bound on visible text length for pure
// text-based removal. Longer text that merely mentions a platform is
// legitimate content and must survive.
const maxBadgeTextLen = 50

// Stripper removes platform-injected promotional badge markup from a
// parsed page. Implementations are stateless and safe to share across
// pages and jobs.
type Stripper interface {
	// Name returns the platform's display name for logging.
	Name() string

	// Strip removes badge markup from the document in place. It must
	// run after link and asset rewriting so the injected badge-hiding
	// CSS is not itself rewritten.
	Strip(doc *goquery.Document)
}

// ForPlatform returns the Stripper for a platform. Unrecognized
// platforms fall back to the no-op general stripper; callers that want
// strict validation should check Platform.IsValid before any fetch.
func ForPlatform(p model.Platform) Stripper {
	if rules, ok := ruleSets[p]; ok {
		return rules
	}
	return noopStripper{}
}

// noopStripper is the general fallback: pages are mirrored untouched.
type noopStripper struct{}

// Name returns the fallback stripper's name.
func (noopStripper) Name() string { return "General" }

// Strip is a no-op for unrecognized platforms.
func (noopStripper) Strip(*goquery.Document) {}

// ruleSet is one platform's badge-removal rules. Each platform declares
// badge-hiding CSS plus selectors, text phrases, and promo-link keywords
// for outright node removal.
type ruleSet struct {
	// name is the platform display name.
	name string

	// css is the <style> block of display:none rules injected into the
	// page head.
	css string

	// removeSelectors match badge nodes to delete from the DOM.
	removeSelectors []string

	// textPhrases trigger removal of short elements whose visible text
	// contains the phrase, subject to maxBadgeTextLen.
	textPhrases []string

	// domains are the platform's promo-link hosts; an anchor is only
	// removed by keyword when its target contains one of these.
	domains []string

	// keywords are promotional words matched case-insensitively against
	// anchor text of links targeting the platform's domains.
	keywords []string

	// extra runs platform-specific cleanup not expressible as the
	// shared rules, such as dropping generator meta tags.
	extra func(doc *goquery.Document)
}

// Name returns the platform display name.
func (r *ruleSet) Name() string { return r.name }

// Strip applies the rule set: inject hiding CSS, remove matching nodes,
// remove short text badges, and remove promotional links.
func (r *ruleSet) Strip(doc *goquery.Document) {
	injectCSS(doc, r.css)

	for _, sel := range r.removeSelectors {
		doc.Find(sel).Remove()
	}

	if len(r.textPhrases) > 0 {
		doc.Find("a, button, div, span, p").Each(func(_ int, s *goquery.Selection) {
			text := strings.ToLower(strings.TrimSpace(s.Text()))
			if text == "" || len(text) >= maxBadgeTextLen {
				return
			}
			for _, phrase := range r.textPhrases {
				if strings.Contains(text, phrase) {
					s.Remove()
					return
				}
			}
		})
	}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !containsAny(strings.ToLower(href), r.domains) {
			return
		}
		text := strings.ToLower(s.Text())
		if containsAny(text, r.keywords) {
			s.Remove()
		}
	})

	if r.extra != nil {
		r.extra(doc)
	}
}

// injectCSS adds a badge-hiding <style> block to the document head,
// falling back to the start of the body, or to the document root when
// the page has neither tag.
func injectCSS(doc *goquery.Document, css string) {
	if css == "" {
		return
	}
	if head := doc.Find("head"); head.Length() > 0 {
		head.AppendHtml(css)
		return
	}
	if body := doc.Find("body"); body.Length() > 0 {
		body.PrependHtml(css)
		return
	}
	doc.Selection.PrependHtml(css)
}

// containsAny reports whether s contains any of the substrings.
func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
