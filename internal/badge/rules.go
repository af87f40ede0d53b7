package badge

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/sitemirror/internal/model"
)

// ruleSets holds one rule set per supported platform. The general
// platform is intentionally absent; ForPlatform returns the no-op
// stripper for it and for anything unrecognized.
var ruleSets = map[model.Platform]*ruleSet{
	model.PlatformFramer: {
		name: "Framer",
		css: `<style>
#__framer-badge-container { display: none !important; }
[data-framer-name="Made with Framer"] { display: none !important; }
.framer-badge { display: none !important; }
a[href*="framer.com"][target="_blank"] { display: none !important; }
a[href*="framer.com/templates"] { display: none !important; }
[data-framer-name*="Edit template"] { display: none !important; }
[class*="edit-template"] { display: none !important; }
[class*="template-badge"] { display: none !important; }
</style>`,
		removeSelectors: []string{
			"#__framer-badge-container",
			`[data-framer-name="Made with Framer"]`,
			".framer-badge",
			".edit-template",
			".template-badge",
		},
		textPhrases: []string{"edit template"},
		domains:     []string{"framer.com"},
		keywords:    []string{"made", "framer", "built", "edit", "template", "free"},
	},
	model.PlatformWebflow: {
		name: "Webflow",
		css: `<style>
.w-webflow-badge { display: none !important; }
.webflow-badge { display: none !important; }
.w-badge { display: none !important; }
.buy-badge.w-inline-block { display: none !important; }
a[href*="webflow.com"] { display: none !important; }
a[href*="webflow.io"] { display: none !important; }
[data-w-id*="badge"] { display: none !important; }
[data-w-id*="webflow"] { display: none !important; }
</style>`,
		removeSelectors: []string{
			".w-webflow-badge",
			".webflow-badge",
			".buy-badge.w-inline-block",
			".w-badge",
		},
		domains:  []string{"webflow.com", "webflow.io"},
		keywords: []string{"made", "webflow", "built", "template", "free"},
	},
	model.PlatformWordPress: {
		name: "WordPress",
		css: `<style>
.wp-badge { display: none !important; }
.wordpress-badge { display: none !important; }
.powered-by { display: none !important; }
a[href*="wordpress.org"] { display: none !important; }
a[href*="wordpress.com"] { display: none !important; }
.site-info a[href*="wordpress"] { display: none !important; }
.footer-credits a[href*="wordpress"] { display: none !important; }
[class*="wp-badge"] { display: none !important; }
[id*="wp-badge"] { display: none !important; }
</style>`,
		removeSelectors: []string{
			".wp-badge",
			".wordpress-badge",
			".powered-by",
		},
		domains:  []string{"wordpress.org", "wordpress.com"},
		keywords: []string{"powered", "wordpress", "built", "made"},
		extra: func(doc *goquery.Document) {
			// WordPress advertises itself in a generator meta tag too.
			doc.Find(`meta[name="generator"]`).Each(func(_ int, s *goquery.Selection) {
				if content, ok := s.Attr("content"); ok && strings.Contains(strings.ToLower(content), "wordpress") {
					s.Remove()
				}
			})
		},
	},
	model.PlatformWix: {
		name: "Wix",
		css: `<style>
.wix-badge { display: none !important; }
.wix-banner { display: none !important; }
a[href*="wix.com"] { display: none !important; }
[data-wix-id*="badge"] { display: none !important; }
[class*="wix-badge"] { display: none !important; }
[id*="wix-badge"] { display: none !important; }
body { margin-top: 0 !important; padding-top: 0 !important; }
</style>`,
		removeSelectors: []string{
			".wix-badge",
			".wix-banner",
		},
		domains:  []string{"wix.com"},
		keywords: []string{"created", "designed", "website", "free", "build"},
	},
	model.PlatformShopify: {
		name: "Shopify",
		css: `<style>
.shopify-badge { display: none !important; }
.powered-by-shopify { display: none !important; }
.shopify-credits { display: none !important; }
a[href*="shopify.com"] { display: none !important; }
.site-footer a[href*="shopify"] { display: none !important; }
.footer a[href*="shopify"] { display: none !important; }
[class*="shopify-badge"] { display: none !important; }
[id*="shopify-badge"] { display: none !important; }
[class*="powered-by"] { display: none !important; }
</style>`,
		removeSelectors: []string{
			".shopify-badge",
			".powered-by-shopify",
			".shopify-credits",
		},
		textPhrases: []string{"powered by shopify"},
		domains:     []string{"shopify.com"},
		keywords:    []string{"powered", "shopify", "built", "made"},
	},
	model.PlatformBolt: {
		name: "Bolt",
		css: `<style>
.bolt-badge { display: none !important; }
.made-in-bolt { display: none !important; }
a[href*="bolt.new"] { display: none !important; }
[data-bolt-badge] { display: none !important; }
[class*="bolt-badge"] { display: none !important; }
[id*="bolt-badge"] { display: none !important; }
</style>`,
		removeSelectors: []string{
			".bolt-badge",
			".made-in-bolt",
			"[data-bolt-badge]",
		},
		textPhrases: []string{"made in bolt"},
		domains:     []string{"bolt.new", "bolt.host"},
		keywords:    []string{"made", "bolt", "built", "powered", "created"},
	},
	model.PlatformLovable: {
		name: "Lovable",
		css: `<style>
.lovable-badge { display: none !important; }
.edit-with-lovable { display: none !important; }
a[href*="lovable.dev"] { display: none !important; }
[data-lovable-badge] { display: none !important; }
[class*="lovable-badge"] { display: none !important; }
[id*="lovable-badge"] { display: none !important; }
</style>`,
		removeSelectors: []string{
			".lovable-badge",
			".edit-with-lovable",
			"[data-lovable-badge]",
		},
		domains:  []string{"lovable.dev"},
		keywords: []string{"edit", "lovable", "made"},
	},
	model.PlatformGumroad: {
		name: "Gumroad",
		css: `<style>
.gumroad-badge { display: none !important; }
.powered-by-gumroad { display: none !important; }
a[href*="gumroad.com"] { display: none !important; }
[data-gumroad-badge] { display: none !important; }
[class*="gumroad-badge"] { display: none !important; }
[id*="gumroad-badge"] { display: none !important; }
</style>`,
		removeSelectors: []string{
			".gumroad-badge",
			".powered-by-gumroad",
		},
		domains:  []string{"gumroad.com"},
		keywords: []string{"powered", "gumroad", "made"},
	},
	model.PlatformReplit: {
		name: "Replit",
		css: `<style>
.replit-badge { display: none !important; }
[data-replit-badge] { display: none !important; }
[class*="replit-badge"] { display: none !important; }
[id*="replit-badge"] { display: none !important; }
a[href*="replit.com"] { display: none !important; }
</style>`,
		removeSelectors: []string{
			".replit-badge",
			"[data-replit-badge]",
		},
		domains:  []string{"replit.com"},
		keywords: []string{"replit", "made", "run"},
		extra: func(doc *goquery.Document) {
			// The Replit badge is injected by a script tag.
			doc.Find(`script[src*="replit-badge"]`).Remove()
		},
	},
	model.PlatformSquarespace: {
		name: "Squarespace",
		css: `<style>
.squarespace-badge { display: none !important; }
.powered-by-link { display: none !important; }
.sqs-svg-logo--wordmark { display: none !important; }
.sqs-svg-logo--glyph { display: none !important; }
a[href*="squarespace.com"] { display: none !important; }
[data-squarespace-badge] { display: none !important; }
[class*="squarespace-badge"] { display: none !important; }
[id*="squarespace-badge"] { display: none !important; }
</style>`,
		removeSelectors: []string{
			".squarespace-badge",
			".powered-by-link",
		},
		domains:  []string{"squarespace.com"},
		keywords: []string{"powered", "squarespace", "made"},
	},
	model.PlatformNotion: {
		name: "Notion",
		css: `<style>
.notion-badge { display: none !important; }
.made-with-notion { display: none !important; }
a[href*="notion.so"] { display: none !important; }
a[href*="notion.site"] { display: none !important; }
[data-notion-badge] { display: none !important; }
[class*="notion-badge"] { display: none !important; }
[id*="notion-badge"] { display: none !important; }
</style>`,
		removeSelectors: []string{
			".notion-badge",
			".made-with-notion",
		},
		domains:  []string{"notion.so", "notion.site"},
		keywords: []string{"notion", "made", "powered"},
	},
	model.PlatformRocket: {
		name: "Rocket",
		css: `<style>
.rocket-badge { display: none !important; }
.made-in-rocket { display: none !important; }
a[href*="rocket.new"] { display: none !important; }
[data-rocket-badge] { display: none !important; }
[class*="rocket-badge"] { display: none !important; }
[id*="rocket-badge"] { display: none !important; }
</style>`,
		removeSelectors: []string{
			".rocket-badge",
			".made-in-rocket",
		},
		domains:  []string{"rocket.new"},
		keywords: []string{"rocket", "made", "built"},
	},
}
