package model

// CrawlMode selects how many pages a mirror job fetches.
type CrawlMode string

// Crawl mode constants.
const (
	// ModeSinglePage fetches exactly the start URL and never follows links.
	ModeSinglePage CrawlMode = "single_page"
	// ModeMultiPage follows internal links, or fetches an explicit page
	// selection when CrawlJob.SelectedPages is set.
	ModeMultiPage CrawlMode = "multi_page"
)

// IsValid returns true if this is a known crawl mode.
func (m CrawlMode) IsValid() bool {
	return m == ModeSinglePage || m == ModeMultiPage
}

// String returns the string representation of the CrawlMode.
func (m CrawlMode) String() string {
	return string(m)
}

// CrawlJob describes one mirror invocation. It is immutable once created
// and owns all per-job crawl state exclusively; nothing is shared across
// jobs.
type CrawlJob struct {
	// StartURL is the page the crawl is seeded with.
	StartURL string

	// Mode selects single-page or multi-page mirroring.
	Mode CrawlMode

	// SelectedPages, when non-empty, exactly bounds the set of pages to
	// mirror in multi-page mode. No link discovery happens beyond it.
	// Limited to 25 URLs; larger selections are rejected before any fetch.
	SelectedPages []string

	// OutputRoot is the directory the mirrored tree is written under.
	OutputRoot string
}

// PageRecord describes one page successfully written during a mirror job.
type PageRecord struct {
	// URL is the page's original URL.
	URL string `json:"url"`

	// LocalPath is the page's clean path relative to the output root.
	LocalPath string `json:"local_path"`

	// Title is the page title from the <title> tag, or a name derived
	// from the URL when the tag is absent.
	Title string `json:"title"`
}

// DiscoveredPage is a page enumerated by discovery mode. Discovery
// writes no files; Path is where the page would be written by a mirror.
type DiscoveredPage struct {
	// URL is the page's full URL.
	URL string `json:"url"`

	// Title is the page title.
	Title string `json:"title"`

	// Path is the clean path the page maps to.
	Path string `json:"path"`
}

// CrawlResult summarizes one completed mirror job.
type CrawlResult struct {
	// Success is false only for configuration-class failures raised
	// before crawling starts. Per-page and per-asset failures are
	// absorbed and reflected in PageCount instead.
	Success bool `json:"success"`

	// PageCount is the number of pages successfully written.
	PageCount int `json:"page_count"`

	// OutputRoot is the directory the mirrored tree was written under.
	OutputRoot string `json:"output_root"`

	// Pages lists the written pages in fetch order.
	Pages []PageRecord `json:"pages,omitempty"`
}
