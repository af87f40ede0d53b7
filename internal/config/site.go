package config

// SiteConfig holds site-specific settings for a single host. Some sites
// gate content behind cookies or custom headers; these let a mirror see
// the same markup a logged-in browser would.
type SiteConfig struct {
	// Platform overrides the platform for this site, so the right badge
	// stripper runs without a CLI flag.
	Platform string `yaml:"platform,omitempty"`

	// Cookie is an HTTP cookie to send when mirroring this site.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// UserAgent overrides the User-Agent header for this site.
	UserAgent string `yaml:"userAgent,omitempty"`
}

// File represents the structure of the .sitemirror configuration file.
type File struct {
	// Sites maps hostnames to their site-specific settings.
	// Keys are bare hosts (e.g., "example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains settings applied to all sites unless overridden
	// in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the settings for a specific host, merging the
// site-specific configuration over the defaults. The headers map is
// copied so merging never mutates the shared defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults
	if len(cf.Defaults.Headers) > 0 {
		result.Headers = make(map[string]string, len(cf.Defaults.Headers))
		for k, v := range cf.Defaults.Headers {
			result.Headers[k] = v
		}
	}

	if siteConfig, ok := cf.Sites[host]; ok {
		if siteConfig.Platform != "" {
			result.Platform = siteConfig.Platform
		}
		if siteConfig.Cookie != "" {
			result.Cookie = siteConfig.Cookie
		}
		if siteConfig.UserAgent != "" {
			result.UserAgent = siteConfig.UserAgent
		}
		if len(siteConfig.Headers) > 0 {
			if result.Headers == nil {
				result.Headers = make(map[string]string, len(siteConfig.Headers))
			}
			for k, v := range siteConfig.Headers {
				result.Headers[k] = v
			}
		}
	}

	return result
}
