package model

// Platform represents the site-builder platform a page was generated by.
// The platform determines which badge-removal rules are applied to
// mirrored pages.
type Platform string

// Supported platform constants.
const (
	// PlatformGeneral is the fallback for sites not built on a known platform.
	// No badge removal is performed for this platform.
	PlatformGeneral Platform = "general"
	// PlatformFramer represents sites published from Framer.
	PlatformFramer Platform = "framer"
	// PlatformWebflow represents sites published from Webflow.
	PlatformWebflow Platform = "webflow"
	// PlatformWordPress represents WordPress sites.
	PlatformWordPress Platform = "wordpress"
	// PlatformWix represents Wix sites.
	PlatformWix Platform = "wix"
	// PlatformShopify represents Shopify storefronts.
	PlatformShopify Platform = "shopify"
	// PlatformBolt represents sites generated by Bolt.
	PlatformBolt Platform = "bolt"
	// PlatformLovable represents sites generated by Lovable.
	PlatformLovable Platform = "lovable"
	// PlatformGumroad represents Gumroad storefronts.
	PlatformGumroad Platform = "gumroad"
	// PlatformReplit represents sites hosted on Replit.
	PlatformReplit Platform = "replit"
	// PlatformSquarespace represents Squarespace sites.
	PlatformSquarespace Platform = "squarespace"
	// PlatformNotion represents published Notion pages.
	PlatformNotion Platform = "notion"
	// PlatformRocket represents sites generated by Rocket.
	PlatformRocket Platform = "rocket"
)

// String returns the string representation of the Platform.
func (p Platform) String() string {
	return string(p)
}

// IsValid returns true if this is a supported platform selector,
// including the general fallback.
func (p Platform) IsValid() bool {
	switch p {
	case PlatformGeneral, PlatformFramer, PlatformWebflow, PlatformWordPress,
		PlatformWix, PlatformShopify, PlatformBolt, PlatformLovable,
		PlatformGumroad, PlatformReplit, PlatformSquarespace, PlatformNotion,
		PlatformRocket:
		return true
	default:
		return false
	}
}

// DisplayName returns the human-readable platform name used in logs
// and reports.
func (p Platform) DisplayName() string {
	switch p {
	case PlatformGeneral:
		return "General"
	case PlatformFramer:
		return "Framer"
	case PlatformWebflow:
		return "Webflow"
	case PlatformWordPress:
		return "WordPress"
	case PlatformWix:
		return "Wix"
	case PlatformShopify:
		return "Shopify"
	case PlatformBolt:
		return "Bolt"
	case PlatformLovable:
		return "Lovable"
	case PlatformGumroad:
		return "Gumroad"
	case PlatformReplit:
		return "Replit"
	case PlatformSquarespace:
		return "Squarespace"
	case PlatformNotion:
		return "Notion"
	case PlatformRocket:
		return "Rocket"
	default:
		return "Unknown"
	}
}

// ParsePlatform converts a string to a Platform.
// An empty string maps to PlatformGeneral; unrecognized values are
// returned as-is and fail IsValid, so callers can reject them before
// any network I/O.
func ParsePlatform(s string) Platform {
	if s == "" {
		return PlatformGeneral
	}
	return Platform(s)
}

// Platforms returns all supported platform selectors in display order.
func Platforms() []Platform {
	return []Platform{
		PlatformGeneral, PlatformFramer, PlatformWebflow, PlatformWordPress,
		PlatformWix, PlatformShopify, PlatformBolt, PlatformLovable,
		PlatformGumroad, PlatformReplit, PlatformSquarespace, PlatformNotion,
		PlatformRocket,
	}
}
