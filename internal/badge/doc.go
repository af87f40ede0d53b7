// Package badge removes platform-injected promotional markup from
// mirrored pages so a local copy appears self-authored.
//
// Each supported platform (Framer, Webflow, WordPress, ...) declares a
// rule set: a block of display:none CSS injected as defense in depth,
// selectors for badge nodes to delete outright, and keyword rules for
// promotional links pointing back at the platform. Text-only removal is
// guarded by a 50-character limit so body copy that merely mentions a
// platform is never deleted.
//
// Design decision: the platforms form a closed set of rule-driven
// variants behind one Stripper interface rather than a type hierarchy,
// because the variants differ only in data (selectors, domains,
// keywords) plus the occasional extra hook. Adding a platform is a new
// rule-set entry, not a new type.
package badge
