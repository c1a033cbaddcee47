// Package webclip extracts a clean, structured representation of an
// article (title, author, timestamp, ordered content blocks, deduplicated
// image list) from an already-rendered HTML document, for forwarding to a
// note-taking backend. It works across heterogeneous page structures
// (news sites, blogging platforms, social posts) without per-site
// configuration beyond a shared heuristic ruleset.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, readability/, rod/).
package webclip
