// Package roomdoc models loosely-schematized room JSON documents and
// normalizes their many historical field shapes into one canonical view.
//
// Room documents were produced over several years by different authoring
// tools and hand edits, so the same concept can live under a dozen field
// names: entry text may be "copy", "content", "essay", "text", "body",
// "description", or "summary", each either a flat string, an {en, vi}
// object, or a pair of "_en"/"_vi" suffixed keys. Keywords may be split per
// language, combined in legacy "keywords"/"tags" arrays, or nested under
// "keywords.en". Audio references may be bare filenames, folder-prefixed
// paths, or per-language objects.
//
// Rather than scattering optional-field probing through callers, this
// package resolves each concept through an ordered list of accessor
// strategies tried in priority order. ExtractEntries recovers leaf entries
// from documents that never declared a top-level entries array, using a
// depth-bounded scan with an entry-shape heuristic tuned to avoid
// misclassifying container nodes.
package roomdoc
