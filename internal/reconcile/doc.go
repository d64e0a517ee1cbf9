// Package reconcile diffs the three sources that each claim to describe the
// room catalog: the on-disk JSON tree, the rooms database, and the static
// registry manifest.
//
// Each source is loaded independently and normalized to RoomInfo, keyed by
// canonical room id so that case and separator variants of the same id line
// up. A source that cannot be loaded contributes an empty map and a skipped
// note instead of failing the run; the report states which sources were
// actually compared.
//
// The registry is a routing manifest, so it contributes identity and tier
// only. Audio and entry-count comparisons run between the filesystem and
// database sources.
package reconcile
