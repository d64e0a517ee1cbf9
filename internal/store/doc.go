// Package store persists the rooms table in SQLite and exposes the
// read-modify-write surface the repair runner and reconciler use.
//
// The table mirrors the hosted backend's rooms collection: one row per
// room id carrying the tier, the entries JSON array, the full raw
// document text, and the derived health metrics. Repair writes are guarded
// by an optimistic-concurrency check on updated_at; a lost race surfaces
// as ErrConcurrentUpdate and the room is reported as skipped rather than
// partially written.
//
// Schema changes bump the version in schema.go; the database is a cache of
// upstream state and can be rebuilt with `roomaudit import`.
package store
