// Package report aggregates audit findings into the capped, grouped text
// summaries the CLI prints, and maps them to process exit codes for CI.
//
// Rendering is deliberately plain: per-room blocks sorted by id, hard
// findings before warnings, with "+N more" markers past the display caps so
// a very broken catalog still produces a readable log. The exit code is a
// pure function of the hard counts.
package report
