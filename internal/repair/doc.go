// Package repair applies the bounded set of idempotent structural fixes to
// room documents and recomputes their health metrics.
//
// Transform is a pure function over one decoded document: it never touches
// storage and running it twice yields the same bytes and an empty issue
// list the second time. The Runner wraps Transform with everything a batch
// run needs: governance gating, scan budgets, a process-level lock, and the
// conditional database write-back that refuses to clobber rows modified
// since they were read.
package repair
