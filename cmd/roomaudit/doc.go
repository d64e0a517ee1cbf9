// Command roomaudit audits and repairs the bilingual room catalog: keyword
// coverage checks, three-source reconciliation, registry generation, and
// the governed auto-repair batch. Exit code 1 signals hard findings for CI.
package main
