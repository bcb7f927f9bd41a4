// Package sqlite persists shower estimation runs to SQLite: the tuning
// parameters of each run as JSON plus the per-primary fragment and
// direction records. The archive sits outside the core estimation path —
// the pipeline never imports it — and exists so runs can be compared and
// reproduced after the fact.
package sqlite
