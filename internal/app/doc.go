// Package app provides the orchestration layer for the encuentro client.
//
// # Overview
//
// This package wires configuration, the persistent cache, the sheet client,
// the per-source pollers, and the UI into the complete application. It is the
// composition root; all business logic lives in the domain packages.
//
// # Data Flow
//
//	Poller (per source, on a timer)
//	  └─> sheet.Client.Fetch ──> network │ cache
//	        └─> sheet.MapRows (canonical typed rows)
//	              └─> diff against previous snapshot
//	                    └─> state.Store.Update (only on change)
//	                          └─> ui reads Store.Snapshot() at its own pace
//
// # Polling Behavior
//
// Six independent pollers run in the background, one per published
// worksheet: programa, novedades, biblioteca, lugares, participantes,
// preguntas. Content sources poll every 30 seconds, the larger participant
// list every 60. There is no cross-source ordering: each poller owns a
// disjoint cache key and a disjoint store.
//
// # Error Handling
//
// Fatal errors (returned from Run): unreadable config, missing sheet_base,
// cache database open failure.
//
// Recoverable errors (absorbed, polling continues): every fetch failure
// after a source's first successful snapshot. The store keeps the last good
// rows and the UI shows a degraded notice instead of an error.
package app
