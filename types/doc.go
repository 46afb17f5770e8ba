// Package types holds the definitions shared by every jspull package.
//
// Keeping them here lets the internal packages depend on a small, NATS-free
// package instead of the root jspull package, which avoids import cycles.
//
// Key types:
//   - Origin: Where a received message came from (JetStream, status, plain)
//   - Tally: Per-origin counts for one batch
//   - Logger: Structured logging interface
//   - MetricsCollector: Metrics recording interface
package types
