// Package metrics provides types.MetricsCollector implementations.
package metrics

import "github.com/arloliu/jspull/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Components fall back to it when no collector is
// configured.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// RecordPublish discards the publish metric.
func (n *NopMetrics) RecordPublish(_ /* mode */ string) {}

// RecordPublishFailure discards the publish failure metric.
func (n *NopMetrics) RecordPublishFailure(_ /* mode */ string) {}

// RecordRead discards the read metric.
func (n *NopMetrics) RecordRead(_ /* origin */ types.Origin) {}

// RecordAck discards the ack metric.
func (n *NopMetrics) RecordAck(_ /* success */ bool) {}

// ObserveReadDuration discards the read duration metric.
func (n *NopMetrics) ObserveReadDuration(_ /* seconds */ float64) {}

// RecordStreamCreated discards the stream creation metric.
func (n *NopMetrics) RecordStreamCreated() {}
