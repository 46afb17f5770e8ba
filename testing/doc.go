// Package testing provides test utilities for the jspull helpers.
//
// It starts in-process NATS servers with JetStream enabled so tests can
// exercise real streams, consumers and pull requests without Docker. It
// follows Go's convention of shipping test helpers in a dedicated package
// (similar to net/http/httptest).
//
// Key utilities:
//   - StartEmbeddedNATS: Single NATS server with JetStream
//   - NewJetStream: JetStream context bound to a test connection
//   - CreateMemoryStream: Memory-backed stream removed at test end
//   - NewTestLogger: types.Logger writing through t.Logf
//
// Example usage:
//
//	import (
//	    "testing"
//	    jstest "github.com/arloliu/jspull/testing"
//	)
//
//	func TestMyComponent(t *testing.T) {
//	    _, nc := jstest.StartEmbeddedNATS(t)
//	    js := jstest.NewJetStream(t, nc)
//	    // Use js for your tests
//	}
package testing
