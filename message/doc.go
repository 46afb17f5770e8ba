// Package message classifies messages received from pull subscriptions.
//
// A pull subscription's inbox can receive three kinds of messages:
//
//   - JetStream deliveries, recognised by their "$JS.ACK." reply subject
//   - Status messages from the server, carrying a Status header such as
//     404 (no messages), 408 (request timeout) or 409 (conflict)
//   - Anything else, which a pull reader does not expect
//
// The counters in this package are order independent.
package message
