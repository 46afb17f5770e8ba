// Package publish sends numbered test messages to a JetStream subject.
//
// Publish is synchronous: every message waits for its PubAck before the next
// is sent. PublishDontWait hands the whole batch to a background task and
// returns at once; the caller gets no completion signal and cannot cancel it.
//
// Payloads are the prefix followed by the 1-based sequence number ("a1",
// "a2", ...) for Publish, and prefix, dash, number ("a-1", "a-2", ...) for
// PublishDontWait.
package publish
