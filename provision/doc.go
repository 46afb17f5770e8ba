// Package provision creates the JetStream streams the pull helpers publish to.
//
// CreateStream is deliberately strict: it fails when the stream already
// exists, because the helpers assume a freshly created, empty stream. Use
// EnsureStream when an existing stream is acceptable.
//
// A Provisioner remembers the streams it created, so a test or demo can
// remove exactly those with Cleanup.
package provision
