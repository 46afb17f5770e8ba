// Package jspull is a small kit for demonstrating JetStream pull
// subscriptions with the NATS Go client.
//
// The subpackages each cover one step:
//
//   - provision: create the memory stream a demo needs
//   - publish: publish numbered messages, synchronously or in the background
//   - pull: bind a pull consumer, issue pull requests, read and ack
//   - report: print a one-line summary of a batch
//   - message: classify messages (JetStream, status, plain) and count them
//   - ident: short unique names for streams, subjects and consumers
//
// Run wires them together:
//
//	nc, _ := nats.Connect(nats.DefaultURL)
//	defer nc.Close()
//
//	cfg := jspull.DefaultConfig()
//	cfg.Count = 3
//	cfg.BatchSize = 5
//	cfg.NextMessageTimeout = 3 * time.Second
//
//	res, err := jspull.Run(ctx, nc, cfg)
//	// Publish -> m1 m2 m3 <-
//	// Read/Ack -> m1 m2 m3 !408! <-
//	// Fetch -> m1 m2 m3  <-
//
// A batch larger than the number of available messages stays open until the
// pull request expires; the server then sends a 408 status message, which
// the reader keeps in the batch and the Tally counts as a timeout.
//
// Configuration can be loaded from YAML (LoadYAML) or from JSPULL_*
// environment variables (LoadEnv). See examples/ for runnable programs.
package jspull
