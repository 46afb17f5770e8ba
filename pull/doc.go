// Package pull reads and acknowledges messages from JetStream pull
// subscriptions.
//
// A Reader drains a Subscription: it calls NextMsg with a fixed per-message
// wait until nothing arrives within that wait, acknowledging JetStream
// messages as they come in. Status messages the server sends in reply to a
// pull request (404 No Messages, 408 Request Timeout, 409 conflicts) are kept
// in the returned batch so callers can count them.
//
// PullSubscription is the low-level subscription the Reader is usually given.
// It binds a durable pull consumer to a private inbox and lets the caller
// issue pull requests explicitly:
//
//	sub, err := pull.Subscribe(ctx, js, "ORDERS", pull.ConsumerConfig{FilterSubject: "orders.new"})
//	if err != nil {
//	    return err
//	}
//	defer sub.Unsubscribe()
//
//	if err := sub.Pull(10, 2*time.Second); err != nil {
//	    return err
//	}
//	msgs, err := pull.NewReader(pull.WithVerbose(os.Stdout)).ReadMessagesAck(sub)
package pull
