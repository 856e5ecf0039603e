package graph

// Outbox collects the messages a stage emits during a single invocation.
// The runtime routes Send messages along the stage's outbound edges after
// the handler returns; Finish records the run's terminal result.
type Outbox struct {
	sent   []any
	done   bool
	result any
}

// Send queues a message for delivery to downstream stages.
func (o *Outbox) Send(msg any) {
	o.sent = append(o.sent, msg)
}

// Finish records the terminal result of the run. A run accepts exactly one
// terminal result; a second Finish across any of its stages fails the run
// with ErrMultipleResults.
func (o *Outbox) Finish(result any) {
	o.done = true
	o.result = result
}

// Sent returns the messages queued by Send, in order.
func (o *Outbox) Sent() []any {
	return o.sent
}

// Result returns the terminal result and whether Finish was called.
func (o *Outbox) Result() (any, bool) {
	return o.result, o.done
}
