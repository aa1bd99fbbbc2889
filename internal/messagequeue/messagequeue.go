package messagequeue

// Publisher sends fire-and-forget notification messages to a queue.
// Downstream consumers (e.g. a notification worker inviting subscribers to
// the community channel) are out of process.
type Publisher interface {
	Publish(queueName string, body []byte) error
	Close() error
}
