package dockerexec

import "sync"

// subscriberBufferSize is the channel buffer for each log subscriber.
// Chunks are dropped if a subscriber falls this far behind.
const subscriberBufferSize = 64

// LogBroker fans out live log chunks to subscribers, keyed by topic
// (typically one topic per execution). It is safe for concurrent use.
//
// Wire it into an Executor through WithLogWriter and close the topic once
// Execute returns:
//
//	broker := dockerexec.NewLogBroker()
//	exec, err := dockerexec.New(engine, image, command,
//		dockerexec.WithLogWriter(broker.Writer("job-1")))
//	if err != nil {
//		return err
//	}
//	output, err := exec.Execute(ctx)
//	broker.Close("job-1")
//
// The caller that runs the execution owns the topic: it must call Close
// exactly once the execution finishes. Close releases all live subscriber
// state and leaves a tombstone behind, so a subscriber arriving after the
// fact receives a closed channel instead of blocking forever. A tombstone
// is a map key with no value, which is acceptable for the expected
// execution volume.
type LogBroker struct {
	mu     sync.Mutex
	live   map[string]*logTopic
	closed map[string]struct{}
}

type logTopic struct {
	subs   map[int]chan string
	nextID int
}

// NewLogBroker creates a new log broker.
func NewLogBroker() *LogBroker {
	return &LogBroker{
		live:   make(map[string]*logTopic),
		closed: make(map[string]struct{}),
	}
}

// Subscribe returns a channel that receives log chunks for the given topic
// and an unsubscribe function. If the topic has already been closed, the
// returned channel is immediately closed.
func (b *LogBroker) Subscribe(topic string) (<-chan string, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, done := b.closed[topic]; done {
		ch := make(chan string)
		close(ch)
		return ch, func() {}
	}

	t := b.live[topic]
	if t == nil {
		t = &logTopic{subs: make(map[int]chan string)}
		b.live[topic] = t
	}

	ch := make(chan string, subscriberBufferSize)
	id := t.nextID
	t.nextID++
	t.subs[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(t.subs, id)
	}
}

// Publish sends a log chunk to all subscribers of the given topic.
// Chunks are dropped for subscribers whose buffers are full. Publishing to
// an unknown or closed topic is a no-op.
func (b *LogBroker) Publish(topic string, chunk string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := b.live[topic]
	if t == nil {
		return
	}

	for _, ch := range t.subs {
		select {
		case ch <- chunk:
		default:
			// Drop chunk for slow subscribers to avoid blocking execution.
		}
	}
}

// Writer returns a function that publishes each chunk to the given topic,
// shaped to plug into WithLogWriter.
func (b *LogBroker) Writer(topic string) func(chunk string) {
	return func(chunk string) {
		b.Publish(topic, chunk)
	}
}

// Close signals that no more chunks will be published for the given topic.
// All subscriber channels are closed, their state is released, and future
// Subscribe calls return a closed channel. Closing an already-closed topic
// is a no-op.
func (b *LogBroker) Close(topic string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, done := b.closed[topic]; done {
		return
	}
	b.closed[topic] = struct{}{}

	t := b.live[topic]
	if t == nil {
		return
	}
	delete(b.live, topic)
	for _, ch := range t.subs {
		close(ch)
	}
}
