package kernel

import (
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/cwbudde/algo-patch/internal/spsc"
)

// DefaultQueueCapacity is the default size of each Node queue.
const DefaultQueueCapacity = 64

// ErrQueueFull is returned by Post when the audio side has not drained
// earlier messages.
var ErrQueueFull = errors.New("kernel control queue full")

// NodeOption configures a Node.
type NodeOption func(*nodeConfig)

type nodeConfig struct {
	queueCapacity int
	logger        *log.Logger
}

// WithQueueCapacity sets the capacity of the message and status queues.
func WithQueueCapacity(n int) NodeOption {
	return func(c *nodeConfig) { c.queueCapacity = n }
}

// WithLogger sets the logger for rejected messages and dropped statuses.
// It is only used on the control goroutine.
func WithLogger(l *log.Logger) NodeOption {
	return func(c *nodeConfig) { c.logger = l }
}

// Node couples a Kernel with its control plane.
//
// Post, Poll, Drain and DroppedStatuses belong to one control goroutine;
// Render belongs to one audio goroutine. Messages posted while a quantum
// is rendering take effect at the start of the next one.
type Node struct {
	kernel Kernel
	logger *log.Logger

	inbox  *spsc.Ring[Message]
	outbox *spsc.Ring[Status]

	dropped atomic.Uint64
	failed  atomic.Uint64

	// Control side bookkeeping for log output.
	reportedDropped uint64
	reportedFailed  uint64
}

// NewNode creates a kernel of kind wrapped in a Node. Statuses emitted
// during construction are queued for Poll.
func NewNode(kind Kind, cfg Config, opts ...NodeOption) (*Node, error) {
	nc := nodeConfig{queueCapacity: DefaultQueueCapacity}
	for _, opt := range opts {
		if opt != nil {
			opt(&nc)
		}
	}

	n := &Node{
		logger: nc.logger,
		inbox:  spsc.New[Message](nc.queueCapacity),
		outbox: spsc.New[Status](nc.queueCapacity),
	}

	k, err := New(kind, cfg, n.emit)
	if err != nil {
		return nil, err
	}
	n.kernel = k

	return n, nil
}

// Kind returns the kind of the wrapped kernel.
func (n *Node) Kind() Kind { return n.kernel.Kind() }

// Post queues msg for the next quantum boundary. Messages the kernel kind
// does not handle are rejected with ErrUnsupportedMessage.
func (n *Node) Post(msg Message) error {
	if err := checkMessage(n.kernel.Kind(), msg); err != nil {
		n.logf("ignoring message: %v", err)
		return err
	}

	if !n.inbox.TryPush(msg) {
		n.logf("dropping %s message for %s: queue full", msg.Type, n.kernel.Kind())
		return fmt.Errorf("kernel: %w", ErrQueueFull)
	}

	return nil
}

// Poll returns the oldest pending status.
func (n *Node) Poll() (Status, bool) {
	n.reportLosses()
	return n.outbox.TryPop()
}

// Drain passes every pending status to fn.
func (n *Node) Drain(fn func(Status)) {
	n.reportLosses()
	for {
		st, ok := n.outbox.TryPop()
		if !ok {
			return
		}
		fn(st)
	}
}

// DroppedStatuses returns how many statuses were lost to a full queue.
func (n *Node) DroppedStatuses() uint64 { return n.dropped.Load() }

// FailedMessages returns how many queued messages the kernel rejected
// when applying them.
func (n *Node) FailedMessages() uint64 { return n.failed.Load() }

// Render applies pending messages and processes one quantum.
func (n *Node) Render(q *Quantum) {
	for {
		msg, ok := n.inbox.TryPop()
		if !ok {
			break
		}

		if msg.Type == MessageReset {
			n.kernel.Reset()
			continue
		}

		if err := n.kernel.Configure(msg); err != nil {
			n.failed.Add(1)
		}
	}

	n.kernel.Process(q)
}

func (n *Node) emit(st Status) {
	if !n.outbox.TryPush(st) {
		n.dropped.Add(1)
	}
}

func (n *Node) reportLosses() {
	if n.logger == nil {
		return
	}

	if dropped := n.dropped.Load(); dropped != n.reportedDropped {
		n.logger.Printf("kernel %s: %d status reports dropped", n.kernel.Kind(), dropped-n.reportedDropped)
		n.reportedDropped = dropped
	}

	if failed := n.failed.Load(); failed != n.reportedFailed {
		n.logger.Printf("kernel %s: %d control messages failed", n.kernel.Kind(), failed-n.reportedFailed)
		n.reportedFailed = failed
	}
}

func (n *Node) logf(format string, args ...any) {
	if n.logger != nil {
		n.logger.Printf(format, args...)
	}
}
