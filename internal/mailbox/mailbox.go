package mailbox

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// MaxContentSize is the largest content a message can carry.
const MaxContentSize = 16

var (
	// ErrFull is returned by Alloc when every slot is in flight.
	ErrFull = errors.New("mailbox is full")
	// ErrTooLarge is returned by Post for content over MaxContentSize.
	ErrTooLarge = errors.New("message content is too large")
	// ErrEmptyContent is returned by Post for empty content.
	ErrEmptyContent = errors.New("message content is empty")
)

// Message is one mailbox slot. It is owned by whoever holds the pointer:
// the producer between Alloc and Put, the consumer between Get and Free.
type Message struct {
	// ID correlates log lines of one message. It changes on every Alloc.
	ID uuid.UUID

	content [MaxContentSize]byte
	length  int
	inUse   atomic.Bool
}

// Bytes returns the content. The slice is only valid until Free.
func (m *Message) Bytes() []byte {
	return m.content[:m.length]
}

// SetBytes copies content into the message.
func (m *Message) SetBytes(content []byte) error {
	if len(content) > MaxContentSize {
		return fmt.Errorf("%w: %d bytes", ErrTooLarge, len(content))
	}

	m.length = copy(m.content[:], content)

	return nil
}

// Mailbox is a bounded FIFO of messages backed by a fixed pool.
// At most Cap messages are in flight, so Put never blocks.
type Mailbox struct {
	pool  chan *Message
	queue chan *Message
}

// New creates a mailbox with the given number of slots (at least one).
func New(capacity int) *Mailbox {
	if capacity < 1 {
		capacity = 1
	}

	mb := &Mailbox{
		pool:  make(chan *Message, capacity),
		queue: make(chan *Message, capacity),
	}

	for range capacity {
		mb.pool <- new(Message)
	}

	return mb
}

// Alloc takes a free slot from the pool without blocking.
func (mb *Mailbox) Alloc() (*Message, error) {
	select {
	case msg := <-mb.pool:
		msg.ID = uuid.New()
		msg.length = 0
		msg.inUse.Store(true)

		return msg, nil
	default:
		return nil, ErrFull
	}
}

// Put enqueues an allocated message.
func (mb *Mailbox) Put(msg *Message) {
	mb.queue <- msg
}

// Post allocates a slot, copies content into it and enqueues it.
func (mb *Mailbox) Post(content []byte) (uuid.UUID, error) {
	if len(content) == 0 {
		return uuid.Nil, ErrEmptyContent
	}

	if len(content) > MaxContentSize {
		return uuid.Nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(content))
	}

	msg, err := mb.Alloc()
	if err != nil {
		return uuid.Nil, err
	}

	// Length was checked above.
	_ = msg.SetBytes(content)

	// The consumer owns msg after Put.
	id := msg.ID

	mb.Put(msg)

	return id, nil
}

// Get blocks until a message is available or ctx is done.
func (mb *Mailbox) Get(ctx context.Context) (*Message, error) {
	select {
	case msg := <-mb.queue:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Free returns a message to the pool. Freeing a message twice is a no-op.
func (mb *Mailbox) Free(msg *Message) {
	if msg == nil || !msg.inUse.CompareAndSwap(true, false) {
		return
	}

	msg.length = 0
	mb.pool <- msg
}

// Len returns the number of queued messages.
func (mb *Mailbox) Len() int {
	return len(mb.queue)
}

// Cap returns the number of slots.
func (mb *Mailbox) Cap() int {
	return cap(mb.pool)
}
