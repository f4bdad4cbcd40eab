package publish

import (
	"context"
	"errors"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"
)

var errTestBroker = errors.New("broker is down")

// trace collects lock and send events in order.
type trace struct {
	mu     sync.Mutex
	events []string
}

func (tr *trace) add(e string) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	tr.events = append(tr.events, e)
}

func (tr *trace) all() []string {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	return append([]string(nil), tr.events...)
}

// spyLock is a mutex that records Lock and Unlock calls.
type spyLock struct {
	mu    sync.Mutex
	trace *trace
}

func (l *spyLock) Lock() {
	l.mu.Lock()
	l.trace.add("lock")
}

func (l *spyLock) Unlock() {
	l.trace.add("unlock")
	l.mu.Unlock()
}

// recordingTransport records messages and optionally fails.
type recordingTransport struct {
	trace    *trace
	mu       sync.Mutex
	messages []Message
	err      error
}

func (r *recordingTransport) Publish(_ context.Context, msg Message) error {
	r.trace.add("send")

	r.mu.Lock()
	r.messages = append(r.messages, msg)
	r.mu.Unlock()

	return r.err
}

func (r *recordingTransport) sent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Message(nil), r.messages...)
}

// TestGateway_PublishGreeting verifies one send of the fixed payload inside the lock.
func TestGateway_PublishGreeting(t *testing.T) {
	t.Parallel()

	tr := new(trace)
	transport := &recordingTransport{trace: tr}
	g := NewGateway(transport, &spyLock{trace: tr}, "anrg-pi4/robot")

	require.NoError(t, g.PublishGreeting(context.Background()))

	require.Equal(t, []string{"lock", "send", "unlock"}, tr.all())
	require.Equal(t, []Message{{
		Topic:   "anrg-pi4/robot",
		Payload: []byte("hi"),
		QoS:     QoS0,
	}}, transport.sent())
	require.Len(t, transport.sent()[0].Payload, 2)
}

// TestGateway_ErrorReleasesLock verifies the lock is released when the send fails.
func TestGateway_ErrorReleasesLock(t *testing.T) {
	t.Parallel()

	tr := new(trace)
	transport := &recordingTransport{trace: tr, err: errTestBroker}
	g := NewGateway(transport, &spyLock{trace: tr}, "t")

	err := g.PublishGreeting(context.Background())
	require.ErrorIs(t, err, errTestBroker)
	require.Equal(t, []string{"lock", "send", "unlock"}, tr.all())

	// The lock is usable again.
	require.ErrorIs(t, g.PublishGreeting(context.Background()), errTestBroker)
}

// TestGateway_NoTransport verifies a gateway without transport reports an error.
func TestGateway_NoTransport(t *testing.T) {
	t.Parallel()

	g := NewGateway(nil, nil, "t")
	require.Error(t, g.PublishGreeting(context.Background()))
	require.NotNil(t, g.Lock())
	require.Equal(t, "t", g.Topic())
}

// TestGateway_PayloadNotShared verifies callers cannot corrupt the fixed payload.
func TestGateway_PayloadNotShared(t *testing.T) {
	t.Parallel()

	tr := new(trace)
	transport := &recordingTransport{trace: tr}
	g := NewGateway(transport, nil, "t")

	require.NoError(t, g.PublishGreeting(context.Background()))
	transport.sent()[0].Payload[0] = 'X'

	require.NoError(t, g.PublishGreeting(context.Background()))
	require.Equal(t, []byte("hi"), transport.sent()[1].Payload)
}

// TestHeartbeat_SharesLock verifies heartbeats go through the gateway lock on every tick.
func TestHeartbeat_SharesLock(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		tr := new(trace)
		transport := &recordingTransport{trace: tr}
		g := NewGateway(transport, &spyLock{trace: tr}, "robot")
		hb := NewHeartbeat(g, "robot/heartbeat", time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})

		go func() {
			hb.Run(ctx)
			close(done)
		}()

		time.Sleep(3500 * time.Millisecond)
		cancel()
		<-done

		sent := transport.sent()
		require.Len(t, sent, 3)

		for i, msg := range sent {
			require.Equal(t, "robot/heartbeat", msg.Topic)
			require.Equal(t, []byte{byte('1' + i)}, msg.Payload)
		}

		require.Equal(t, []string{
			"lock", "send", "unlock",
			"lock", "send", "unlock",
			"lock", "send", "unlock",
		}, tr.all())
	})
}

// TestHeartbeat_Disabled verifies a zero interval returns immediately.
func TestHeartbeat_Disabled(t *testing.T) {
	t.Parallel()

	hb := NewHeartbeat(NewGateway(LogTransport{}, nil, "t"), "t/hb", 0)
	hb.Run(context.Background())
}

// TestLogTransport verifies the log transport never fails.
func TestLogTransport(t *testing.T) {
	t.Parallel()

	err := LogTransport{}.Publish(context.Background(), Message{Topic: "t", Payload: []byte("hi")})
	require.NoError(t, err)
}
