// ABOUTME: Line-delimited JSON-RPC transport over any reader/writer pair
// ABOUTME: Correlates responses by id and back-pressures notifications instead of dropping them

package backend

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/mauromedda/fossintosh-go/internal/log"
)

const maxScannerBuffer = 10 * 1024 * 1024 // 10MB

// Transport abstracts the communication channel for JSON-RPC messages.
type Transport interface {
	// Send sends a request and waits for its response.
	Send(ctx context.Context, req *Request) (*Response, error)
	// Receive returns incoming notifications. The channel is closed when
	// the peer goes away or the transport is closed.
	Receive() <-chan json.RawMessage
	// Close shuts down the transport.
	Close() error
}

// StreamTransport speaks JSON-RPC over a reader/writer pair, one message
// per line.
type StreamTransport struct {
	r       io.ReadCloser
	w       io.WriteCloser
	scanner *bufio.Scanner
	onClose func() error

	writeMu sync.Mutex

	incoming chan json.RawMessage
	pending  map[int64]chan *Response
	mu       sync.Mutex
	nextID   atomic.Int64

	done      chan struct{}
	eof       chan struct{}
	closeOnce sync.Once
}

// NewStreamTransport starts a transport reading responses and notifications
// from r and writing requests to w.
func NewStreamTransport(r io.ReadCloser, w io.WriteCloser) *StreamTransport {
	return newStreamTransport(r, w, nil)
}

func newStreamTransport(r io.ReadCloser, w io.WriteCloser, onClose func() error) *StreamTransport {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxScannerBuffer)

	t := &StreamTransport{
		r:        r,
		w:        w,
		scanner:  scanner,
		onClose:  onClose,
		incoming: make(chan json.RawMessage, 64),
		pending:  make(map[int64]chan *Response),
		done:     make(chan struct{}),
		eof:      make(chan struct{}),
	}

	go t.recvLoop()
	return t
}

// Send sends a request and waits for the response, the context, or the
// transport going away.
func (t *StreamTransport) Send(ctx context.Context, req *Request) (*Response, error) {
	select {
	case <-t.done:
		return nil, ErrClosed
	case <-t.eof:
		return nil, ErrClosed
	default:
	}

	req.JSONRPC = jsonRPCVersion
	if req.ID == 0 {
		req.ID = t.nextID.Add(1)
	}

	ch := make(chan *Response, 1)
	t.mu.Lock()
	t.pending[req.ID] = ch
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		delete(t.pending, req.ID)
		t.mu.Unlock()
	}()

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}
	if err := t.writeLine(data); err != nil {
		return nil, fmt.Errorf("writing request: %w", err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case resp := <-ch:
		return resp, nil
	case <-t.done:
		return nil, ErrClosed
	case <-t.eof:
		// The response may have landed just before the reader stopped.
		select {
		case resp := <-ch:
			return resp, nil
		default:
			return nil, ErrClosed
		}
	}
}

// Notify sends a notification to the peer.
func (t *StreamTransport) Notify(n *Notification) error {
	n.JSONRPC = jsonRPCVersion
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshaling notification: %w", err)
	}
	if err := t.writeLine(data); err != nil {
		return fmt.Errorf("writing notification: %w", err)
	}
	return nil
}

func (t *StreamTransport) writeLine(data []byte) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	data = append(data, '\n')
	_, err := t.w.Write(data)
	return err
}

// Receive returns the channel of incoming notifications.
func (t *StreamTransport) Receive() <-chan json.RawMessage {
	return t.incoming
}

// Close shuts down the transport. It is safe to call more than once.
func (t *StreamTransport) Close() error {
	var closeErr error
	t.closeOnce.Do(func() {
		close(t.done)
		_ = t.w.Close()
		_ = t.r.Close()
		if t.onClose != nil {
			closeErr = t.onClose()
		}
	})
	return closeErr
}

// recvLoop reads messages until EOF or Close. Responses are routed to their
// pending caller; notifications are forwarded in arrival order and block
// the reader while the consumer is behind. Each response records how many
// notifications preceded it on the wire.
func (t *StreamTransport) recvLoop() {
	defer close(t.eof)
	defer close(t.incoming)

	var notified uint64
	for t.scanner.Scan() {
		line := t.scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var env envelope
		if err := json.Unmarshal(line, &env); err != nil {
			log.Warn("backend: undecodable message: %v", err)
			continue
		}

		if env.ID != nil && env.Method == "" {
			var resp Response
			if err := json.Unmarshal(line, &resp); err != nil {
				log.Warn("backend: undecodable response %d: %v", *env.ID, err)
				continue
			}
			resp.after = notified
			t.mu.Lock()
			ch, ok := t.pending[resp.ID]
			t.mu.Unlock()
			if ok {
				ch <- &resp
			} else {
				log.Debug("backend: response for unknown id %d", resp.ID)
			}
			continue
		}

		if env.Method == "" {
			log.Warn("backend: message without method or id ignored")
			continue
		}

		msg := json.RawMessage(append([]byte(nil), line...))
		select {
		case t.incoming <- msg:
			notified++
		case <-t.done:
			return
		}
	}

	if err := t.scanner.Err(); err != nil {
		select {
		case <-t.done:
		default:
			log.Warn("backend: read loop stopped: %v", err)
		}
	}
}
