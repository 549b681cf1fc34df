// ABOUTME: In-process fake backend speaking the real JSON-RPC protocol over io.Pipe
// ABOUTME: Tests register method handlers, inspect requests, and emit events

package backendtest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/mauromedda/fossintosh-go/internal/backend"
)

// HandlerFunc answers one request. A non-nil *backend.RPCError becomes a
// JSON-RPC error response; otherwise result is sent as the result.
type HandlerFunc func(params json.RawMessage) (any, *backend.RPCError)

// Server is a fake backend process.
type Server struct {
	mu       sync.Mutex
	handlers map[string]HandlerFunc
	requests map[string][]json.RawMessage

	writeMu sync.Mutex
	r       io.ReadCloser
	w       io.WriteCloser

	wg   sync.WaitGroup
	done chan struct{}
}

// New returns a running server and a client-side transport connected to it.
func New() (*Server, *backend.StreamTransport) {
	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()

	s := &Server{
		handlers: make(map[string]HandlerFunc),
		requests: make(map[string][]json.RawMessage),
		r:        reqR,
		w:        respW,
		done:     make(chan struct{}),
	}
	s.wg.Add(1)
	go s.serve()
	return s, backend.NewStreamTransport(respR, reqW)
}

// NewClient starts a server and a backend.Client bound to it, both closed
// when the test ends.
func NewClient(tb testing.TB) (*Server, *backend.Client) {
	tb.Helper()
	s, tr := New()
	c := backend.NewClient(tr, 0)
	tb.Cleanup(func() {
		_ = c.Close()
		_ = s.Close()
	})
	return s, c
}

// Handle registers h for method, replacing any previous handler.
func (s *Server) Handle(method string, h HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method] = h
}

// Reply registers a handler that always returns result.
func (s *Server) Reply(method string, result any) {
	s.Handle(method, func(json.RawMessage) (any, *backend.RPCError) {
		return result, nil
	})
}

// Reject registers a handler that always fails with msg.
func (s *Server) Reject(method, msg string) {
	s.Handle(method, func(json.RawMessage) (any, *backend.RPCError) {
		return nil, backend.NewInternalError(msg)
	})
}

// Requests returns the params received for method, in arrival order.
func (s *Server) Requests(method string) []json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]json.RawMessage(nil), s.requests[method]...)
}

// Emit sends an event notification. It blocks until the client reads it.
func (s *Server) Emit(method string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling %s payload: %w", method, err)
	}
	return s.write(backend.Notification{JSONRPC: "2.0", Method: method, Params: raw})
}

// EmitRaw sends a notification whose params are written verbatim.
func (s *Server) EmitRaw(method string, params []byte) error {
	return s.write(backend.Notification{JSONRPC: "2.0", Method: method, Params: params})
}

// Close stops serving and signals EOF to the client.
func (s *Server) Close() error {
	select {
	case <-s.done:
		return nil
	default:
	}
	close(s.done)
	_ = s.r.Close()
	err := s.w.Close()
	s.wg.Wait()
	return err
}

func (s *Server) serve() {
	defer s.wg.Done()

	scanner := bufio.NewScanner(s.r)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	for scanner.Scan() {
		var req backend.Request
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			_ = s.write(backend.Response{JSONRPC: "2.0", Error: &backend.RPCError{
				Code:    backend.ErrCodeParse,
				Message: fmt.Sprintf("parse error: %v", err),
			}})
			continue
		}

		s.mu.Lock()
		h, ok := s.handlers[req.Method]
		s.requests[req.Method] = append(s.requests[req.Method], req.Params)
		s.mu.Unlock()

		if !ok {
			_ = s.write(backend.Response{JSONRPC: "2.0", ID: req.ID, Error: backend.NewMethodNotFoundError(req.Method)})
			continue
		}

		// Handlers may block (download_app answers on completion).
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.respond(req, h)
		}()
	}
}

func (s *Server) respond(req backend.Request, h HandlerFunc) {
	result, rpcErr := h(req.Params)
	resp := backend.Response{JSONRPC: "2.0", ID: req.ID, Error: rpcErr}
	if rpcErr == nil {
		raw, err := json.Marshal(result)
		if err != nil {
			resp.Error = backend.NewInternalError(err.Error())
		} else {
			resp.Result = raw
		}
	}
	_ = s.write(resp)
}

func (s *Server) write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_, err = s.w.Write(data)
	return err
}
