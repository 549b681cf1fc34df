// ABOUTME: Backend client issuing catalog/download/install commands over JSON-RPC
// ABOUTME: Fans notifications out per channel name through typed event buses

package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/mauromedda/fossintosh-go/internal/catalog"
	"github.com/mauromedda/fossintosh-go/internal/eventbus"
	"github.com/mauromedda/fossintosh-go/internal/log"
)

// DefaultRequestTimeout bounds short commands (fetch_apps, cancel_download).
// download_app and install_app only answer once the work is done and are
// bounded by the caller's context alone.
const DefaultRequestTimeout = 30 * time.Second

// Client talks to one backend process.
type Client struct {
	transport Transport
	timeout   time.Duration

	mu     sync.Mutex
	buses  map[string]*eventbus.Bus[[]byte]
	closed bool

	// dispatched counts notifications handed to subscribers; drained is
	// set once the transport stops delivering.
	seqMu      sync.Mutex
	seqCond    *sync.Cond
	dispatched uint64
	drained    bool
}

// NewClient creates a client over transport and starts dispatching
// notifications. A non-positive timeout selects DefaultRequestTimeout.
func NewClient(transport Transport, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	c := &Client{
		transport: transport,
		timeout:   timeout,
		buses:     make(map[string]*eventbus.Bus[[]byte]),
	}
	c.seqCond = sync.NewCond(&c.seqMu)
	go c.dispatch()
	return c
}

// FetchApps requests the full catalog.
func (c *Client) FetchApps(ctx context.Context) ([]catalog.App, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var apps []catalog.App
	if err := c.call(ctx, MethodFetchApps, nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// DownloadApp asks the backend to download an item. The returned text is
// the backend's acknowledgement.
func (c *Client) DownloadApp(ctx context.Context, appID, downloadURL string) (string, error) {
	return c.callText(ctx, MethodDownloadApp, DownloadParams{AppID: appID, DownloadURL: downloadURL})
}

// CancelDownload asks the backend to cancel an in-flight download.
func (c *Client) CancelDownload(ctx context.Context, appID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.callText(ctx, MethodCancelDownload, CancelParams{AppID: appID})
}

// InstallApp asks the backend to install a downloaded artifact.
func (c *Client) InstallApp(ctx context.Context, appID, filePath string) (string, error) {
	return c.callText(ctx, MethodInstallApp, InstallParams{AppID: appID, FilePath: filePath})
}

// Subscribe registers fn for raw payloads of the named event channel and
// returns an unsubscribe function. It fails with ErrClosed after Close.
func (c *Client) Subscribe(name string, fn func([]byte)) (func(), error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	bus, ok := c.buses[name]
	if !ok {
		bus = eventbus.New[[]byte]()
		c.buses[name] = bus
	}
	c.mu.Unlock()

	unsub, err := bus.Subscribe(fn)
	if err != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", name, ErrClosed)
	}
	return unsub, nil
}

// Close stops event delivery and shuts down the transport.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	buses := c.buses
	c.buses = nil
	c.mu.Unlock()

	for _, b := range buses {
		b.Close()
	}
	return c.transport.Close()
}

func (c *Client) callText(ctx context.Context, method string, params any) (string, error) {
	var raw json.RawMessage
	if err := c.call(ctx, method, params, &raw); err != nil {
		return "", err
	}
	var text string
	if len(raw) > 0 && json.Unmarshal(raw, &text) != nil {
		// Non-string acknowledgements are passed through verbatim.
		text = string(raw)
	}
	return text, nil
}

// call sends method with params and decodes the result into out. Backend
// rejections are returned as *RPCError without wrapping.
func (c *Client) call(ctx context.Context, method string, params, out any) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrClosed
	}

	req := &Request{Method: method}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("marshaling %s params: %w", method, err)
		}
		req.Params = raw
	}

	log.Debug("backend: -> %s %s", method, req.Params)
	resp, err := c.transport.Send(ctx, req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	// Events the backend sent before answering reach subscribers before
	// the caller sees the answer.
	c.waitDispatched(resp.after)
	if resp.Error != nil {
		log.Debug("backend: <- %s rejected: %s", method, resp.Error.Message)
		return resp.Error
	}
	if out == nil || len(resp.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("parsing %s result: %w", method, err)
	}
	return nil
}

// dispatch publishes each notification to the bus of its method. Handlers
// run on this goroutine in arrival order and must not issue commands.
func (c *Client) dispatch() {
	defer func() {
		c.seqMu.Lock()
		c.drained = true
		c.seqMu.Unlock()
		c.seqCond.Broadcast()
	}()

	for msg := range c.transport.Receive() {
		c.publish(msg)

		c.seqMu.Lock()
		c.dispatched++
		c.seqMu.Unlock()
		c.seqCond.Broadcast()
	}
}

func (c *Client) publish(msg json.RawMessage) {
	var n Notification
	if err := json.Unmarshal(msg, &n); err != nil {
		log.Warn("backend: undecodable notification: %v", err)
		return
	}

	c.mu.Lock()
	bus := c.buses[n.Method]
	c.mu.Unlock()

	if bus == nil {
		log.Debug("backend: no subscriber for %s", n.Method)
		return
	}
	bus.Publish([]byte(n.Params))
}

// waitDispatched blocks until n notifications have been published or the
// transport has stopped delivering.
func (c *Client) waitDispatched(n uint64) {
	c.seqMu.Lock()
	defer c.seqMu.Unlock()
	for c.dispatched < n && !c.drained {
		c.seqCond.Wait()
	}
}
