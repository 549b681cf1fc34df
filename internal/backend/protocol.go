// ABOUTME: JSON-RPC 2.0 envelope types, error codes, and method names for the backend bridge
// ABOUTME: Commands are requests with ids; backend events arrive as notifications

package backend

import (
	"encoding/json"
	"errors"
)

const jsonRPCVersion = "2.0"

// ErrClosed is returned by calls and subscriptions after Close, and by
// pending calls when the backend process goes away.
var ErrClosed = errors.New("backend closed")

// Command methods.
const (
	MethodFetchApps      = "fetch_apps"
	MethodDownloadApp    = "download_app"
	MethodCancelDownload = "cancel_download"
	MethodInstallApp     = "install_app"
)

// Event channels, delivered as notification methods.
const (
	EventDownloadProgress = "download_progress"
	EventDownloadComplete = "download_complete"
	EventInstallProgress  = "install_progress"
	EventInstallComplete  = "install_complete"
)

// Events lists every channel the client consumes.
var Events = []string{
	EventDownloadProgress,
	EventDownloadComplete,
	EventInstallProgress,
	EventInstallComplete,
}

// Standard JSON-RPC 2.0 error codes.
const (
	ErrCodeParse          = -32700
	ErrCodeInvalidReq     = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternal       = -32603
)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`

	// after counts the notifications read before this response.
	after uint64
}

// Notification is a JSON-RPC 2.0 notification (no ID, no response expected).
type Notification struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// envelope is decoded first to tell responses from notifications.
type envelope struct {
	ID     *int64 `json:"id"`
	Method string `json:"method"`
}

// RPCError is a backend rejection. Its message is shown to the user as is.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return e.Message
}

// NewMethodNotFoundError returns an error for an unknown method.
func NewMethodNotFoundError(method string) *RPCError {
	return &RPCError{Code: ErrCodeMethodNotFound, Message: "method not found: " + method}
}

// NewInvalidParamsError returns an error for undecodable params.
func NewInvalidParamsError(msg string) *RPCError {
	return &RPCError{Code: ErrCodeInvalidParams, Message: msg}
}

// NewInternalError returns an error for a handler failure.
func NewInternalError(msg string) *RPCError {
	return &RPCError{Code: ErrCodeInternal, Message: msg}
}

// DownloadParams are the download_app params.
type DownloadParams struct {
	AppID       string `json:"appId"`
	DownloadURL string `json:"downloadUrl"`
}

// CancelParams are the cancel_download params.
type CancelParams struct {
	AppID string `json:"appId"`
}

// InstallParams are the install_app params.
type InstallParams struct {
	AppID    string `json:"appId"`
	FilePath string `json:"filePath"`
}
