package mcp

import "encoding/json"

// ProtocolVersion is the MCP protocol revision this endpoint negotiates.
const ProtocolVersion = "2025-06-18"

// JSON-RPC 2.0 error codes used by the endpoint. InvalidRequest doubles as
// the boundary-level code for authentication/permission denial.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInternalError  = -32603
)

// Request is one JSON-RPC 2.0 envelope. A nil ID marks a notification: no
// response body is expected and the transport acknowledges with 204.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
}

// IsNotification reports whether the envelope carries no identifier.
func (r *Request) IsNotification() bool { return len(r.ID) == 0 }

// Response is a JSON-RPC 2.0 response envelope. Exactly one of Result and
// Error is set. A nil ID serializes as null (used for parse errors, where
// no identifier could be read).
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
	ID      json.RawMessage `json:"id"`
}

// Error is the JSON-RPC error object.
type Error struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// InitializeResult is the static capability payload of the initialize
// method. Tool calling (without listChanged notifications) is the only
// capability this endpoint supports.
type InitializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    Capabilities `json:"capabilities"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
}

// Capabilities advertises the supported protocol features.
type Capabilities struct {
	Tools struct{} `json:"tools"`
}

// ServerInfo identifies the endpoint implementation.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ListToolsResult is the tools/list payload.
type ListToolsResult struct {
	Tools []ToolInfo `json:"tools"`
}

// ToolInfo describes one discoverable tool.
type ToolInfo struct {
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description"`
	InputSchema any    `json:"inputSchema"`
}

// CallParams are the parameters of a tools/call request.
type CallParams struct {
	Name      string        `json:"name"`
	Arguments CallArguments `json:"arguments"`
}

// CallArguments split a tool invocation into path-like parameters and the
// request payload.
type CallArguments struct {
	// Kwargs address a specific resource instance (e.g. {"pk": "42"}).
	Kwargs map[string]any `json:"kwargs,omitempty"`

	// Body is the payload: an object or an array.
	Body json.RawMessage `json:"body,omitempty"`
}

// ToolResult is the tools/call result payload. Tool-level failures set
// IsError and describe the failure in Content; they still travel inside a
// protocol-level success envelope.
type ToolResult struct {
	Content           []ContentItem `json:"content"`
	StructuredContent any           `json:"structuredContent,omitempty"`
	IsError           bool          `json:"isError,omitempty"`
}

// ContentItem is one entry of a tool result's content array.
type ContentItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// errorResult wraps a failure description as a tool-level error result.
func errorResult(text string) *ToolResult {
	return &ToolResult{
		Content: []ContentItem{{Type: "text", Text: text}},
		IsError: true,
	}
}
