// Package mcptest provides an in-process JSON-RPC client for exercising
// the MCP endpoint in tests.
package mcptest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/restmcp/restmcp/internal/mcp"
)

// Response is a decoded JSON-RPC response with the result left raw so
// tests can unmarshal into whatever shape they assert on.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *mcp.Error      `json:"error"`
	ID      json.RawMessage `json:"id"`
}

// ToolResult mirrors mcp.ToolResult with structured content left raw.
type ToolResult struct {
	Content           []mcp.ContentItem `json:"content"`
	StructuredContent json.RawMessage   `json:"structuredContent"`
	IsError           bool              `json:"isError"`
}

// Client drives an MCP endpoint over a test server.
type Client struct {
	t      *testing.T
	srv    *httptest.Server
	header http.Header
	nextID int
}

// NewClient starts a test server around h and returns a client bound to
// it. The server is shut down when the test finishes.
func NewClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &Client{t: t, srv: srv, header: make(http.Header), nextID: 1}
}

// SetHeader sets a header sent on every subsequent request, e.g. an
// Authorization token.
func (c *Client) SetHeader(key, value string) { c.header.Set(key, value) }

// URL returns the base URL of the underlying test server.
func (c *Client) URL() string { return c.srv.URL }

// Do sends a JSON-RPC request with the given method and params and
// returns the decoded response along with the raw HTTP status code.
func (c *Client) Do(method string, params any) (*Response, int) {
	c.t.Helper()

	id := c.nextID
	c.nextID++

	req := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
	}
	if params != nil {
		req["params"] = params
	}
	body, err := json.Marshal(req)
	if err != nil {
		c.t.Fatalf("marshal request: %v", err)
	}

	resp, status := c.post(body)
	if string(resp.ID) != fmt.Sprint(id) {
		c.t.Fatalf("response id = %s, want %d", resp.ID, id)
	}
	return resp, status
}

// DoRaw posts an arbitrary payload, for exercising malformed requests.
func (c *Client) DoRaw(body []byte) (*Response, int) {
	c.t.Helper()
	return c.post(body)
}

// Notify sends a JSON-RPC notification (no id) and returns the HTTP
// status code.
func (c *Client) Notify(method string) int {
	c.t.Helper()

	body, err := json.Marshal(map[string]any{"jsonrpc": "2.0", "method": method})
	if err != nil {
		c.t.Fatalf("marshal notification: %v", err)
	}
	httpResp := c.send(body)
	defer httpResp.Body.Close()
	return httpResp.StatusCode
}

// Initialize performs the initialize handshake and returns the result.
func (c *Client) Initialize() *mcp.InitializeResult {
	c.t.Helper()

	resp, _ := c.Do("initialize", map[string]any{
		"protocolVersion": mcp.ProtocolVersion,
		"capabilities":    map[string]any{},
		"clientInfo":      map[string]any{"name": "mcptest", "version": "0"},
	})
	if resp.Error != nil {
		c.t.Fatalf("initialize failed: %d %s", resp.Error.Code, resp.Error.Message)
	}
	var result mcp.InitializeResult
	c.unmarshalResult(resp.Result, &result)
	return &result
}

// ListTools calls tools/list and returns the tool descriptions.
func (c *Client) ListTools() []mcp.ToolInfo {
	c.t.Helper()

	resp, _ := c.Do("tools/list", nil)
	if resp.Error != nil {
		c.t.Fatalf("tools/list failed: %d %s", resp.Error.Code, resp.Error.Message)
	}
	var result struct {
		Tools []mcp.ToolInfo `json:"tools"`
	}
	c.unmarshalResult(resp.Result, &result)
	return result.Tools
}

// CallTool invokes a tool with the given kwargs and body and returns the
// tool result. Tool-level failures come back with IsError set; protocol
// errors fail the test.
func (c *Client) CallTool(name string, kwargs map[string]any, body any) *ToolResult {
	c.t.Helper()

	arguments := map[string]any{}
	if kwargs != nil {
		arguments["kwargs"] = kwargs
	}
	if body != nil {
		arguments["body"] = body
	}
	resp, _ := c.Do("tools/call", map[string]any{
		"name":      name,
		"arguments": arguments,
	})
	if resp.Error != nil {
		c.t.Fatalf("tools/call %s failed: %d %s", name, resp.Error.Code, resp.Error.Message)
	}
	var result ToolResult
	c.unmarshalResult(resp.Result, &result)
	return &result
}

func (c *Client) unmarshalResult(raw json.RawMessage, v any) {
	c.t.Helper()
	if err := json.Unmarshal(raw, v); err != nil {
		c.t.Fatalf("unmarshal result: %v (raw: %s)", err, raw)
	}
}

func (c *Client) send(body []byte) *http.Response {
	c.t.Helper()

	httpReq, err := http.NewRequest(http.MethodPost, c.srv.URL+"/mcp", bytes.NewReader(body))
	if err != nil {
		c.t.Fatalf("build request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, vs := range c.header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpResp, err := c.srv.Client().Do(httpReq)
	if err != nil {
		c.t.Fatalf("send request: %v", err)
	}
	return httpResp
}

func (c *Client) post(body []byte) (*Response, int) {
	c.t.Helper()

	httpResp := c.send(body)
	defer httpResp.Body.Close()

	var resp Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		c.t.Fatalf("decode response: %v", err)
	}
	return &resp, httpResp.StatusCode
}
