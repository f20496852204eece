// Package mcp terminates the MCP wire protocol over a single POST endpoint
// and bridges it onto registered resource handlers.
//
// The endpoint speaks JSON-RPC 2.0 and supports exactly four methods:
// initialize, notifications/initialized, tools/list, and tools/call. The
// wider transport/session-negotiation surface of the protocol is out of
// scope; the host's normal routing continues to operate in parallel.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/restmcp/restmcp/internal/config"
	"github.com/restmcp/restmcp/internal/log"
	"github.com/restmcp/restmcp/internal/registry"
	"github.com/restmcp/restmcp/internal/resource"
	"github.com/restmcp/restmcp/internal/schema"
)

// Handler is the MCP HTTP endpoint. It is stateless across exchanges: each
// request is parsed, dispatched, and answered independently.
type Handler struct {
	registry *registry.Registry
	store    *config.Store
	logger   log.Logger

	// Boundary-level authentication for the endpoint itself, before any
	// tool is resolved. Empty by default: authentication normally belongs
	// to the handlers, not the endpoint.
	authenticators []resource.Authenticator
	permissions    []resource.Permission
}

// HandlerOption customizes a Handler.
type HandlerOption func(*Handler)

// WithBoundaryAuth installs endpoint-level authenticators.
func WithBoundaryAuth(authenticators ...resource.Authenticator) HandlerOption {
	return func(h *Handler) { h.authenticators = authenticators }
}

// WithBoundaryPermissions installs endpoint-level permission checks.
func WithBoundaryPermissions(permissions ...resource.Permission) HandlerOption {
	return func(h *Handler) { h.permissions = permissions }
}

// NewHandler creates the MCP endpoint over the given registry and settings
// store.
func NewHandler(reg *registry.Registry, store *config.Store, logger log.Logger, opts ...HandlerOption) *Handler {
	h := &Handler{registry: reg, store: store, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP handles one JSON-RPC exchange.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	settings := h.store.Current()

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// No identifier could be read from a malformed envelope.
		h.writeError(w, settings, nil, CodeParseError, "Parse error", nil, http.StatusOK, "")
		return
	}

	// Every failure past parsing is converted into a protocol error; the
	// endpoint itself never crashes an exchange.
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("panic during MCP dispatch", "method", req.Method, "panic", rec)
			h.writeError(w, settings, req.ID, CodeInternalError,
				fmt.Sprintf("Internal error: %v", rec), nil, http.StatusOK, "")
		}
	}()

	identity, err := h.boundaryAuth(r.Context(), &req, r)
	if err != nil {
		h.writeBoundaryError(w, settings, req.ID, err)
		return
	}

	switch req.Method {
	case "initialize":
		h.writeResult(w, req.ID, h.initializeResult(settings))

	case "notifications/initialized":
		// One-way acknowledgement of the initialize handshake; no
		// response body is expected.
		w.WriteHeader(http.StatusNoContent)

	case "tools/list":
		result, err := h.listTools()
		if err != nil {
			h.logger.Error("tools/list failed", "error", err)
			h.writeError(w, settings, req.ID, CodeInternalError,
				fmt.Sprintf("Internal error: %v", err), nil, http.StatusOK, "")
			return
		}
		h.writeResult(w, req.ID, result)

	case "tools/call":
		h.writeResult(w, req.ID, h.callTool(r.Context(), req.Params, identity, r.Header, settings))

	default:
		h.writeError(w, settings, req.ID, CodeMethodNotFound,
			fmt.Sprintf("Method not found: %s", req.Method), nil, http.StatusOK, "")
	}
}

// initializeResult is the static capability/version negotiation payload.
func (h *Handler) initializeResult(settings *config.Settings) InitializeResult {
	return InitializeResult{
		ProtocolVersion: ProtocolVersion,
		ServerInfo: ServerInfo{
			Name:    settings.ServerName,
			Version: settings.ServerVersion,
		},
	}
}

// listTools enumerates the registry, building an input schema per tool.
func (h *Handler) listTools() (*ListToolsResult, error) {
	tools := h.registry.GetAll()
	result := &ListToolsResult{Tools: make([]ToolInfo, 0, len(tools))}

	for _, tool := range tools {
		inputSchema, err := schema.ToolInputSchema(tool)
		if err != nil {
			return nil, fmt.Errorf("building schema for tool %q: %w", tool.Name, err)
		}
		result.Tools = append(result.Tools, ToolInfo{
			Name:        tool.Name,
			Title:       tool.Title,
			Description: tool.Description,
			InputSchema: inputSchema,
		})
	}
	return result, nil
}

// callTool resolves and executes a tool. An unknown tool name is a
// tool-level error inside a success envelope, not a protocol error: the
// round-trip succeeded, the caller just named a tool that does not exist.
// Execution failures, including handler-level authentication and permission
// denials, are surfaced the same way.
func (h *Handler) callTool(ctx context.Context, params json.RawMessage, ambient resource.Identity, header http.Header, settings *config.Settings) *ToolResult {
	var call CallParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &call); err != nil {
			return errorResult(fmt.Sprintf("Error executing tool: invalid params: %v", err))
		}
	}

	if call.Name == "" {
		return errorResult("Error executing tool: tool name is required")
	}

	tool, ok := h.registry.GetByName(call.Name)
	if !ok {
		return errorResult(fmt.Sprintf("Tool not found: %s", call.Name))
	}

	value, err := ExecuteTool(ctx, tool, call.Arguments, ambient, header, settings)
	if err != nil {
		h.logger.Debug("tool execution failed", "tool", call.Name, "error", err)
		return errorResult(fmt.Sprintf("Error executing tool: %v", err))
	}

	text, err := json.Marshal(value)
	if err != nil {
		// Not JSON-serializable: fall back to the string form and skip
		// structuredContent.
		return &ToolResult{
			Content: []ContentItem{{Type: "text", Text: fmt.Sprint(value)}},
		}
	}

	return &ToolResult{
		Content:           []ContentItem{{Type: "text", Text: string(text)}},
		StructuredContent: value,
	}
}

// boundaryAuth runs the endpoint-level authenticators and permission checks
// against the raw HTTP request, before any tool is resolved. With no
// boundary classes configured (the default) it returns the anonymous
// identity.
func (h *Handler) boundaryAuth(ctx context.Context, req *Request, r *http.Request) (resource.Identity, error) {
	// The boundary checks see a minimal request view carrying only the
	// transport headers.
	view := resource.NewRequest(req.Method, nil, nil, resource.Anonymous, r.Header)

	identity := resource.Anonymous
	authenticated := false
	for _, a := range h.authenticators {
		id, err := a.Authenticate(ctx, view)
		if err != nil {
			if denied, ok := resource.AsDenied(err); ok {
				attachChallenge(denied, h.authenticators)
				return resource.Anonymous, denied
			}
			return resource.Anonymous, err
		}
		if id != nil {
			identity = *id
			authenticated = true
			break
		}
	}
	if len(h.authenticators) > 0 && !authenticated {
		denied := resource.NotAuthenticated("")
		attachChallenge(denied, h.authenticators)
		return resource.Anonymous, denied
	}

	view = view.WithIdentity(identity)
	for _, p := range h.permissions {
		if !p.HasPermission(ctx, view) {
			return resource.Anonymous, resource.PermissionDenied("")
		}
	}
	return identity, nil
}

// writeBoundaryError maps a denial onto the boundary-level InvalidRequest
// code, embedding the HTTP-equivalent status; anything else is an internal
// error.
func (h *Handler) writeBoundaryError(w http.ResponseWriter, settings *config.Settings, id json.RawMessage, err error) {
	if denied, ok := resource.AsDenied(err); ok {
		data := map[string]any{"status_code": denied.Status}
		if denied.Header != "" {
			data["www_authenticate"] = denied.Header
		}
		h.writeError(w, settings, id, CodeInvalidRequest, denied.Message, data, denied.Status, denied.Header)
		return
	}
	h.writeError(w, settings, id, CodeInternalError, fmt.Sprintf("Internal error: %v", err), nil, http.StatusOK, "")
}

// writeResult writes a JSON-RPC success envelope.
func (h *Handler) writeResult(w http.ResponseWriter, id json.RawMessage, result any) {
	h.writeJSON(w, http.StatusOK, Response{JSONRPC: "2.0", Result: result, ID: id})
}

// writeError writes a JSON-RPC error envelope. The HTTP status collapses to
// 200 in compatibility mode, moving error signaling entirely into the body.
func (h *Handler) writeError(w http.ResponseWriter, settings *config.Settings, id json.RawMessage, code int, message string, data map[string]any, status int, challenge string) {
	if settings.Return200ForErrors {
		status = http.StatusOK
	}
	if challenge != "" {
		w.Header().Set("WWW-Authenticate", challenge)
	}
	h.writeJSON(w, status, Response{
		JSONRPC: "2.0",
		Error:   &Error{Code: code, Message: message, Data: data},
		ID:      id,
	})
}

// writeJSON writes a JSON body. Encoding failures after WriteHeader cannot
// reach the client; they are logged instead.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode JSON response", "error", err)
	}
}
