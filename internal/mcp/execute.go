package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/restmcp/restmcp/internal/config"
	"github.com/restmcp/restmcp/internal/registry"
	"github.com/restmcp/restmcp/internal/resource"
)

// ExecuteTool replays the host framework's request-handling lifecycle for a
// single action call, outside of normal HTTP dispatch: tool calls are
// RPC-style (named action plus structured arguments), not verb-style.
//
// The ordering is part of the contract and short-circuits on failure:
//
//  1. instantiate a fresh handler,
//  2. synthesize an immutable request carrying the body, the ambient
//     identity, and the tool-origin flag,
//  3. run the handler's authenticators (unless bypassed),
//  4. run the handler's permission checks (unless bypassed),
//  5. run throttles,
//  6. resolve the API version,
//  7. invoke the action,
//  8. normalize the response.
//
// Bypassing permissions elides only the coarse pre-dispatch check; object
// level checks the handler performs inside the action body still run.
func ExecuteTool(ctx context.Context, tool *registry.Tool, args CallArguments, ambient resource.Identity, header http.Header, settings *config.Settings) (any, error) {
	handler := tool.Provider()
	if handler == nil {
		return nil, fmt.Errorf("provider for tool %q returned nil handler", tool.Name)
	}

	body, err := decodeBody(args.Body)
	if err != nil {
		return nil, fmt.Errorf("invalid body: %w", err)
	}

	req := resource.NewRequest(tool.Action, body, args.Kwargs, ambient, header)

	req, err = authenticate(ctx, handler, req, settings)
	if err != nil {
		return nil, err
	}

	if !settings.BypassHandlerPermissions {
		if err := checkPermissions(ctx, handler, req, settings); err != nil {
			return nil, err
		}
	}

	if err := checkThrottles(ctx, handler, req); err != nil {
		return nil, err
	}

	req, err = determineVersion(ctx, handler, req)
	if err != nil {
		return nil, err
	}

	if !handler.Supports(tool.Action) {
		return nil, fmt.Errorf("handler %T does not support action %q", handler, tool.Action)
	}

	if tool.Detail {
		_, kwarg := tool.Resource.Lookup()
		if _, ok := req.Kwargs[kwarg]; !ok {
			return nil, fmt.Errorf("missing required parameter %q in kwargs", kwarg)
		}
	}

	resp, err := handler.Invoke(ctx, tool.Action, req)
	if err != nil {
		return nil, err
	}
	return normalize(resp)
}

// decodeBody parses the raw body into an object or array. An absent body
// stays nil.
func decodeBody(raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}
	switch body.(type) {
	case map[string]any, []any, nil:
		return body, nil
	}
	return nil, fmt.Errorf("body must be an object or an array")
}

// authenticate establishes the caller identity on the request. With bypass
// configured the ambient identity from the protocol boundary is preserved;
// otherwise the handler's authenticators replace it, falling back to the
// anonymous identity when none claims the request.
func authenticate(ctx context.Context, handler resource.Handler, req *resource.Request, settings *config.Settings) (*resource.Request, error) {
	if settings.BypassHandlerAuthentication {
		return req, nil
	}

	authed, ok := handler.(resource.Authenticated)
	if !ok {
		return req.WithIdentity(resource.Anonymous), nil
	}

	authenticators := authed.Authenticators()
	for _, a := range authenticators {
		identity, err := a.Authenticate(ctx, req)
		if err != nil {
			if denied, ok := resource.AsDenied(err); ok {
				attachChallenge(denied, authenticators)
				return nil, denied
			}
			return nil, err
		}
		if identity != nil {
			return req.WithIdentity(*identity), nil
		}
	}
	return req.WithIdentity(resource.Anonymous), nil
}

// checkPermissions runs the coarse pre-dispatch permission checks. A denial
// for an anonymous caller facing declared authenticators is a 401 (the
// caller could authenticate); otherwise it is a 403.
func checkPermissions(ctx context.Context, handler resource.Handler, req *resource.Request, settings *config.Settings) error {
	perms, ok := handler.(resource.Permissioned)
	if !ok {
		return nil
	}

	for _, p := range perms.Permissions() {
		if p.HasPermission(ctx, req) {
			continue
		}
		if req.Identity.IsAnonymous() && !settings.BypassHandlerAuthentication && hasAuthenticators(handler) {
			denied := resource.NotAuthenticated("")
			if authed, ok := handler.(resource.Authenticated); ok {
				attachChallenge(denied, authed.Authenticators())
			}
			return denied
		}
		return resource.PermissionDenied("")
	}
	return nil
}

func checkThrottles(ctx context.Context, handler resource.Handler, req *resource.Request) error {
	throttled, ok := handler.(resource.Throttling)
	if !ok {
		return nil
	}
	for _, t := range throttled.Throttles() {
		if err := t.Allow(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

// determineVersion resolves the handler's API versioning scheme;
// pass-through when none is declared.
func determineVersion(ctx context.Context, handler resource.Handler, req *resource.Request) (*resource.Request, error) {
	versioned, ok := handler.(resource.Versioned)
	if !ok {
		return req, nil
	}
	scheme := versioned.Versioning()
	if scheme == nil {
		return req, nil
	}
	version, err := scheme.Determine(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("resolving API version: %w", err)
	}
	return req.WithVersion(version), nil
}

// normalize converts a handler response into a tool result value: error
// statuses become failures carrying the error payload, an empty success
// payload (e.g. after destroy) becomes a generic acknowledgement.
func normalize(resp *resource.Response) (any, error) {
	if resp == nil {
		return map[string]any{"message": "Operation completed successfully"}, nil
	}
	if resp.IsError() {
		payload, err := json.Marshal(resp.Data)
		if err != nil {
			return nil, fmt.Errorf("handler returned error status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("handler returned error: %s", payload)
	}
	if resp.Data == nil {
		return map[string]any{"message": "Operation completed successfully"}, nil
	}
	return resp.Data, nil
}

func hasAuthenticators(handler resource.Handler) bool {
	authed, ok := handler.(resource.Authenticated)
	return ok && len(authed.Authenticators()) > 0
}

// attachChallenge copies the first advertised WWW-Authenticate challenge
// onto a 401-equivalent denial.
func attachChallenge(denied *resource.DeniedError, authenticators []resource.Authenticator) {
	if denied.Status != http.StatusUnauthorized || denied.Header != "" {
		return
	}
	for _, a := range authenticators {
		if challenge := a.Challenge(); challenge != "" {
			denied.Header = challenge
			return
		}
	}
}
