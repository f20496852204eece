package demo

import (
	"context"
	"fmt"

	"github.com/restmcp/restmcp/internal/registry"
	"github.com/restmcp/restmcp/internal/resource"
)

// TokenAuthenticator resolves "Authorization: Token <key>" headers
// against a static token table.
type TokenAuthenticator struct {
	// Tokens maps token values to subjects.
	Tokens map[string]string
}

func (a *TokenAuthenticator) Authenticate(ctx context.Context, req *resource.Request) (*resource.Identity, error) {
	const prefix = "Token "
	header := req.Header.Get("Authorization")
	if header == "" || len(header) < len(prefix) || header[:len(prefix)] != prefix {
		return nil, nil
	}
	token := header[len(prefix):]
	subject, ok := a.Tokens[token]
	if !ok {
		return nil, resource.AuthenticationFailed("invalid token")
	}
	return &resource.Identity{Subject: subject, Auth: token}, nil
}

func (a *TokenAuthenticator) Challenge() string { return "Token" }

// IsAuthorOrReadOnly allows reads to anyone and writes only to
// authenticated callers; per-object, writes require authorship.
type IsAuthorOrReadOnly struct{}

func isReadAction(action string) bool {
	return action == resource.ActionList || action == resource.ActionRetrieve
}

func (IsAuthorOrReadOnly) HasPermission(ctx context.Context, req *resource.Request) bool {
	return isReadAction(req.Action) || !req.Identity.IsAnonymous()
}

func (IsAuthorOrReadOnly) HasObjectPermission(ctx context.Context, req *resource.Request, obj any) bool {
	if isReadAction(req.Action) {
		return true
	}
	post, ok := obj.(*Post)
	if !ok {
		return false
	}
	return post.Author == req.Identity.Subject
}

// PostHandler exposes the post store with token authentication, an
// author-or-read-only permission, a rate throttle, and a custom
// "publish" action.
type PostHandler struct {
	store    *PostStore
	auth     *TokenAuthenticator
	throttle *resource.RateThrottle
}

// NewPostHandler binds a handler to the store. The authenticator and
// throttle are shared so limits hold across invocations.
func NewPostHandler(store *PostStore, auth *TokenAuthenticator, throttle *resource.RateThrottle) *PostHandler {
	return &PostHandler{store: store, auth: auth, throttle: throttle}
}

func (h *PostHandler) Meta() resource.Meta {
	return resource.Meta{Name: "post"}
}

func (h *PostHandler) Supports(action string) bool {
	return resource.IsStandardAction(action) || action == "publish"
}

func (h *PostHandler) Authenticators() []resource.Authenticator {
	return []resource.Authenticator{h.auth}
}

func (h *PostHandler) Permissions() []resource.Permission {
	return []resource.Permission{IsAuthorOrReadOnly{}}
}

func (h *PostHandler) Throttles() []resource.Throttle {
	return []resource.Throttle{h.throttle}
}

func (h *PostHandler) ToolConfigs() map[string]registry.ToolConfig {
	return map[string]registry.ToolConfig{
		"publish": {
			Detail:      true,
			NoInput:     true,
			Title:       "Publish Post",
			Description: "Publish a post so it becomes publicly visible",
		},
	}
}

func postDescriptor() *resource.Descriptor {
	maxTitle := 200
	return &resource.Descriptor{
		Name: "post",
		Fields: []resource.Field{
			{Name: "id", Kind: resource.KindInteger, ReadOnly: true},
			{Name: "title", Kind: resource.KindString, Required: true, MaxLength: &maxTitle},
			{Name: "content", Kind: resource.KindString, Required: true,
				HelpText: "Body of the post, in plain text"},
			{Name: "author", Kind: resource.KindString, ReadOnly: true,
				HelpText: "Username of the author"},
			{Name: "published", Kind: resource.KindBoolean, ReadOnly: true},
			{Name: "created_at", Kind: resource.KindDateTime, ReadOnly: true},
		},
	}
}

func (h *PostHandler) Serializer(action string) *resource.Descriptor {
	switch action {
	case resource.ActionList:
		return resource.ManyOf(postDescriptor())
	case "publish":
		return nil
	}
	return postDescriptor()
}

func (h *PostHandler) Invoke(ctx context.Context, action string, req *resource.Request) (*resource.Response, error) {
	switch action {
	case resource.ActionList:
		posts := h.store.List()
		if req.FromMCP {
			// Tool callers get summaries; full content comes from retrieve.
			out := make([]map[string]any, 0, len(posts))
			for _, p := range posts {
				out = append(out, map[string]any{
					"id": p.ID, "title": p.Title, "author": p.Author,
					"published": p.Published, "created_at": p.CreatedAt,
				})
			}
			return resource.OK(out), nil
		}
		return resource.OK(posts), nil

	case resource.ActionRetrieve:
		id, resp := h.lookup(req)
		if resp != nil {
			return resp, nil
		}
		p, ok := h.store.Get(id)
		if !ok {
			return resource.NotFound("post not found"), nil
		}
		return resource.OK(p), nil

	case resource.ActionCreate:
		p, errs := postFromBody(req.BodyObject(), nil)
		if errs != nil {
			return resource.BadRequest(errs), nil
		}
		p.Author = req.Identity.Subject
		return resource.Created(h.store.Create(*p)), nil

	case resource.ActionUpdate, resource.ActionPartialUpdate:
		id, resp := h.lookup(req)
		if resp != nil {
			return resp, nil
		}
		existing, ok := h.store.Get(id)
		if !ok {
			return resource.NotFound("post not found"), nil
		}
		if err := resource.CheckObjectPermissions(ctx, req, h.Permissions(), existing); err != nil {
			return nil, err
		}
		base := existing
		if action == resource.ActionUpdate {
			base = &Post{Author: existing.Author, Published: existing.Published}
		}
		p, errs := postFromBody(req.BodyObject(), base)
		if errs != nil {
			return resource.BadRequest(errs), nil
		}
		updated, _ := h.store.Update(id, *p)
		return resource.OK(updated), nil

	case resource.ActionDestroy:
		id, resp := h.lookup(req)
		if resp != nil {
			return resp, nil
		}
		existing, ok := h.store.Get(id)
		if !ok {
			return resource.NotFound("post not found"), nil
		}
		if err := resource.CheckObjectPermissions(ctx, req, h.Permissions(), existing); err != nil {
			return nil, err
		}
		h.store.Delete(id)
		return resource.NoContent(), nil

	case "publish":
		id, resp := h.lookup(req)
		if resp != nil {
			return resp, nil
		}
		existing, ok := h.store.Get(id)
		if !ok {
			return resource.NotFound("post not found"), nil
		}
		if err := resource.CheckObjectPermissions(ctx, req, h.Permissions(), existing); err != nil {
			return nil, err
		}
		p, _ := h.store.Publish(id)
		return resource.OK(p), nil
	}
	return nil, fmt.Errorf("unsupported action %q", action)
}

func (h *PostHandler) lookup(req *resource.Request) (int, *resource.Response) {
	_, kwarg := h.Meta().Lookup()
	id, err := intKwarg(req.Kwargs, kwarg)
	if err != nil {
		return 0, resource.BadRequest(map[string]any{kwarg: err.Error()})
	}
	return id, nil
}

func postFromBody(body map[string]any, base *Post) (*Post, map[string]any) {
	var p Post
	if base != nil {
		p = *base
	}
	errs := map[string]any{}

	if v, ok := body["title"]; ok {
		s, _ := v.(string)
		if s == "" {
			errs["title"] = "this field may not be blank"
		} else if len(s) > 200 {
			errs["title"] = "ensure this field has no more than 200 characters"
		} else {
			p.Title = s
		}
	} else if p.Title == "" {
		errs["title"] = "this field is required"
	}

	if v, ok := body["content"]; ok {
		s, _ := v.(string)
		if s == "" {
			errs["content"] = "this field may not be blank"
		} else {
			p.Content = s
		}
	} else if p.Content == "" {
		errs["content"] = "this field is required"
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return &p, nil
}
