package demo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/restmcp/restmcp/internal/resource"
)

// CustomerHandler exposes the customer store through the six standard
// actions. It declares no authentication, permissions, or throttles, so
// its tools are open to every caller.
type CustomerHandler struct {
	store *CustomerStore
}

// NewCustomerHandler binds a handler to the store.
func NewCustomerHandler(store *CustomerStore) *CustomerHandler {
	return &CustomerHandler{store: store}
}

func (h *CustomerHandler) Meta() resource.Meta {
	return resource.Meta{Name: "customer"}
}

func (h *CustomerHandler) Supports(action string) bool {
	return resource.IsStandardAction(action)
}

// customerDescriptor describes the customer shape. It exercises most of
// the field kinds so the generated schemas show the full constraint
// surface.
func customerDescriptor() *resource.Descriptor {
	maxName := 100
	minAge, maxAge := 0.0, 150.0
	return &resource.Descriptor{
		Name: "customer",
		Fields: []resource.Field{
			{Name: "id", Kind: resource.KindInteger, ReadOnly: true},
			{Name: "name", Kind: resource.KindString, Required: true, MaxLength: &maxName,
				HelpText: "Full name of the customer"},
			{Name: "email", Kind: resource.KindEmail, Required: true},
			{Name: "age", Kind: resource.KindInteger, AllowNull: true,
				MinValue: &minAge, MaxValue: &maxAge},
			{Name: "tier", Kind: resource.KindChoice, Default: "free",
				Choices: []resource.Choice{
					{Value: "free", Display: "Free"},
					{Value: "pro", Display: "Professional"},
					{Value: "enterprise", Display: "Enterprise"},
				}},
			{Name: "tags", Kind: resource.KindList,
				Child: &resource.Field{Kind: resource.KindString}},
		},
	}
}

func (h *CustomerHandler) Serializer(action string) *resource.Descriptor {
	d := customerDescriptor()
	if action == resource.ActionList {
		return resource.ManyOf(d)
	}
	return d
}

func (h *CustomerHandler) Invoke(ctx context.Context, action string, req *resource.Request) (*resource.Response, error) {
	switch action {
	case resource.ActionList:
		return resource.OK(h.store.List()), nil

	case resource.ActionRetrieve:
		id, resp := h.lookup(req)
		if resp != nil {
			return resp, nil
		}
		c, ok := h.store.Get(id)
		if !ok {
			return resource.NotFound("customer not found"), nil
		}
		return resource.OK(c), nil

	case resource.ActionCreate:
		c, errs := customerFromBody(req.BodyObject(), nil)
		if errs != nil {
			return resource.BadRequest(errs), nil
		}
		return resource.Created(h.store.Create(*c)), nil

	case resource.ActionUpdate, resource.ActionPartialUpdate:
		id, resp := h.lookup(req)
		if resp != nil {
			return resp, nil
		}
		existing, ok := h.store.Get(id)
		if !ok {
			return resource.NotFound("customer not found"), nil
		}
		base := existing
		if action == resource.ActionUpdate {
			base = nil // full update starts from scratch
		}
		c, errs := customerFromBody(req.BodyObject(), base)
		if errs != nil {
			return resource.BadRequest(errs), nil
		}
		updated, _ := h.store.Update(id, *c)
		return resource.OK(updated), nil

	case resource.ActionDestroy:
		id, resp := h.lookup(req)
		if resp != nil {
			return resp, nil
		}
		if !h.store.Delete(id) {
			return resource.NotFound("customer not found"), nil
		}
		return resource.NoContent(), nil
	}
	return nil, fmt.Errorf("unsupported action %q", action)
}

// lookup extracts the integer pk from kwargs. A non-nil response is the
// error to return.
func (h *CustomerHandler) lookup(req *resource.Request) (int, *resource.Response) {
	_, kwarg := h.Meta().Lookup()
	id, err := intKwarg(req.Kwargs, kwarg)
	if err != nil {
		return 0, resource.BadRequest(map[string]any{kwarg: err.Error()})
	}
	return id, nil
}

// customerFromBody validates the body against the customer shape. When
// base is non-nil, absent fields keep the base value (partial update).
// A non-nil map return lists the per-field validation errors.
func customerFromBody(body map[string]any, base *Customer) (*Customer, map[string]any) {
	var c Customer
	if base != nil {
		c = *base
	} else {
		c.Tier = "free"
	}
	errs := map[string]any{}

	if v, ok := body["name"]; ok {
		s, _ := v.(string)
		if s == "" {
			errs["name"] = "this field may not be blank"
		} else {
			c.Name = s
		}
	} else if base == nil && c.Name == "" {
		errs["name"] = "this field is required"
	}

	if v, ok := body["email"]; ok {
		s, _ := v.(string)
		if !strings.Contains(s, "@") {
			errs["email"] = "enter a valid email address"
		} else {
			c.Email = s
		}
	} else if base == nil && c.Email == "" {
		errs["email"] = "this field is required"
	}

	if v, ok := body["age"]; ok {
		if v == nil {
			c.Age = nil
		} else if n, ok := v.(float64); ok && n >= 0 && n <= 150 {
			age := int(n)
			c.Age = &age
		} else {
			errs["age"] = "must be an integer between 0 and 150"
		}
	}

	if v, ok := body["tier"]; ok {
		s, _ := v.(string)
		switch s {
		case "free", "pro", "enterprise":
			c.Tier = s
		default:
			errs["tier"] = fmt.Sprintf("%q is not a valid choice", v)
		}
	}

	if v, ok := body["tags"]; ok {
		items, ok := v.([]any)
		if !ok {
			errs["tags"] = "must be a list of strings"
		} else {
			tags := make([]string, 0, len(items))
			for _, item := range items {
				s, ok := item.(string)
				if !ok {
					errs["tags"] = "must be a list of strings"
					break
				}
				tags = append(tags, s)
			}
			if _, failed := errs["tags"]; !failed {
				c.Tags = tags
			}
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return &c, nil
}

// intKwarg reads an integer kwarg, accepting the string form the
// generated schemas produce as well as raw numbers.
func intKwarg(kwargs map[string]any, key string) (int, error) {
	v, ok := kwargs[key]
	if !ok {
		return 0, fmt.Errorf("missing %s", key)
	}
	switch n := v.(type) {
	case string:
		id, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("invalid %s %q", key, n)
		}
		return id, nil
	case float64:
		return int(n), nil
	case int:
		return n, nil
	}
	return 0, fmt.Errorf("invalid %s type %T", key, v)
}
