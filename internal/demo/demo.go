// Package demo ships a small pair of resource handlers backed by
// in-memory stores. It exists so the server has working tools out of the
// box and so the end-to-end tests have realistic handlers to drive.
package demo

import (
	"golang.org/x/time/rate"

	"github.com/restmcp/restmcp/internal/registry"
	"github.com/restmcp/restmcp/internal/resource"
)

// DemoTokens are the token table used by the post handler's
// authenticator.
var DemoTokens = map[string]string{
	"alice-token": "alice",
	"bob-token":   "bob",
}

// Register seeds the stores and registers both demo handlers into reg.
func Register(reg *registry.Registry) error {
	customers := NewCustomerStore()
	seedCustomers(customers)

	posts := NewPostStore()
	seedPosts(posts)

	auth := &TokenAuthenticator{Tokens: DemoTokens}
	throttle := resource.NewRateThrottle(rate.Limit(10), 20, "posts")

	if err := reg.Register(func() resource.Handler {
		return NewCustomerHandler(customers)
	}); err != nil {
		return err
	}
	return reg.Register(func() resource.Handler {
		return NewPostHandler(posts, auth, throttle)
	})
}

func seedCustomers(s *CustomerStore) {
	age := 34
	s.Create(Customer{Name: "Ada Lovelace", Email: "ada@example.com", Age: &age, Tier: "pro", Tags: []string{"vip"}})
	s.Create(Customer{Name: "Grace Hopper", Email: "grace@example.com", Tier: "enterprise"})
}

func seedPosts(s *PostStore) {
	s.Create(Post{Title: "Hello, world", Content: "First post.", Author: "alice", Published: true})
	s.Create(Post{Title: "Draft thoughts", Content: "Not ready yet.", Author: "bob"})
}
