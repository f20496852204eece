package demo

import (
	"sync"
	"time"
)

// Customer is the demo customer record.
type Customer struct {
	ID    int      `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Age   *int     `json:"age"`
	Tier  string   `json:"tier"`
	Tags  []string `json:"tags"`
}

// CustomerStore is an in-memory customer table. It preserves insertion
// order so list results are stable.
type CustomerStore struct {
	mu     sync.Mutex
	nextID int
	byID   map[int]*Customer
	order  []int
}

// NewCustomerStore creates an empty store.
func NewCustomerStore() *CustomerStore {
	return &CustomerStore{nextID: 1, byID: make(map[int]*Customer)}
}

// List returns all customers in insertion order.
func (s *CustomerStore) List() []*Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Customer, 0, len(s.order))
	for _, id := range s.order {
		c := *s.byID[id]
		out = append(out, &c)
	}
	return out
}

// Get returns the customer with the given id.
func (s *CustomerStore) Get(id int) (*Customer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	out := *c
	return &out, true
}

// Create assigns an id and inserts the customer.
func (s *CustomerStore) Create(c Customer) *Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextID
	s.nextID++
	s.byID[c.ID] = &c
	s.order = append(s.order, c.ID)
	out := c
	return &out
}

// Update replaces the customer with the given id.
func (s *CustomerStore) Update(id int, c Customer) (*Customer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return nil, false
	}
	c.ID = id
	s.byID[id] = &c
	out := c
	return &out, true
}

// Delete removes the customer with the given id.
func (s *CustomerStore) Delete(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Post is the demo blog post record.
type Post struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
}

// PostStore is an in-memory post table.
type PostStore struct {
	mu     sync.Mutex
	nextID int
	byID   map[int]*Post
	order  []int
}

// NewPostStore creates an empty store.
func NewPostStore() *PostStore {
	return &PostStore{nextID: 1, byID: make(map[int]*Post)}
}

// List returns all posts in insertion order.
func (s *PostStore) List() []*Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Post, 0, len(s.order))
	for _, id := range s.order {
		p := *s.byID[id]
		out = append(out, &p)
	}
	return out
}

// Get returns the post with the given id.
func (s *PostStore) Get(id int) (*Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	out := *p
	return &out, true
}

// Create assigns an id and creation time and inserts the post.
func (s *PostStore) Create(p Post) *Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID
	s.nextID++
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	s.byID[p.ID] = &p
	s.order = append(s.order, p.ID)
	out := p
	return &out
}

// Update replaces the post with the given id, keeping its creation time.
func (s *PostStore) Update(id int, p Post) (*Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	p.ID = id
	p.CreatedAt = old.CreatedAt
	s.byID[id] = &p
	out := p
	return &out, true
}

// Delete removes the post with the given id.
func (s *PostStore) Delete(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Publish marks the post published. The second return reports existence.
func (s *PostStore) Publish(id int) (*Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	p.Published = true
	out := *p
	return &out, true
}
