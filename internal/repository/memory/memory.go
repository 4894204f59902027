// Package memory keeps all records in process memory. It backs STORE_DRIVER=memory
// for local runs and the end-to-end handler tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"docflow/internal/model"
	"docflow/internal/repository"
)

// Store holds users, documents and payments behind one lock.
type Store struct {
	mu       sync.RWMutex
	seq      int64
	users    map[string]entry[model.User]
	docs     map[string]entry[model.Document]
	payments map[string]entry[model.Payment]
}

// entry remembers insertion order so pages are stable even with equal timestamps.
type entry[T any] struct {
	seq int64
	val T
}

func New() *Store {
	return &Store{
		users:    make(map[string]entry[model.User]),
		docs:     make(map[string]entry[model.Document]),
		payments: make(map[string]entry[model.Payment]),
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Users() *Users         { return &Users{s: s} }
func (s *Store) Documents() *Documents { return &Documents{s: s} }
func (s *Store) Payments() *Payments   { return &Payments{s: s} }

func (s *Store) next() int64 {
	s.seq++
	return s.seq
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// ascending returns the matching values in insertion order.
func ascending[T any](m map[string]entry[T], keep func(T) bool) []T {
	es := make([]entry[T], 0, len(m))
	for _, e := range m {
		if keep(e.val) {
			es = append(es, e)
		}
	}
	sort.Slice(es, func(i, j int) bool { return es[i].seq < es[j].seq })
	out := make([]T, 0, len(es))
	for _, e := range es {
		out = append(out, e.val)
	}
	return out
}

// descending returns the matching values newest first.
func descending[T any](m map[string]entry[T], keep func(T) bool) []T {
	out := ascending(m, keep)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func page[T any](all []T, pq repository.PageQuery) *repository.PageResult[T] {
	n := pq.Normalize()
	start := pq.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + n.Limit
	if end > len(all) {
		end = len(all)
	}
	items := make([]T, end-start)
	copy(items, all[start:end])
	return &repository.PageResult[T]{Items: items, Total: len(all)}
}

// Users implements repository.UserRepository.
type Users struct{ s *Store }

var _ repository.UserRepository = (*Users)(nil)

func (r *Users) Create(_ context.Context, u *model.User) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.users {
		if e.val.Email == u.Email {
			return nil, repository.ErrDuplicate
		}
	}
	out := *u
	r.s.users[u.ID] = entry[model.User]{seq: r.s.next(), val: out}
	return &out, nil
}

func (r *Users) FindByID(_ context.Context, id string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := e.val
	return &out, nil
}

func (r *Users) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, e := range r.s.users {
		if e.val.Email == email {
			out := e.val
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Users) FindMany(_ context.Context, f repository.UserFilter, pq repository.PageQuery) (*repository.PageResult[model.User], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := ascending(r.s.users, func(u model.User) bool {
		return (f.Name == "" || containsFold(u.Name, f.Name)) && (f.Email == "" || u.Email == f.Email)
	})
	return page(all, pq), nil
}

// Documents implements repository.DocumentRepository.
type Documents struct{ s *Store }

var _ repository.DocumentRepository = (*Documents)(nil)

func (r *Documents) Create(_ context.Context, d *model.Document) (*model.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.docs {
		if e.val.UserID == d.UserID && e.val.Title == d.Title {
			return nil, repository.ErrDuplicate
		}
	}
	out := *d
	r.s.docs[d.ID] = entry[model.Document]{seq: r.s.next(), val: out}
	return &out, nil
}

func (r *Documents) FindByID(_ context.Context, id string) (*model.Document, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := e.val
	return &out, nil
}

func (r *Documents) FindMany(_ context.Context, f repository.DocumentFilter, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := ascending(r.s.docs, func(d model.Document) bool {
		return (f.Title == "" || containsFold(d.Title, f.Title)) && (f.Status == "" || d.Status == f.Status)
	})
	return page(all, pq), nil
}

func (r *Documents) UpdateStatus(_ context.Context, id string, status model.Status) (*model.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	e.val.Status = status
	e.val.UpdatedAt = time.Now().UTC()
	r.s.docs[id] = e
	out := e.val
	return &out, nil
}

func (r *Documents) ListByOwner(_ context.Context, ownerID string) ([]model.Document, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return descending(r.s.docs, func(d model.Document) bool { return d.UserID == ownerID }), nil
}

// Payments implements repository.PaymentRepository.
type Payments struct{ s *Store }

var _ repository.PaymentRepository = (*Payments)(nil)

func (r *Payments) Create(_ context.Context, p *model.Payment) (*model.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.payments {
		if e.val.UserID == p.UserID && e.val.Title == p.Title {
			return nil, repository.ErrDuplicate
		}
	}
	out := *p
	r.s.payments[p.ID] = entry[model.Payment]{seq: r.s.next(), val: out}
	return &out, nil
}

func (r *Payments) FindByID(_ context.Context, id string) (*model.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := e.val
	return &out, nil
}

func (r *Payments) FindByOwnerTitle(_ context.Context, ownerID, title string) (*model.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, e := range r.s.payments {
		if e.val.UserID == ownerID && e.val.Title == title {
			out := e.val
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Payments) FindMany(_ context.Context, f repository.PaymentFilter, pq repository.PageQuery) (*repository.PageResult[model.Payment], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := ascending(r.s.payments, func(p model.Payment) bool {
		return (f.Title == "" || containsFold(p.Title, f.Title)) &&
			(f.Status == "" || p.Status == f.Status) &&
			(f.Amount == nil || p.Amount == *f.Amount)
	})
	return page(all, pq), nil
}

func (r *Payments) UpdateStatus(_ context.Context, id string, status model.Status) (*model.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	e.val.Status = status
	e.val.UpdatedAt = time.Now().UTC()
	r.s.payments[id] = e
	out := e.val
	return &out, nil
}

func (r *Payments) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.payments, id)
	return nil
}

func (r *Payments) ListByOwner(_ context.Context, ownerID string) ([]model.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return descending(r.s.payments, func(p model.Payment) bool { return p.UserID == ownerID }), nil
}
