// Package memory implements the repository ports in memory for development
// and testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"m-cosmetics/internal/domain"
	"m-cosmetics/internal/repository"
)

// DB holds products and users behind a single mutex.
type DB struct {
	mu       sync.Mutex
	products []*domain.Product
	users    []*domain.User

	productIDCounter int64
	userIDCounter    int64

	now func() time.Time
}

// New creates an empty in-memory database.
func New() *DB {
	return &DB{now: time.Now}
}

// Ensure interfaces are met.
var _ repository.ProductRepository = (*ProductRepo)(nil)
var _ repository.UserRepository = (*UserRepo)(nil)
var _ repository.SessionStore = (*SessionStore)(nil)

// Products returns a ProductRepository view of the database.
func (db *DB) Products() *ProductRepo {
	return &ProductRepo{db: db}
}

// Users returns a UserRepository view of the database.
func (db *DB) Users() *UserRepo {
	return &UserRepo{db: db}
}

// --- ProductRepository ---

// ProductRepo implements repository.ProductRepository.
type ProductRepo struct {
	db *DB
}

func copyProduct(p *domain.Product) *domain.Product {
	c := *p
	return &c
}

func (r *ProductRepo) Create(ctx context.Context, product *domain.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.productIDCounter++
	now := r.db.now().UTC()
	product.ID = r.db.productIDCounter
	product.CreatedAt = now
	product.UpdatedAt = now

	r.db.products = append(r.db.products, copyProduct(product))
	return nil
}

func (r *ProductRepo) Update(ctx context.Context, product *domain.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i, p := range r.db.products {
		if p.ID == product.ID {
			product.CreatedAt = p.CreatedAt
			product.UpdatedAt = r.db.now().UTC()
			r.db.products[i] = copyProduct(product)
			return nil
		}
	}
	return domain.ErrProductNotFound
}

func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i, p := range r.db.products {
		if p.ID == id {
			r.db.products = append(r.db.products[:i], r.db.products[i+1:]...)
			return nil
		}
	}
	return domain.ErrProductNotFound
}

func (r *ProductRepo) DeleteAll(ctx context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	n := int64(len(r.db.products))
	r.db.products = nil
	return n, nil
}

func (r *ProductRepo) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, p := range r.db.products {
		if p.ID == id {
			return copyProduct(p), nil
		}
	}
	return nil, domain.ErrProductNotFound
}

// List returns products in insertion order, which is also id order here.
func (r *ProductRepo) List(ctx context.Context, offset, limit int) ([]*domain.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	return window(r.db.products, offset, limit, copyProduct), nil
}

func (r *ProductRepo) Recent(ctx context.Context, limit int) ([]*domain.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	sorted := make([]*domain.Product, len(r.db.products))
	copy(sorted, r.db.products)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ID > sorted[j].ID
	})
	return window(sorted, 0, limit, copyProduct), nil
}

func (r *ProductRepo) Count(ctx context.Context) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	return len(r.db.products), nil
}

func (r *ProductRepo) CountByStock(ctx context.Context, inStock bool) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	n := 0
	for _, p := range r.db.products {
		if p.InStock == inStock {
			n++
		}
	}
	return n, nil
}

// --- UserRepository ---

// UserRepo implements repository.UserRepository.
type UserRepo struct {
	db *DB
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	if u.LastLogin != nil {
		t := *u.LastLogin
		c.LastLogin = &t
	}
	return &c
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.Email == user.Email {
			return repository.ErrEmailTaken
		}
		if u.Username == user.Username {
			return repository.ErrUsernameTaken
		}
	}

	r.db.userIDCounter++
	user.ID = r.db.userIDCounter
	if user.DateJoined.IsZero() {
		user.DateJoined = r.db.now().UTC()
	}
	r.db.users = append(r.db.users, copyUser(user))
	return nil
}

func (r *UserRepo) find(match func(*domain.User) bool) (*domain.User, error) {
	for _, u := range r.db.users {
		if match(u) {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, err := r.find(func(u *domain.User) bool { return u.ID == id })
	if err != nil {
		return nil, err
	}
	return copyUser(u), nil
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, err := r.find(func(u *domain.User) bool { return u.Username == username })
	if err != nil {
		return nil, err
	}
	return copyUser(u), nil
}

func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	_, err := r.find(func(u *domain.User) bool { return u.Email == email })
	return err == nil, nil
}

func (r *UserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	_, err := r.find(func(u *domain.User) bool { return u.Username == username })
	return err == nil, nil
}

func (r *UserRepo) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	return window(r.db.users, offset, limit, copyUser), nil
}

func (r *UserRepo) Count(ctx context.Context) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	return len(r.db.users), nil
}

func (r *UserRepo) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, err := r.find(func(u *domain.User) bool { return u.ID == id })
	if err != nil {
		return err
	}
	at = at.UTC()
	u.LastLogin = &at
	return nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, err := r.find(func(u *domain.User) bool { return u.ID == id })
	if err != nil {
		return err
	}
	u.PasswordHash = passwordHash
	return nil
}

// --- SessionStore ---

// SessionStore implements repository.SessionStore.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
}

// NewSessionStore creates an empty in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]domain.Session)}
}

func (s *SessionStore) Create(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.Token] = *session
	return nil
}

func (s *SessionStore) Find(ctx context.Context, token string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if session.Expired(time.Now()) {
		delete(s.sessions, token)
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}

func window[T any](items []*T, offset, limit int, clone func(*T) *T) []*T {
	out := []*T{}
	if offset < 0 {
		offset = 0
	}
	for i := offset; i < len(items) && len(out) < limit; i++ {
		out = append(out, clone(items[i]))
	}
	return out
}
