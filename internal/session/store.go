// Package session keeps the fee list of every open page in memory. A page
// lives from the moment it is rendered until it goes idle for longer than
// the configured TTL or is pushed out by newer pages.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"feecalc/internal/cache"
	"feecalc/internal/catalog"
	"feecalc/internal/form"
)

var ErrPageNotFound = errors.New("page not found or expired")

// Page is one rendered page and its controller. Actions on a page run one
// at a time.
type Page struct {
	Token string

	mu   sync.Mutex
	ctrl *form.Controller
}

// Do runs fn with exclusive access to the page's controller.
func (p *Page) Do(fn func(c *form.Controller) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return fn(p.ctrl)
}

// View returns a snapshot of the page for rendering.
func (p *Page) View() form.View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ctrl.Snapshot()
}

// Config holds store limits.
type Config struct {
	MaxPages int
	TTL      time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		MaxPages: 1000,
		TTL:      30 * time.Minute,
	}
}

// Store maps page tokens to pages.
type Store struct {
	pages   *cache.LRUCache[*Page]
	catalog *catalog.Catalog
	opts    []form.Option
}

// NewStore creates a store whose pages use templates from cat.
func NewStore(cfg Config, cat *catalog.Catalog, opts ...form.Option) *Store {
	def := DefaultConfig()
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = def.MaxPages
	}
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	return &Store{
		pages:   cache.NewLRUCache[*Page](cfg.MaxPages, cfg.TTL, cache.WithSlidingExpiry()),
		catalog: cat,
		opts:    opts,
	}
}

// New opens a fresh, empty page.
func (s *Store) New() *Page {
	p := &Page{
		Token: uuid.NewString(),
		ctrl:  form.New(s.catalog, s.opts...),
	}
	s.pages.Set(p.Token, p)
	return p
}

// Get returns the page for token.
func (s *Store) Get(token string) (*Page, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, ErrPageNotFound
	}
	p, ok := s.pages.Get(token)
	if !ok {
		return nil, ErrPageNotFound
	}
	return p, nil
}

// Len returns the number of open pages.
func (s *Store) Len() int {
	return s.pages.Size()
}

// Catalog returns the template catalog pages are created with.
func (s *Store) Catalog() *catalog.Catalog {
	return s.catalog
}

// Cleaner exposes the page cache for periodic expiry.
func (s *Store) Cleaner() cache.Cleaner {
	return s.pages
}
