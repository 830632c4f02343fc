// Package screens owns the data behind each admin screen for the lifetime of
// one mount. A screen fetches once per mount and drops any result that
// arrives after it was unmounted or remounted.
package screens

import (
	"context"
	"errors"
	"log"
	"sync"

	"mabletask/dashboard/apperr"
	"mabletask/dashboard/flow"
	"mabletask/dashboard/models"
	"mabletask/dashboard/products"
	"mabletask/dashboard/validation"
)

const (
	ProductsPath = "/admin/products"
	EventsPath   = "/admin/events"
)

// ErrStale is returned when a fetch completes for a mount that is no longer
// current. Its result has been discarded.
var ErrStale = errors.New("screen was unmounted before the response arrived")

type ProductsAPI interface {
	ListProducts(ctx context.Context, currentPath string) ([]models.ProductEdge, bool, error)
	CreateProduct(ctx context.Context, currentPath string, form models.ProductForm) (*models.CreatedProduct, bool, error)
	DeleteProduct(ctx context.Context, currentPath, serverID string) (bool, error)
}

// lifecycle tracks mount generations and unmounts when navigation leaves
// path.
type lifecycle struct {
	path    string
	gen     uint64
	mounted bool
}

func (l *lifecycle) mount() uint64 {
	l.gen++
	l.mounted = true
	return l.gen
}

func (l *lifecycle) current(gen uint64) bool {
	return l.mounted && l.gen == gen
}

type ProductsView struct {
	Rows  []models.ProductRow `json:"rows"`
	Query string              `json:"query"`
	Sort  products.SortState  `json:"sort"`
	Total int                 `json:"total"`
}

type ProductsScreen struct {
	api ProductsAPI
	nav flow.Navigator

	mu    sync.Mutex
	life  lifecycle
	rows  []models.ProductRow
	query string
	sort  products.SortState
}

func NewProductsScreen(api ProductsAPI, history *flow.History) *ProductsScreen {
	s := &ProductsScreen{api: api, nav: history, life: lifecycle{path: ProductsPath}}
	history.Subscribe(s.onNavigate)
	return s
}

func (s *ProductsScreen) onNavigate(path string) {
	if path != s.life.path {
		s.Unmount()
	}
}

func (s *ProductsScreen) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.life.mounted = false
}

// Mount navigates to the products screen and loads the catalog. authed is
// false when the login flow took over instead.
func (s *ProductsScreen) Mount(ctx context.Context) (bool, error) {
	s.nav.Navigate(ProductsPath)

	s.mu.Lock()
	gen := s.life.mount()
	s.rows = []models.ProductRow{}
	s.mu.Unlock()

	edges, authed, err := s.api.ListProducts(ctx, ProductsPath)
	if err != nil || !authed {
		return authed, err
	}
	rows := products.Project(edges)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.life.current(gen) {
		log.Printf("Screens: discarding products response for stale mount %d", gen)
		return true, ErrStale
	}
	s.rows = rows
	return true, nil
}

func (s *ProductsScreen) Search(query string) ProductsView {
	s.mu.Lock()
	s.query = query
	s.mu.Unlock()
	return s.View()
}

// SortBy toggles the sort column the way a header click does.
func (s *ProductsScreen) SortBy(key string) (ProductsView, error) {
	if !products.IsSortKey(key) {
		return ProductsView{}, apperr.ValidationErr("Unknown sort key", map[string]string{"key": "must be one of id, title, price, sku"})
	}
	s.mu.Lock()
	s.sort = s.sort.Select(key)
	s.mu.Unlock()
	return s.View(), nil
}

// Create validates the form, creates the product remotely and appends the
// projected row.
func (s *ProductsScreen) Create(ctx context.Context, form models.ProductForm) (*models.ProductRow, bool, error) {
	if err := validation.Struct(&form); err != nil {
		return nil, true, err
	}
	created, authed, err := s.api.CreateProduct(ctx, ProductsPath, form)
	if err != nil || !authed {
		return nil, authed, err
	}
	row := products.ProjectCreated(*created, form)

	s.mu.Lock()
	s.rows = append(s.rows, row)
	s.mu.Unlock()
	return &row, true, nil
}

// Delete removes the product with the given full id.
func (s *ProductsScreen) Delete(ctx context.Context, id string) (bool, error) {
	authed, err := s.api.DeleteProduct(ctx, ProductsPath, products.ServerID(id))
	if err != nil || !authed {
		return authed, err
	}
	s.mu.Lock()
	s.rows = products.Remove(s.rows, id)
	s.mu.Unlock()
	return true, nil
}

// View derives the visible table from the fetched rows.
func (s *ProductsScreen) View() ProductsView {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.sort.Apply(products.FilterByTitle(s.rows, s.query))
	if rows == nil {
		rows = []models.ProductRow{}
	}
	return ProductsView{Rows: rows, Query: s.query, Sort: s.sort, Total: len(s.rows)}
}
