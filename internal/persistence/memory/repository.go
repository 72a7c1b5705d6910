package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jmgilman/go/errors"
	"go.uber.org/zap"

	"go-aside-cache/internal/interfaces"
	"go-aside-cache/internal/models"
)

// DefaultPageSize is used when a filter leaves the page size unset
const DefaultPageSize = 20

// Ensure ProductRepository implements the repository interfaces
var (
	_ interfaces.ProductRepository = (*ProductRepository)(nil)
	_ interfaces.ProductUnitOfWork = (*unitOfWork)(nil)
)

// ProductRepository keeps products in process memory
type ProductRepository struct {
	mu       sync.RWMutex
	products map[uuid.UUID]models.Product
	logger   *zap.Logger
}

// NewProductRepository creates an empty repository seeded with the given products
func NewProductRepository(logger *zap.Logger, seed ...models.Product) *ProductRepository {
	products := make(map[uuid.UUID]models.Product, len(seed))
	for _, p := range seed {
		products[p.ID] = clone(p)
	}
	return &ProductRepository{
		products: products,
		logger:   logger,
	}
}

// FindByID returns a copy of the product, or nil when it does not exist
func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	found := clone(p)
	return &found, nil
}

// List searches, sorts and pages the products
func (r *ProductRepository) List(ctx context.Context, filter models.ProductFilter) (*models.ProductPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	matched := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if matchesSearch(p, filter.Search) {
			matched = append(matched, clone(p))
		}
	}
	r.mu.RUnlock()

	// ID breaks ties so pages are stable across calls
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ID.String() < matched[j].ID.String()
	})
	applySort(matched, filter.SortBy)

	page, pageSize := clampPage(filter.Page, filter.PageSize)
	return &models.ProductPage{
		Items:    paginate(matched, page, pageSize),
		Page:     page,
		PageSize: pageSize,
		Total:    len(matched),
	}, nil
}

// Begin opens a unit of work. Nothing is visible to readers until Commit.
func (r *ProductRepository) Begin(_ context.Context) interfaces.ProductUnitOfWork {
	return &unitOfWork{repo: r}
}

type opKind int

const (
	opAdd opKind = iota
	opUpdate
	opRemove
)

type stagedOp struct {
	kind    opKind
	product models.Product
	id      uuid.UUID
}

type unitOfWork struct {
	mu        sync.Mutex
	repo      *ProductRepository
	ops       []stagedOp
	committed bool
}

func (u *unitOfWork) Add(product models.Product) {
	u.stage(stagedOp{kind: opAdd, product: clone(product), id: product.ID})
}

func (u *unitOfWork) Update(product models.Product) {
	u.stage(stagedOp{kind: opUpdate, product: clone(product), id: product.ID})
}

func (u *unitOfWork) Remove(id uuid.UUID) {
	u.stage(stagedOp{kind: opRemove, id: id})
}

func (u *unitOfWork) stage(op stagedOp) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.ops = append(u.ops, op)
}

// Commit applies every staged change or none of them
func (u *unitOfWork) Commit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.committed {
		return errors.New(errors.CodeConflict, "unit of work already committed")
	}

	u.repo.mu.Lock()
	defer u.repo.mu.Unlock()

	// Replay against a view of the affected keys first so a failing op leaves the store untouched
	view := make(map[uuid.UUID]*models.Product)
	lookup := func(id uuid.UUID) *models.Product {
		if p, ok := view[id]; ok {
			return p
		}
		if p, ok := u.repo.products[id]; ok {
			return &p
		}
		return nil
	}

	for _, op := range u.ops {
		switch op.kind {
		case opAdd:
			if lookup(op.id) != nil {
				return errors.WithContext(errors.New(errors.CodeAlreadyExists, "product already exists"), "id", op.id.String())
			}
			p := op.product
			view[op.id] = &p
		case opUpdate:
			if lookup(op.id) == nil {
				return errors.WithContext(errors.New(errors.CodeNotFound, "product not found"), "id", op.id.String())
			}
			p := op.product
			view[op.id] = &p
		case opRemove:
			if lookup(op.id) == nil {
				return errors.WithContext(errors.New(errors.CodeNotFound, "product not found"), "id", op.id.String())
			}
			view[op.id] = nil
		}
	}

	for id, p := range view {
		if p == nil {
			delete(u.repo.products, id)
			continue
		}
		u.repo.products[id] = *p
	}

	u.committed = true
	u.repo.logger.Debug("Committed unit of work",
		zap.Int("operations", len(u.ops)),
		zap.Int("products", len(u.repo.products)))
	return nil
}

func matchesSearch(p models.Product, search string) bool {
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Name), term) {
		return true
	}
	return p.Description != nil && strings.Contains(strings.ToLower(*p.Description), term)
}

// sortField orders two products by one field, returning <0, 0 or >0
type sortField func(a, b models.Product) int

var sortFields = map[string]sortField{
	"name": func(a, b models.Product) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	},
	"price": func(a, b models.Product) int {
		switch {
		case a.Price < b.Price:
			return -1
		case a.Price > b.Price:
			return 1
		}
		return 0
	},
	"description": func(a, b models.Product) int {
		return strings.Compare(deref(a.Description), deref(b.Description))
	},
	"id": func(a, b models.Product) int {
		return strings.Compare(a.ID.String(), b.ID.String())
	},
}

// applySort orders products by a clause such as "name desc,price".
// Unknown fields are ignored; direction defaults to ascending.
func applySort(products []models.Product, sortBy string) {
	type orderBy struct {
		compare sortField
		desc    bool
	}

	var clauses []orderBy
	for _, part := range strings.Split(sortBy, ",") {
		tokens := strings.Fields(part)
		if len(tokens) == 0 {
			continue
		}
		compare, ok := sortFields[strings.ToLower(tokens[0])]
		if !ok {
			continue
		}
		desc := len(tokens) > 1 && strings.EqualFold(tokens[1], "desc")
		clauses = append(clauses, orderBy{compare: compare, desc: desc})
	}
	if len(clauses) == 0 {
		return
	}

	sort.SliceStable(products, func(i, j int) bool {
		for _, c := range clauses {
			cmp := c.compare(products[i], products[j])
			if cmp == 0 {
				continue
			}
			if c.desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func clampPage(page, pageSize int) (int, int) {
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	return page, pageSize
}

func paginate(products []models.Product, page, pageSize int) []models.Product {
	// Compare before multiplying so huge pages cannot overflow
	pages := len(products) / pageSize
	if len(products)%pageSize != 0 {
		pages++
	}
	if page-1 >= pages {
		return []models.Product{}
	}
	start := (page - 1) * pageSize
	end := len(products)
	if pageSize < end-start {
		end = start + pageSize
	}
	return products[start:end]
}

func clone(p models.Product) models.Product {
	if p.Description != nil {
		d := *p.Description
		p.Description = &d
	}
	return p
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
