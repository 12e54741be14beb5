package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"dellasoft/internal/model"
	"dellasoft/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repositories. DB() returns nil so runTx calls fn(nil) directly.
// Reads hand out copies so callers cannot change stored state by accident.

var errBoom = errors.New("connection reset by peer")

// ── Orders ───────────────────────────────────────────────────────────────────

type memOrders struct {
	rows      map[uuid.UUID]*model.Order
	failAdd   error
	failWrite error
}

var _ repository.OrderRepository = (*memOrders)(nil)

func newMemOrders(orders ...*model.Order) *memOrders {
	r := &memOrders{rows: map[uuid.UUID]*model.Order{}}
	for _, o := range orders {
		if o.ID == uuid.Nil {
			o.ID = uuid.New()
		}
		r.rows[o.ID] = o
	}
	return r
}

func (r *memOrders) get(id uuid.UUID) (*model.Order, error) {
	o, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *memOrders) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	return r.get(id)
}

func (r *memOrders) List(_ context.Context, f repository.OrderFilter) ([]model.Order, int64, error) {
	var out []model.Order
	for _, o := range r.rows {
		if f.From != nil && (o.OrderDate == nil || o.OrderDate.Before(*f.From)) {
			continue
		}
		if f.To != nil && (o.OrderDate == nil || !o.OrderDate.Before(*f.To)) {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *memOrders) ListByOrderDate(_ context.Context, from, to time.Time) ([]model.Order, error) {
	var out []model.Order
	for _, o := range r.rows {
		if o.OrderDate != nil && !o.OrderDate.Before(from) && o.OrderDate.Before(to) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *memOrders) UpdateDetails(_ context.Context, id uuid.UUID, observation string, delivery *time.Time) error {
	o, ok := r.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Observation = observation
	o.DeliveryDate = delivery
	return nil
}

func (r *memOrders) CreateTx(_ *gorm.DB, o *model.Order) error {
	if r.failWrite != nil {
		return r.failWrite
	}
	o.ID = uuid.New()
	for i := range o.Items {
		o.Items[i].ID = uuid.New()
		o.Items[i].OrderID = o.ID
	}
	cp := *o
	r.rows[o.ID] = &cp
	return nil
}

func (r *memOrders) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Order, error) {
	return r.get(id)
}

func (r *memOrders) AddPaidTx(_ *gorm.DB, id uuid.UUID, amount int64) error {
	if r.failAdd != nil {
		return r.failAdd
	}
	o, ok := r.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.TotalPaid += amount
	return nil
}

func (r *memOrders) DB() *gorm.DB { return nil }

// ── Till sessions ────────────────────────────────────────────────────────────

type memPOS struct {
	rows          map[uuid.UUID]*model.POS
	failIncrement error
	// raceCreate simulates a concurrent open that wins between the existence
	// check and the insert.
	raceCreate bool
}

var _ repository.POSRepository = (*memPOS)(nil)

func newMemPOS(sessions ...*model.POS) *memPOS {
	r := &memPOS{rows: map[uuid.UUID]*model.POS{}}
	for _, p := range sessions {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		r.rows[p.ID] = p
	}
	return r
}

func (r *memPOS) byDate(date time.Time) (*model.POS, error) {
	for _, p := range r.rows {
		if p.PosDate.Equal(date) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memPOS) FindByDate(_ context.Context, date time.Time) (*model.POS, error) {
	return r.byDate(date)
}

func (r *memPOS) FindByID(_ context.Context, id uuid.UUID) (*model.POS, error) {
	return r.FindByIDForUpdateTx(nil, id)
}

func (r *memPOS) List(_ context.Context, _, _ int) ([]model.POS, int64, error) {
	var out []model.POS
	for _, p := range r.rows {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PosDate.After(out[j].PosDate) })
	return out, int64(len(out)), nil
}

func (r *memPOS) FindByDateTx(_ *gorm.DB, date time.Time) (*model.POS, error) {
	return r.byDate(date)
}

func (r *memPOS) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.POS, error) {
	p, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memPOS) CreateTx(_ *gorm.DB, p *model.POS) error {
	if r.raceCreate {
		return gorm.ErrDuplicatedKey
	}
	if _, err := r.byDate(p.PosDate); err == nil {
		return gorm.ErrDuplicatedKey
	}
	p.ID = uuid.New()
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}

func (r *memPOS) IncrementFinalAmountTx(_ *gorm.DB, id uuid.UUID, delta int64) error {
	if r.failIncrement != nil {
		return r.failIncrement
	}
	p, ok := r.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.FinalAmount += delta
	return nil
}

func (r *memPOS) DB() *gorm.DB { return nil }

// ── Transactions ─────────────────────────────────────────────────────────────

type memTransactions struct {
	rows       []model.Transaction
	failCreate error
}

var _ repository.TransactionRepository = (*memTransactions)(nil)

func (r *memTransactions) CreateTx(_ *gorm.DB, t *model.Transaction) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	t.ID = uuid.New()
	r.rows = append(r.rows, *t)
	return nil
}

func (r *memTransactions) ListByPOS(_ context.Context, posID uuid.UUID) ([]model.Transaction, error) {
	var out []model.Transaction
	for _, t := range r.rows {
		if t.POSID == posID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memTransactions) ListByOrder(_ context.Context, orderID uuid.UUID) ([]model.Transaction, error) {
	var out []model.Transaction
	for _, t := range r.rows {
		if t.OrderID != nil && *t.OrderID == orderID {
			out = append(out, t)
		}
	}
	return out, nil
}

// ── Stock ────────────────────────────────────────────────────────────────────

type memStock struct {
	rows      map[uuid.UUID]*model.Stock
	movements []model.StockMovement
	failSet   error
	// raceCreate simulates a concurrent create that wins the unique index.
	raceCreate bool
}

var _ repository.StockRepository = (*memStock)(nil)

func newMemStock() *memStock {
	return &memStock{rows: map[uuid.UUID]*model.Stock{}}
}

func (r *memStock) byOwner(kind model.StockOwner, ownerID uuid.UUID) (*model.Stock, error) {
	for _, s := range r.rows {
		k, id := s.Owner()
		if k == kind && id == ownerID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memStock) FindByID(_ context.Context, id uuid.UUID) (*model.Stock, error) {
	return r.FindByIDForUpdateTx(nil, id)
}

func (r *memStock) FindByOwner(_ context.Context, kind model.StockOwner, ownerID uuid.UUID) (*model.Stock, error) {
	return r.byOwner(kind, ownerID)
}

func (r *memStock) ListAll(_ context.Context) ([]model.Stock, error) {
	var out []model.Stock
	for _, s := range r.rows {
		out = append(out, *s)
	}
	return out, nil
}

func (r *memStock) ListLow(_ context.Context) ([]model.Stock, error) {
	var out []model.Stock
	for _, s := range r.rows {
		if s.Quantity <= s.MinQuantity {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *memStock) ListMovements(_ context.Context, stockID uuid.UUID, _, _ int) ([]model.StockMovement, int64, error) {
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.StockID == stockID {
			out = append(out, m)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memStock) FindByOwnerTx(_ *gorm.DB, kind model.StockOwner, ownerID uuid.UUID) (*model.Stock, error) {
	return r.byOwner(kind, ownerID)
}

func (r *memStock) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Stock, error) {
	s, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memStock) CreateTx(_ *gorm.DB, s *model.Stock) error {
	if r.raceCreate {
		return gorm.ErrDuplicatedKey
	}
	s.ID = uuid.New()
	cp := *s
	r.rows[s.ID] = &cp
	return nil
}

func (r *memStock) SetQuantityTx(_ *gorm.DB, id uuid.UUID, quantity int64) error {
	if r.failSet != nil {
		return r.failSet
	}
	s, ok := r.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Quantity = quantity
	return nil
}

func (r *memStock) CreateMovementTx(_ *gorm.DB, m *model.StockMovement) error {
	m.ID = uuid.New()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *memStock) DB() *gorm.DB { return nil }

// ── Catalog ──────────────────────────────────────────────────────────────────

type memCatalog struct {
	products    []model.Product
	ingredients []model.Ingredient
	recipes     map[uuid.UUID][]model.RecipeItem
	listCalls   int
}

var _ repository.CatalogRepository = (*memCatalog)(nil)

func newMemCatalog() *memCatalog {
	return &memCatalog{recipes: map[uuid.UUID][]model.RecipeItem{}}
}

func (r *memCatalog) addProduct(name string, price int64) model.Product {
	p := model.Product{ID: uuid.New(), Name: name, Price: price, Unit: "unidad", Active: true}
	r.products = append(r.products, p)
	return p
}

func (r *memCatalog) addIngredient(name string) model.Ingredient {
	i := model.Ingredient{ID: uuid.New(), Name: name, Unit: "gr"}
	r.ingredients = append(r.ingredients, i)
	return i
}

func (r *memCatalog) CreateProduct(_ context.Context, p *model.Product) error {
	p.ID = uuid.New()
	r.products = append(r.products, *p)
	return nil
}

func (r *memCatalog) FindProductByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memCatalog) FindProductsByIDs(_ context.Context, ids []uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		for _, id := range ids {
			if p.ID == id {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (r *memCatalog) ListProducts(_ context.Context, f repository.CatalogFilter) ([]model.Product, int64, error) {
	r.listCalls++
	var out []model.Product
	for _, p := range r.products {
		if f.ActiveOnly && !p.Active {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *memCatalog) AllProducts(_ context.Context) ([]model.Product, error) {
	return append([]model.Product(nil), r.products...), nil
}

func (r *memCatalog) UpdateProduct(_ context.Context, p *model.Product) error {
	for i := range r.products {
		if r.products[i].ID == p.ID {
			r.products[i] = *p
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *memCatalog) CreateIngredient(_ context.Context, i *model.Ingredient) error {
	for _, existing := range r.ingredients {
		if strings.EqualFold(existing.Name, i.Name) {
			return gorm.ErrDuplicatedKey
		}
	}
	i.ID = uuid.New()
	r.ingredients = append(r.ingredients, *i)
	return nil
}

func (r *memCatalog) FindIngredientByID(_ context.Context, id uuid.UUID) (*model.Ingredient, error) {
	for _, i := range r.ingredients {
		if i.ID == id {
			cp := i
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memCatalog) ListIngredients(_ context.Context, _ repository.CatalogFilter) ([]model.Ingredient, int64, error) {
	return r.ingredients, int64(len(r.ingredients)), nil
}

func (r *memCatalog) ReplaceRecipe(_ context.Context, productID uuid.UUID, items []model.RecipeItem) error {
	r.recipes[productID] = append([]model.RecipeItem(nil), items...)
	return nil
}

func (r *memCatalog) ListRecipe(_ context.Context, productID uuid.UUID) ([]model.RecipeItem, error) {
	var out []model.RecipeItem
	for _, it := range r.recipes[productID] {
		ing, _ := r.FindIngredientByID(context.Background(), it.IngredientID)
		it.Ingredient = ing
		out = append(out, it)
	}
	return out, nil
}

// ── Customers ────────────────────────────────────────────────────────────────

type memCustomers struct {
	rows map[uuid.UUID]*model.Customer
}

var _ repository.CustomerRepository = (*memCustomers)(nil)

func newMemCustomers(customers ...*model.Customer) *memCustomers {
	r := &memCustomers{rows: map[uuid.UUID]*model.Customer{}}
	for _, c := range customers {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		r.rows[c.ID] = c
	}
	return r
}

func (r *memCustomers) Create(_ context.Context, c *model.Customer) error {
	c.ID = uuid.New()
	cp := *c
	r.rows[c.ID] = &cp
	return nil
}

func (r *memCustomers) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCustomers) List(_ context.Context, search string, _, _ int) ([]model.Customer, int64, error) {
	var out []model.Customer
	needle := strings.ToLower(search)
	for _, c := range r.rows {
		hay := strings.ToLower(c.Name + " " + c.LastName + " " + c.Contact)
		if needle == "" || strings.Contains(hay, needle) {
			out = append(out, *c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memCustomers) Update(_ context.Context, c *model.Customer) error {
	if _, ok := r.rows[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *c
	r.rows[c.ID] = &cp
	return nil
}

// ── Users ────────────────────────────────────────────────────────────────────

type memUsers struct {
	rows []model.User
}

var _ repository.UserRepository = (*memUsers)(nil)

func (r *memUsers) Create(_ context.Context, u *model.User) error {
	for _, existing := range r.rows {
		if existing.Username == u.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	u.ID = uuid.New()
	r.rows = append(r.rows, *u)
	return nil
}

func (r *memUsers) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.rows {
		if u.Username == username && u.Active {
			cp := u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUsers) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range r.rows {
		if u.ID == id {
			cp := u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUsers) List(_ context.Context) ([]model.User, error) {
	return r.rows, nil
}
