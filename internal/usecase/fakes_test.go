package usecase

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Rafa-lopez12/examen-arqui/internal/domain"
	"github.com/Rafa-lopez12/examen-arqui/pkg/e"
	"github.com/Rafa-lopez12/examen-arqui/pkg/logger"
	"github.com/shopspring/decimal"
)

func testLogger() logger.Logger {
	return logger.NewWithHandler(slog.NewTextHandler(io.Discard, nil))
}

// memDB is a tiny in-memory store shared by the fake repositories.
type memDB struct {
	mu     sync.Mutex
	nextID int64

	categories map[int64]domain.Category
	products   map[int64]domain.Product
	customers  map[int64]domain.Customer
	orders     map[int64]domain.Order
	lines      map[int64][]domain.OrderLine
	payments   map[int64]domain.Payment
	outbox     []OutboxEvent

	failOutbox        error
	failPaymentCreate error
}

func newMemDB() *memDB {
	return &memDB{
		categories: map[int64]domain.Category{},
		products:   map[int64]domain.Product{},
		customers:  map[int64]domain.Customer{},
		orders:     map[int64]domain.Order{},
		lines:      map[int64][]domain.OrderLine{},
		payments:   map[int64]domain.Payment{},
	}
}

func (db *memDB) id() int64 {
	db.nextID++
	return db.nextID
}

type memState struct {
	nextID     int64
	categories map[int64]domain.Category
	products   map[int64]domain.Product
	customers  map[int64]domain.Customer
	orders     map[int64]domain.Order
	lines      map[int64][]domain.OrderLine
	payments   map[int64]domain.Payment
	outbox     []OutboxEvent
}

func (db *memDB) save() memState {
	db.mu.Lock()
	defer db.mu.Unlock()
	return memState{
		nextID:     db.nextID,
		categories: maps.Clone(db.categories),
		products:   maps.Clone(db.products),
		customers:  maps.Clone(db.customers),
		orders:     maps.Clone(db.orders),
		lines:      maps.Clone(db.lines),
		payments:   maps.Clone(db.payments),
		outbox:     append([]OutboxEvent(nil), db.outbox...),
	}
}

func (db *memDB) restore(s memState) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.nextID = s.nextID
	db.categories = s.categories
	db.products = s.products
	db.customers = s.customers
	db.orders = s.orders
	db.lines = s.lines
	db.payments = s.payments
	db.outbox = s.outbox
}

// seed helpers

func (db *memDB) addCategory(name, sub string) domain.Category {
	db.mu.Lock()
	defer db.mu.Unlock()
	c := *domain.NewCategory(name, sub, "")
	c.ID = db.id()
	db.categories[c.ID] = c
	return c
}

func (db *memDB) addProduct(name, price string, categoryID int64, stock int) domain.Product {
	db.mu.Lock()
	defer db.mu.Unlock()
	cat := db.categories[categoryID]
	p := *domain.NewProduct(name, "", decimal.RequireFromString(price), categoryID, cat.Subcategory, stock)
	p.ID = db.id()
	p.CategoryName = cat.Name
	db.products[p.ID] = p
	return p
}

func (db *memDB) addCustomer(name, surname, nationalID string) domain.Customer {
	db.mu.Lock()
	defer db.mu.Unlock()
	c := *domain.NewCustomer(name, surname, "", "", "", nationalID)
	c.ID = db.id()
	db.customers[c.ID] = c
	return c
}

func (db *memDB) stock(id int64) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.products[id].Stock
}

func (db *memDB) orderCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.orders)
}

func (db *memDB) outboxTypes() []string {
	db.mu.Lock()
	defer db.mu.Unlock()
	types := make([]string, 0, len(db.outbox))
	for _, ev := range db.outbox {
		types = append(types, ev.EventType)
	}
	return types
}

// fakeTx restores the store when fn fails.
type fakeTx struct{ db *memDB }

func (t fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := t.db.save()
	if err := fn(ctx); err != nil {
		t.db.restore(snapshot)
		return err
	}
	return nil
}

// CATEGORIES

type fakeCategoryRepo struct{ db *memDB }

func (r fakeCategoryRepo) Create(_ context.Context, c *domain.Category) (*domain.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.categories {
		if existing.Name == c.Name && existing.Subcategory == c.Subcategory {
			return nil, e.ErrCategoryExists
		}
	}
	created := *c
	created.ID = r.db.id()
	r.db.categories[created.ID] = created
	return &created, nil
}

func (r fakeCategoryRepo) Update(_ context.Context, c *domain.Category) (*domain.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.categories[c.ID]; !ok {
		return nil, e.ErrCategoryNotFound
	}
	r.db.categories[c.ID] = *c
	updated := *c
	return &updated, nil
}

func (r fakeCategoryRepo) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.categories[id]
	if !ok {
		return nil, e.ErrCategoryNotFound
	}
	return &c, nil
}

func (r fakeCategoryRepo) ListActive(_ context.Context) ([]domain.Category, error) {
	return r.filter(func(c domain.Category) bool { return c.Active }), nil
}

func (r fakeCategoryRepo) ListByName(_ context.Context, name string) ([]domain.Category, error) {
	return r.filter(func(c domain.Category) bool { return c.Active && c.Name == name }), nil
}

func (r fakeCategoryRepo) filter(keep func(domain.Category) bool) []domain.Category {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []domain.Category
	for _, c := range r.db.categories {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r fakeCategoryRepo) CountProducts(_ context.Context, id int64) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, p := range r.db.products {
		if p.CategoryID == id {
			n++
		}
	}
	return n, nil
}

func (r fakeCategoryRepo) Deactivate(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c := r.db.categories[id]
	c.Active = false
	r.db.categories[id] = c
	return nil
}

func (r fakeCategoryRepo) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.categories, id)
	return nil
}

// PRODUCTS

type fakeProductRepo struct{ db *memDB }

func (r fakeProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	created := *p
	created.ID = r.db.id()
	r.db.products[created.ID] = created
	return &created, nil
}

func (r fakeProductRepo) Update(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.products[p.ID]; !ok {
		return nil, e.ErrProductNotFound
	}
	r.db.products[p.ID] = *p
	updated := *p
	return &updated, nil
}

func (r fakeProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.products[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	return &p, nil
}

func (r fakeProductRepo) GetByIDs(_ context.Context, ids []int64) ([]domain.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []domain.Product
	for _, id := range ids {
		if p, ok := r.db.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r fakeProductRepo) List(_ context.Context, filter ProductFilter) ([]domain.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []domain.Product
	for _, p := range r.db.products {
		if filter.CategoryID != 0 && p.CategoryID != filter.CategoryID {
			continue
		}
		if filter.Subcategory != "" && p.Subcategory != filter.Subcategory {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r fakeProductRepo) Search(_ context.Context, query string, limit int) ([]domain.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []domain.Product
	for _, p := range r.db.products {
		if p.Stock > 0 && strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r fakeProductRepo) SetImageKey(_ context.Context, id int64, key string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.products[id]
	if !ok {
		return e.ErrProductNotFound
	}
	p.ImageKey = key
	r.db.products[id] = p
	return nil
}

func (r fakeProductRepo) DecrementStock(_ context.Context, id int64, quantity int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.products[id]
	if !ok {
		return e.ErrProductNotFound
	}
	if p.Stock < quantity {
		return e.ErrInsufficientStock
	}
	p.Stock -= quantity
	r.db.products[id] = p
	return nil
}

// CUSTOMERS

type fakeCustomerRepo struct{ db *memDB }

func (r fakeCustomerRepo) Create(_ context.Context, c *domain.Customer) (*domain.Customer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	created := *c
	created.ID = r.db.id()
	r.db.customers[created.ID] = created
	return &created, nil
}

func (r fakeCustomerRepo) Update(_ context.Context, c *domain.Customer) (*domain.Customer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.customers[c.ID] = *c
	updated := *c
	return &updated, nil
}

func (r fakeCustomerRepo) GetByID(_ context.Context, id int64) (*domain.Customer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.customers[id]
	if !ok {
		return nil, e.ErrCustomerNotFound
	}
	return &c, nil
}

func (r fakeCustomerRepo) ListActive(_ context.Context, limit int) ([]domain.Customer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []domain.Customer
	for _, c := range r.db.customers {
		if c.Active {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Surname < out[j].Surname })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r fakeCustomerRepo) Search(_ context.Context, query string) ([]domain.Customer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	q := strings.ToLower(query)
	var out []domain.Customer
	for _, c := range r.db.customers {
		if c.Active && strings.Contains(strings.ToLower(c.FullName()), q) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r fakeCustomerRepo) NationalIDTaken(_ context.Context, nationalID string, excludeID int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.customers {
		if c.Active && c.NationalID == nationalID && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r fakeCustomerRepo) Deactivate(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c := r.db.customers[id]
	c.Active = false
	r.db.customers[id] = c
	return nil
}

// ORDERS

type fakeOrderRepo struct{ db *memDB }

func (r fakeOrderRepo) Create(_ context.Context, o *domain.Order) (*domain.Order, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if o.CheckoutKey != "" {
		for _, existing := range r.db.orders {
			if existing.CheckoutKey == o.CheckoutKey {
				return nil, e.ErrOrderExists
			}
		}
	}
	created := *o
	created.ID = r.db.id()
	created.Lines = nil
	r.db.orders[created.ID] = created
	return &created, nil
}

func (r fakeOrderRepo) GetByCheckoutKey(_ context.Context, key string) (*domain.Order, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, o := range r.db.orders {
		if o.CheckoutKey == key {
			return &o, nil
		}
	}
	return nil, e.ErrOrderNotFound
}

func (r fakeOrderRepo) CreateLines(_ context.Context, orderID int64, lines []domain.OrderLine) ([]domain.OrderLine, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]domain.OrderLine, 0, len(lines))
	for _, l := range lines {
		l.ID = r.db.id()
		l.OrderID = orderID
		out = append(out, l)
	}
	r.db.lines[orderID] = out
	return append([]domain.OrderLine(nil), out...), nil
}

func (r fakeOrderRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o, ok := r.db.orders[id]
	if !ok {
		return nil, e.ErrOrderNotFound
	}
	if c, ok := r.db.customers[o.CustomerID]; ok {
		o.CustomerName = c.FullName()
	}
	o.Lines = append([]domain.OrderLine(nil), r.db.lines[id]...)
	return &o, nil
}

func (r fakeOrderRepo) List(_ context.Context) ([]domain.Order, error) {
	return r.filter(func(domain.Order) bool { return true }), nil
}

func (r fakeOrderRepo) ListByCustomer(_ context.Context, customerID int64) ([]domain.Order, error) {
	return r.filter(func(o domain.Order) bool { return o.CustomerID == customerID }), nil
}

func (r fakeOrderRepo) filter(keep func(domain.Order) bool) []domain.Order {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []domain.Order
	for _, o := range r.db.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r fakeOrderRepo) CountByCustomer(ctx context.Context, customerID int64) (int64, error) {
	orders, _ := r.ListByCustomer(ctx, customerID)
	return int64(len(orders)), nil
}

func (r fakeOrderRepo) UpdateStatus(_ context.Context, id int64, status domain.OrderStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o, ok := r.db.orders[id]
	if !ok {
		return e.ErrOrderNotFound
	}
	o.Status = status
	r.db.orders[id] = o
	return nil
}

func (r fakeOrderRepo) CompletePending(_ context.Context, id int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o, ok := r.db.orders[id]
	if !ok || o.Status != domain.OrderPending {
		return false, nil
	}
	o.Status = domain.OrderCompleted
	r.db.orders[id] = o
	return true, nil
}

func (r fakeOrderRepo) Stats(_ context.Context) (*domain.OrderStats, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stats := &domain.OrderStats{}
	for _, o := range r.db.orders {
		switch o.Status {
		case domain.OrderCompleted:
			stats.CompletedCount++
			stats.CompletedAmount = stats.CompletedAmount.Add(o.Total)
		case domain.OrderPending:
			stats.PendingCount++
		}
	}
	if stats.CompletedCount > 0 {
		stats.AverageTicket = stats.CompletedAmount.Div(decimal.NewFromInt(stats.CompletedCount)).Round(2)
	}
	return stats, nil
}

// PAYMENTS

type fakePaymentRepo struct{ db *memDB }

func (r fakePaymentRepo) Create(_ context.Context, p *domain.Payment) (*domain.Payment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failPaymentCreate != nil {
		return nil, r.db.failPaymentCreate
	}
	created := *p
	created.ID = r.db.id()
	r.db.payments[created.ID] = created
	return &created, nil
}

func (r fakePaymentRepo) GetByID(_ context.Context, id int64) (*domain.Payment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.payments[id]
	if !ok {
		return nil, e.ErrPaymentNotFound
	}
	return &p, nil
}

func (r fakePaymentRepo) ListByOrder(_ context.Context, orderID int64) ([]domain.Payment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []domain.Payment
	for _, p := range r.db.payments {
		if p.OrderID == orderID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r fakePaymentRepo) UpdateStatus(_ context.Context, id int64, status domain.PaymentStatus, reference string) (*domain.Payment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.payments[id]
	if !ok {
		return nil, e.ErrPaymentNotFound
	}
	p.Status = status
	if reference != "" {
		p.Reference = reference
	}
	r.db.payments[id] = p
	return &p, nil
}

func (r fakePaymentRepo) TotalPaid(ctx context.Context, orderID int64) (decimal.Decimal, error) {
	payments, _ := r.ListByOrder(ctx, orderID)
	total := decimal.Zero
	for _, p := range payments {
		if p.Status == domain.PaymentCompleted {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

type fakeMethodRepo struct{}

func (fakeMethodRepo) List(context.Context) ([]domain.PaymentMethodInfo, error) {
	return []domain.PaymentMethodInfo{
		{Code: domain.PaymentCash, Description: "Cash"},
		{Code: domain.PaymentCard, Description: "Card"},
	}, nil
}

// OUTBOX

type fakeOutboxRepo struct{ db *memDB }

func (r fakeOutboxRepo) Create(_ context.Context, ev *OutboxEvent) (*OutboxEvent, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failOutbox != nil {
		return nil, r.db.failOutbox
	}
	created := *ev
	created.ID = r.db.id()
	r.db.outbox = append(r.db.outbox, created)
	return &created, nil
}

func (r fakeOutboxRepo) GetAndMarkAsProcessing(context.Context, int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (r fakeOutboxRepo) MarkAsProcessed(context.Context, int64) error { return nil }

func (r fakeOutboxRepo) ReleaseToPending(context.Context, int64) error { return nil }

func (r fakeOutboxRepo) ReleaseStale(context.Context, time.Duration) (int64, error) { return 0, nil }

// CACHE

type fakeCache struct {
	mu       sync.Mutex
	products map[int64]domain.Product
	deleted  []int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{products: map[int64]domain.Product{}}
}

func (c *fakeCache) GetProducts(_ context.Context, ids []int64) (map[int64]domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[int64]domain.Product)
	for _, id := range ids {
		if p, ok := c.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (c *fakeCache) SetProducts(_ context.Context, products []domain.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range products {
		c.products[p.ID] = p
	}
	return nil
}

func (c *fakeCache) DeleteProducts(_ context.Context, ids []int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.products, id)
	}
	c.deleted = append(c.deleted, ids...)
	return nil
}

func (c *fakeCache) has(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.products[id]
	return ok
}

// SESSIONS

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]domain.CheckoutSession
	// failConfirmedSave fails the next save of a session holding an order.
	failConfirmedSave error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]domain.CheckoutSession{}}
}

func (r *fakeSessionRepo) Save(_ context.Context, s *domain.CheckoutSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failConfirmedSave != nil && s.OrderID != 0 {
		err := r.failConfirmedSave
		r.failConfirmedSave = nil
		return err
	}
	stored := *s
	stored.Cart.Lines = append([]domain.CartLine(nil), s.Cart.Lines...)
	r.sessions[s.ID] = stored
	return nil
}

func (r *fakeSessionRepo) Get(_ context.Context, id string) (*domain.CheckoutSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, e.ErrSessionNotFound
	}
	s.Cart.Lines = append([]domain.CartLine(nil), s.Cart.Lines...)
	return &s, nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

// GATEWAY

type fakeGateway struct {
	mu       sync.Mutex
	intent   PaymentIntent
	err      error
	requests []CreatePaymentIntentReq
}

func (g *fakeGateway) CreatePaymentIntent(_ context.Context, req *CreatePaymentIntentReq) (*PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, *req)
	if g.err != nil {
		return nil, g.err
	}
	intent := g.intent
	return &intent, nil
}

// IMAGES

type fakeImages struct {
	mu       sync.Mutex
	uploaded []string
	cleaned  []string
	err      error
}

func (f *fakeImages) UploadProductImage(_ context.Context, productID int64, image ProductImage) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	key := domain.ProductImageKey(productID, "img"+string(rune('a'+len(f.uploaded))), "png")
	f.uploaded = append(f.uploaded, key)
	return key, nil
}

func (f *fakeImages) CleanupImages(keys []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleaned = append(f.cleaned, keys...)
}

// fixture wires every use case to one memDB.
type fixture struct {
	db       *memDB
	cache    *fakeCache
	sessions *fakeSessionRepo
	gateway  *fakeGateway
	images   *fakeImages

	catalog  *CatalogUseCase
	customer *CustomerUseCase
	order    *OrderUseCase
	payment  *PaymentUseCase
	checkout *CheckoutUseCase
}

func newFixture() *fixture {
	db := newMemDB()
	f := &fixture{
		db:       db,
		cache:    newFakeCache(),
		sessions: newFakeSessionRepo(),
		gateway:  &fakeGateway{intent: PaymentIntent{ID: "pi_123", ClientSecret: "pi_123_secret_abc"}},
		images:   &fakeImages{},
	}
	log := testLogger()
	tx := fakeTx{db: db}

	f.catalog = NewCatalogUC(fakeCategoryRepo{db}, fakeProductRepo{db}, f.cache, f.images, log)
	f.customer = NewCustomerUC(fakeCustomerRepo{db}, fakeOrderRepo{db}, log)
	f.order = NewOrderUC(fakeOrderRepo{db}, fakeProductRepo{db}, fakeOutboxRepo{db}, f.cache, tx, log)
	f.payment = NewPaymentUC(fakeOrderRepo{db}, fakePaymentRepo{db}, fakeMethodRepo{}, fakeOutboxRepo{db}, f.gateway, tx, "usd", log)
	f.checkout = NewCheckoutUC(f.sessions, fakeCustomerRepo{db}, fakeProductRepo{db}, f.order, f.payment, log)
	return f
}
