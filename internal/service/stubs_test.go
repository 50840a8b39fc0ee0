package service_test

import (
	"context"
	"errors"
	"sort"

	"betteredible/internal/dto"
	"betteredible/internal/model"
	"betteredible/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubClientRepo is an in-memory ClientRepository for testing.
type stubClientRepo struct {
	clients map[uuid.UUID]*model.Client
}

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{clients: make(map[uuid.UUID]*model.Client)}
}

func (r *stubClientRepo) Create(_ context.Context, c *model.Client) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clients[c.ID] = c
	return nil
}

func (r *stubClientRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (r *stubClientRepo) List(_ context.Context, _ bool, _, _ int) ([]model.Client, int64, error) {
	var out []model.Client
	for _, c := range r.clients {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubClientRepo) Update(_ context.Context, c *model.Client) error {
	r.clients[c.ID] = c
	return nil
}

func (r *stubClientRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	if c, ok := r.clients[id]; ok {
		c.Active = active
	}
	return nil
}

var _ repository.ClientRepository = (*stubClientRepo)(nil)

// stubProductRepo is an in-memory ProductRepository for testing.
type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *stubProductRepo) ListByLine(_ context.Context, lineID uuid.UUID, _ bool) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.ProductLineID == lineID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) ReplaceVariants(_ context.Context, productID uuid.UUID, variants []model.ProductVariant) error {
	if p, ok := r.products[productID]; ok {
		p.Variants = variants
	}
	return nil
}

func (r *stubProductRepo) ReplaceTypePrices(_ context.Context, productID uuid.UUID, prices []model.ProductTypePrice) error {
	if p, ok := r.products[productID]; ok {
		p.TypePrices = prices
	}
	return nil
}

func (r *stubProductRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	if p, ok := r.products[id]; ok {
		p.Active = active
	}
	return nil
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// stubLineRepo is an in-memory ProductLineRepository for testing.
type stubLineRepo struct {
	lines map[uuid.UUID]*model.ProductLine
}

func newStubLineRepo() *stubLineRepo {
	return &stubLineRepo{lines: make(map[uuid.UUID]*model.ProductLine)}
}

func (r *stubLineRepo) Create(_ context.Context, l *model.ProductLine) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.lines[l.ID] = l
	return nil
}

func (r *stubLineRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ProductLine, error) {
	l, ok := r.lines[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return l, nil
}

func (r *stubLineRepo) List(_ context.Context, includeInactive bool) ([]model.ProductLine, error) {
	var out []model.ProductLine
	for _, l := range r.lines {
		if !includeInactive && !l.Active {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

func (r *stubLineRepo) Update(_ context.Context, l *model.ProductLine) error {
	r.lines[l.ID] = l
	return nil
}

func (r *stubLineRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	if l, ok := r.lines[id]; ok {
		l.Active = active
	}
	return nil
}

var _ repository.ProductLineRepository = (*stubLineRepo)(nil)

// stubLabelRepo is an in-memory LabelRepository for testing. Labels are
// returned ordered by insertion so bulk operations are deterministic.
type stubLabelRepo struct {
	labels  map[uuid.UUID]*model.Label
	seq     map[uuid.UUID]int
	nextSeq int
	history []model.LabelStageEvent
}

func newStubLabelRepo() *stubLabelRepo {
	return &stubLabelRepo{
		labels: make(map[uuid.UUID]*model.Label),
		seq:    make(map[uuid.UUID]int),
	}
}

func (r *stubLabelRepo) Create(_ context.Context, _ *gorm.DB, l *model.Label) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.labels[l.ID] = l
	r.nextSeq++
	r.seq[l.ID] = r.nextSeq
	return nil
}

func (r *stubLabelRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Label, error) {
	l, ok := r.labels[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *l
	return &cp, nil
}

func (r *stubLabelRepo) ListByClient(_ context.Context, clientID uuid.UUID, stage *model.LabelStage) ([]model.Label, error) {
	var out []model.Label
	for _, l := range r.labels {
		if l.ClientID != clientID {
			continue
		}
		if stage != nil && l.CurrentStage != *stage {
			continue
		}
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return r.seq[out[i].ID] < r.seq[out[j].ID] })
	return out, nil
}

func (r *stubLabelRepo) ListByClientTx(_ *gorm.DB, clientID uuid.UUID) ([]model.Label, error) {
	return r.ListByClient(context.Background(), clientID, nil)
}

func (r *stubLabelRepo) Update(_ context.Context, l *model.Label) error {
	r.labels[l.ID] = l
	return nil
}

func (r *stubLabelRepo) SetStageTx(_ *gorm.DB, id uuid.UUID, stage model.LabelStage) error {
	l, ok := r.labels[id]
	if !ok {
		return errors.New("not found")
	}
	l.CurrentStage = stage
	return nil
}

func (r *stubLabelRepo) AppendHistoryTx(_ *gorm.DB, ev *model.LabelStageEvent) error {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	r.history = append(r.history, *ev)
	return nil
}

func (r *stubLabelRepo) History(_ context.Context, labelID uuid.UUID) ([]model.LabelStageEvent, error) {
	var out []model.LabelStageEvent
	for _, ev := range r.history {
		if ev.LabelID == labelID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (r *stubLabelRepo) DB() *gorm.DB { return nil }

var _ repository.LabelRepository = (*stubLabelRepo)(nil)

// stubOrderRepo is an in-memory OrderRepository for testing. SaveGuarded
// reproduces the optimistic version check.
type stubOrderRepo struct {
	orders  map[uuid.UUID]*model.ClientOrder
	nextNum int
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[uuid.UUID]*model.ClientOrder), nextNum: 1000}
}

func (r *stubOrderRepo) Create(_ context.Context, _ *gorm.DB, o *model.ClientOrder) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ClientOrder, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *o
	return &cp, nil
}

func (r *stubOrderRepo) List(_ context.Context, filter dto.OrderFilter) ([]model.ClientOrder, int64, error) {
	var out []model.ClientOrder
	for _, o := range r.orders {
		if filter.Status != "" && filter.Status != "all" && string(o.Status) != filter.Status {
			continue
		}
		if filter.ClientID != "" && o.ClientID.String() != filter.ClientID {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *stubOrderRepo) SaveGuarded(_ context.Context, _ *gorm.DB, o *model.ClientOrder) (int64, error) {
	stored, ok := r.orders[o.ID]
	if !ok || stored.Version != o.Version {
		return 0, nil
	}
	o.Version++
	cp := *o
	r.orders[o.ID] = &cp
	return 1, nil
}

func (r *stubOrderRepo) ReplaceItemsTx(_ *gorm.DB, orderID uuid.UUID, items []model.OrderItem) error {
	if o, ok := r.orders[orderID]; ok {
		o.Items = items
	}
	return nil
}

func (r *stubOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.orders, id)
	return nil
}

func (r *stubOrderRepo) NextOrderNumber(_ context.Context, _ *gorm.DB) (int, error) {
	r.nextNum++
	return r.nextNum, nil
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

var _ repository.OrderRepository = (*stubOrderRepo)(nil)

// ── Seed helpers ──────────────────────────────────────────────────────────────

func seedClient(repo *stubClientRepo, storeName string) *model.Client {
	c := &model.Client{ID: uuid.New(), StoreName: storeName, ContactName: "Test Contact", Active: true}
	repo.clients[c.ID] = c
	return c
}

func seedProduct(repo *stubProductRepo, name string, price float64) *model.Product {
	p := &model.Product{
		ID:            uuid.New(),
		ProductLineID: uuid.New(),
		Name:          name,
		Price:         decimal.NewFromFloat(price),
		Active:        true,
	}
	repo.products[p.ID] = p
	return p
}

func seedLabel(repo *stubLabelRepo, clientID uuid.UUID, flavor string, stage model.LabelStage, price float64) *model.Label {
	l := &model.Label{
		ID:           uuid.New(),
		ClientID:     clientID,
		FlavorName:   flavor,
		ProductID:    uuid.New(),
		ProductType:  "gummies",
		UnitPrice:    decimal.NewFromFloat(price),
		CurrentStage: stage,
	}
	repo.labels[l.ID] = l
	repo.nextSeq++
	repo.seq[l.ID] = repo.nextSeq
	return l
}
