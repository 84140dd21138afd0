// Package memstore implementa en memoria los repositorios y el TxRunner para tests de casos de uso.
// Run serializa las transacciones y restaura el estado previo si la función devuelve error.
package memstore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/autopartes-api/internal/application/ports"
	"github.com/jhoicas/autopartes-api/internal/domain"
	"github.com/jhoicas/autopartes-api/internal/domain/entity"
	"github.com/jhoicas/autopartes-api/internal/domain/repository"
)

// ErrInjected error de persistencia simulado.
var ErrInjected = errors.New("memstore: fallo inyectado")

// DB estado en memoria.
type DB struct {
	txMu sync.Mutex
	mu   sync.Mutex

	products      map[string]*entity.Product
	movements     []*entity.StockMovement
	purchases     map[string]*entity.PurchaseOrder
	purchaseLines map[string][]entity.PurchaseLine
	sales         map[string]*entity.SalesOrder
	saleLines     map[string][]entity.SalesLine
	returns       map[string][]entity.SalesReturn
	currencies    map[string]*entity.Currency
	suppliers     map[string]*entity.Supplier
	customers     map[string]*entity.Customer
	users         map[string]*entity.User
	categories    map[string]*entity.Category
	brands        map[string]*entity.Brand
	vehicleModels map[string]*entity.VehicleModel
	compat        map[compatKey]entity.Compatibility

	// FailMovementAfter hace fallar la creación de movimientos después de N inserciones exitosas (-1 = nunca).
	FailMovementAfter int
	movementCreates   int
}

// New crea una base vacía.
func New() *DB {
	return &DB{
		products:          map[string]*entity.Product{},
		purchases:         map[string]*entity.PurchaseOrder{},
		purchaseLines:     map[string][]entity.PurchaseLine{},
		sales:             map[string]*entity.SalesOrder{},
		saleLines:         map[string][]entity.SalesLine{},
		returns:           map[string][]entity.SalesReturn{},
		currencies:        map[string]*entity.Currency{},
		suppliers:         map[string]*entity.Supplier{},
		customers:         map[string]*entity.Customer{},
		users:             map[string]*entity.User{},
		categories:        map[string]*entity.Category{},
		brands:            map[string]*entity.Brand{},
		vehicleModels:     map[string]*entity.VehicleModel{},
		compat:            map[compatKey]entity.Compatibility{},
		FailMovementAfter: -1,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Seed y consultas de test
// ──────────────────────────────────────────────────────────────────────────────

// AddProduct inserta un producto. Si tiene stock, deja un movimiento de stock inicial
// para que el libro cuadre con stock_on_hand.
func (db *DB) AddProduct(p *entity.Product) {
	db.mu.Lock()
	defer db.mu.Unlock()
	cp := *p
	db.products[p.ID] = &cp
	if p.StockOnHand > 0 {
		db.movements = append(db.movements, &entity.StockMovement{
			ID: "seed-" + p.ID, ProductID: p.ID, Kind: entity.MovementInflow,
			Quantity: p.StockOnHand, Delta: p.StockOnHand, StockAfter: p.StockOnHand,
			Reason: "Stock inicial", Source: entity.SourceInitialStock, CreatedAt: time.Now(),
		})
	}
}

// AddCurrency inserta una divisa.
func (db *DB) AddCurrency(c *entity.Currency) {
	db.mu.Lock()
	defer db.mu.Unlock()
	cp := *c
	db.currencies[c.ID] = &cp
}

// AddSupplier inserta un proveedor.
func (db *DB) AddSupplier(s *entity.Supplier) {
	db.mu.Lock()
	defer db.mu.Unlock()
	cp := *s
	db.suppliers[s.ID] = &cp
}

// AddCustomer inserta un cliente.
func (db *DB) AddCustomer(c *entity.Customer) {
	db.mu.Lock()
	defer db.mu.Unlock()
	cp := *c
	db.customers[c.ID] = &cp
}

// AddUser inserta un usuario.
func (db *DB) AddUser(u *entity.User) {
	db.mu.Lock()
	defer db.mu.Unlock()
	cp := *u
	db.users[u.ID] = &cp
}

// Product devuelve una copia del producto (nil si no existe).
func (db *DB) Product(id string) *entity.Product {
	db.mu.Lock()
	defer db.mu.Unlock()
	p, ok := db.products[id]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

// Movements devuelve los movimientos del producto en orden de inserción.
func (db *DB) Movements(productID string) []entity.StockMovement {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []entity.StockMovement
	for _, m := range db.movements {
		if m.ProductID == productID {
			out = append(out, *m)
		}
	}
	return out
}

// MovementCount total de movimientos registrados.
func (db *DB) MovementCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.movements)
}

// LedgerSum suma de deltas del producto.
func (db *DB) LedgerSum(productID string) int {
	sum := 0
	for _, m := range db.Movements(productID) {
		sum += m.Delta
	}
	return sum
}

// PurchaseCount total de compras.
func (db *DB) PurchaseCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.purchases)
}

// SaleCount total de ventas.
func (db *DB) SaleCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.sales)
}

// SaleLineCount total de líneas de venta.
func (db *DB) SaleLineCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	n := 0
	for _, l := range db.saleLines {
		n += len(l)
	}
	return n
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner
// ──────────────────────────────────────────────────────────────────────────────

var _ ports.TxRunner = (*DB)(nil)

// Run ejecuta fn con los repositorios en memoria; si fn falla restaura el estado anterior.
func (db *DB) Run(ctx context.Context, fn func(store ports.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	db.txMu.Lock()
	defer db.txMu.Unlock()

	snap := db.snapshot()
	if err := fn(db.Store()); err != nil {
		db.restore(snap)
		return err
	}
	return nil
}

// Store repositorios que operan directamente sobre la base (también fuera de tx).
func (db *DB) Store() ports.Store {
	return ports.Store{
		Products:   (*productRepo)(db),
		Movements:  (*movementRepo)(db),
		Purchases:  (*purchaseRepo)(db),
		Sales:      (*saleRepo)(db),
		Currencies: (*currencyRepo)(db),
		Suppliers:  (*supplierRepo)(db),
		Customers:  (*customerRepo)(db),
	}
}

// Users repositorio de usuarios.
func (db *DB) Users() repository.UserRepository { return (*userRepo)(db) }

type snapshot struct {
	products      map[string]entity.Product
	movements     []*entity.StockMovement
	purchases     map[string]entity.PurchaseOrder
	purchaseLines map[string][]entity.PurchaseLine
	sales         map[string]entity.SalesOrder
	saleLines     map[string][]entity.SalesLine
	returns       map[string][]entity.SalesReturn
	currencies    map[string]entity.Currency
}

func (db *DB) snapshot() snapshot {
	db.mu.Lock()
	defer db.mu.Unlock()
	s := snapshot{
		products:      make(map[string]entity.Product, len(db.products)),
		movements:     append([]*entity.StockMovement(nil), db.movements...),
		purchases:     make(map[string]entity.PurchaseOrder, len(db.purchases)),
		purchaseLines: make(map[string][]entity.PurchaseLine, len(db.purchaseLines)),
		sales:         make(map[string]entity.SalesOrder, len(db.sales)),
		saleLines:     make(map[string][]entity.SalesLine, len(db.saleLines)),
		returns:       make(map[string][]entity.SalesReturn, len(db.returns)),
		currencies:    make(map[string]entity.Currency, len(db.currencies)),
	}
	for k, v := range db.products {
		s.products[k] = *v
	}
	for k, v := range db.purchases {
		s.purchases[k] = *v
	}
	for k, v := range db.purchaseLines {
		s.purchaseLines[k] = append([]entity.PurchaseLine(nil), v...)
	}
	for k, v := range db.sales {
		s.sales[k] = *v
	}
	for k, v := range db.saleLines {
		s.saleLines[k] = append([]entity.SalesLine(nil), v...)
	}
	for k, v := range db.returns {
		s.returns[k] = append([]entity.SalesReturn(nil), v...)
	}
	for k, v := range db.currencies {
		s.currencies[k] = *v
	}
	return s
}

func (db *DB) restore(s snapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.products = make(map[string]*entity.Product, len(s.products))
	for k, v := range s.products {
		v := v
		db.products[k] = &v
	}
	db.movements = s.movements
	db.purchases = make(map[string]*entity.PurchaseOrder, len(s.purchases))
	for k, v := range s.purchases {
		v := v
		db.purchases[k] = &v
	}
	db.purchaseLines = s.purchaseLines
	db.sales = make(map[string]*entity.SalesOrder, len(s.sales))
	for k, v := range s.sales {
		v := v
		db.sales[k] = &v
	}
	db.saleLines = s.saleLines
	db.returns = s.returns
	db.currencies = make(map[string]*entity.Currency, len(s.currencies))
	for k, v := range s.currencies {
		v := v
		db.currencies[k] = &v
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

type productRepo DB

func (r *productRepo) db() *DB { return (*DB)(r) }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	db := r.db()
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, existing := range db.products {
		if strings.EqualFold(existing.Code, p.Code) {
			return domain.ErrDuplicate
		}
	}
	if !db.catalogRefsExist(p) {
		return domain.ErrReferenceNotFound
	}
	cp := *p
	db.products[p.ID] = &cp
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.db().Product(id), nil
}

func (r *productRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	db := r.db()
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, p := range db.products {
		if strings.EqualFold(p.Code, code) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *productRepo) GetForUpdate(_ context.Context, id string) (*entity.Product, error) {
	p := r.db().Product(id)
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	db := r.db()
	db.mu.Lock()
	defer db.mu.Unlock()
	cur, ok := db.products[p.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if !db.catalogRefsExist(p) {
		return domain.ErrReferenceNotFound
	}
	stock, avg := cur.StockOnHand, cur.AverageCost
	cp := *p
	cp.StockOnHand, cp.AverageCost = stock, avg
	db.products[p.ID] = &cp
	return nil
}

func (r *productRepo) UpdateStock(_ context.Context, id string, stock int) error {
	db := r.db()
	db.mu.Lock()
	defer db.mu.Unlock()
	p, ok := db.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	if stock < 0 {
		return domain.NewPersistenceError("update stock", errors.New("check constraint stock_on_hand >= 0"))
	}
	p.StockOnHand = stock
	return nil
}

func (r *productRepo) UpdatePurchaseCost(_ context.Context, id string, cost, avg decimal.Decimal) error {
	db := r.db()
	db.mu.Lock()
	defer db.mu.Unlock()
	p, ok := db.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.PurchaseCost, p.AverageCost = cost, avg
	return nil
}

func (r *productRepo) LinkSupplier(_ context.Context, productID, supplierID string) error {
	db := r.db()
	db.mu.Lock()
	defer db.mu.Unlock()
	p, ok := db.products[productID]
	if !ok {
		return domain.ErrProductNotFound
	}
	for _, s := range p.SupplierIDs {
		if s == supplierID {
			return nil
		}
	}
	p.SupplierIDs = append(append([]string(nil), p.SupplierIDs...), supplierID)
	return nil
}

func (r *productRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	db := r.db()
	db.mu.Lock()
	defer db.mu.Unlock()
	all := make([]*entity.Product, 0, len(db.products))
	for _, p := range db.products {
		cp := *p
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	return paginate(all, limit, offset), nil
}

func (r *productRepo) ListBelowMinimum(_ context.Context) ([]*entity.Product, error) {
	db := r.db()
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []*entity.Product
	for _, p := range db.products {
		if p.BelowMinimum() {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos
// ──────────────────────────────────────────────────────────────────────────────

type movementRepo DB

func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.FailMovementAfter >= 0 && db.movementCreates >= db.FailMovementAfter {
		return domain.NewPersistenceError("insert stock movement", ErrInjected)
	}
	db.movementCreates++
	cp := *m
	db.movements = append(db.movements, &cp)
	return nil
}

func (r *movementRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []*entity.StockMovement
	for i := len(db.movements) - 1; i >= 0; i-- {
		if db.movements[i].ProductID == productID {
			cp := *db.movements[i]
			out = append(out, &cp)
		}
	}
	return paginate(out, limit, offset), nil
}

func (r *movementRepo) ListByReference(_ context.Context, ref string, sources ...entity.MovementSource) ([]*entity.StockMovement, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []*entity.StockMovement
	for _, m := range db.movements {
		if m.ReferenceID == nil || *m.ReferenceID != ref {
			continue
		}
		if len(sources) > 0 && !containsSource(sources, m.Source) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r *movementRepo) SumDelta(_ context.Context, productID string) (int, error) {
	return (*DB)(r).LedgerSum(productID), nil
}

func containsSource(list []entity.MovementSource, s entity.MovementSource) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// ──────────────────────────────────────────────────────────────────────────────
// Compras
// ──────────────────────────────────────────────────────────────────────────────

type purchaseRepo DB

func (r *purchaseRepo) Create(_ context.Context, o *entity.PurchaseOrder) error {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.suppliers[o.SupplierID]; !ok {
		return domain.ErrReferenceNotFound
	}
	cp := *o
	cp.Lines = nil
	db.purchases[o.ID] = &cp
	return nil
}

func (r *purchaseRepo) CreateLines(_ context.Context, lines []entity.PurchaseLine) error {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, l := range lines {
		if _, ok := db.purchases[l.PurchaseID]; !ok {
			return domain.ErrReferenceNotFound
		}
		db.purchaseLines[l.PurchaseID] = append(db.purchaseLines[l.PurchaseID], l)
	}
	return nil
}

func (r *purchaseRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	o, ok := db.purchases[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *purchaseRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	o, _ := r.GetByID(ctx, id)
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

func (r *purchaseRepo) ListLines(_ context.Context, id string) ([]entity.PurchaseLine, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]entity.PurchaseLine(nil), db.purchaseLines[id]...), nil
}

func (r *purchaseRepo) UpdateStatus(_ context.Context, id string, status entity.PurchaseStatus, at time.Time) error {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	o, ok := db.purchases[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status, o.UpdatedAt = status, at
	return nil
}

func (r *purchaseRepo) DeleteLines(_ context.Context, id string) error {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.purchaseLines, id)
	return nil
}

func (r *purchaseRepo) Delete(_ context.Context, id string) error {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	if len(db.purchaseLines[id]) > 0 {
		return domain.NewPersistenceError("delete purchase", errors.New("foreign key purchase_lines"))
	}
	delete(db.purchases, id)
	return nil
}

func (r *purchaseRepo) List(_ context.Context, f repository.PurchaseFilter) ([]*entity.PurchaseOrder, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []*entity.PurchaseOrder
	for _, o := range db.purchases {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.SupplierID != "" && o.SupplierID != f.SupplierID {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, f.Limit, f.Offset), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

type saleRepo DB

func (r *saleRepo) Create(_ context.Context, o *entity.SalesOrder) error {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.customers[o.CustomerID]; !ok {
		return domain.ErrReferenceNotFound
	}
	cp := *o
	cp.Lines, cp.Returns = nil, nil
	db.sales[o.ID] = &cp
	return nil
}

func (r *saleRepo) CreateLines(_ context.Context, lines []entity.SalesLine) error {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, l := range lines {
		if _, ok := db.sales[l.SaleID]; !ok {
			return domain.ErrReferenceNotFound
		}
		db.saleLines[l.SaleID] = append(db.saleLines[l.SaleID], l)
	}
	return nil
}

func (r *saleRepo) GetByID(_ context.Context, id string) (*entity.SalesOrder, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	o, ok := db.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *saleRepo) GetForUpdate(ctx context.Context, id string) (*entity.SalesOrder, error) {
	o, _ := r.GetByID(ctx, id)
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

func (r *saleRepo) ListLines(_ context.Context, id string) ([]entity.SalesLine, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]entity.SalesLine(nil), db.saleLines[id]...), nil
}

func (r *saleRepo) UpdateStatus(_ context.Context, id string, status entity.SaleStatus, at time.Time) error {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	o, ok := db.sales[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status, o.UpdatedAt = status, at
	return nil
}

func (r *saleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.SalesOrder, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []*entity.SalesOrder
	for _, o := range db.sales {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.CustomerID != "" && o.CustomerID != f.CustomerID {
			continue
		}
		if f.SellerID != "" && o.SellerID != f.SellerID {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, f.Limit, f.Offset), nil
}

func (r *saleRepo) CreateReturn(_ context.Context, ret *entity.SalesReturn) error {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.sales[ret.SaleID]; !ok {
		return domain.ErrReferenceNotFound
	}
	cp := *ret
	cp.Lines = append([]entity.SalesReturnLine(nil), ret.Lines...)
	db.returns[ret.SaleID] = append(db.returns[ret.SaleID], cp)
	return nil
}

func (r *saleRepo) ListReturns(_ context.Context, id string) ([]entity.SalesReturn, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]entity.SalesReturn(nil), db.returns[id]...), nil
}

func (r *saleRepo) UnitsSoldSince(_ context.Context, since time.Time) (map[string]int, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	out := map[string]int{}
	for id, o := range db.sales {
		if o.Status == entity.SaleVoided || o.SaleDate.Before(since) {
			continue
		}
		for _, l := range db.saleLines[id] {
			out[l.ProductID] += l.Quantity
		}
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Divisas, proveedores, clientes, usuarios
// ──────────────────────────────────────────────────────────────────────────────

type currencyRepo DB

func (r *currencyRepo) GetByID(_ context.Context, id string) (*entity.Currency, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	c, ok := db.currencies[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *currencyRepo) GetByCode(_ context.Context, code string) (*entity.Currency, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, c := range db.currencies {
		if strings.EqualFold(c.Code, code) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *currencyRepo) GetBase(_ context.Context) (*entity.Currency, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, c := range db.currencies {
		if c.IsBase() {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *currencyRepo) List(_ context.Context, activeOnly bool) ([]*entity.Currency, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []*entity.Currency
	for _, c := range db.currencies {
		if activeOnly && !c.Active {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *currencyRepo) ListForUpdate(ctx context.Context) ([]*entity.Currency, error) {
	return r.List(ctx, false)
}

func (r *currencyRepo) GetForUpdate(ctx context.Context, id string) (*entity.Currency, error) {
	c, _ := r.GetByID(ctx, id)
	if c == nil {
		return nil, domain.ErrCurrencyNotFound
	}
	return c, nil
}

func (r *currencyRepo) Update(_ context.Context, c *entity.Currency) error {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.currencies[c.ID]; !ok {
		return domain.ErrCurrencyNotFound
	}
	cp := *c
	db.currencies[c.ID] = &cp
	return nil
}

func (r *currencyRepo) Upsert(ctx context.Context, c *entity.Currency, overwriteRate bool) error {
	existing, _ := r.GetByCode(ctx, c.Code)
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	cp := *c
	if existing != nil {
		cp.ID = existing.ID
		if !overwriteRate {
			cp.Rate = existing.Rate
		}
	}
	db.currencies[cp.ID] = &cp
	c.ID = cp.ID
	return nil
}

type supplierRepo DB

func (r *supplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	if s.TaxID != "" {
		for _, existing := range db.suppliers {
			if existing.TaxID == s.TaxID {
				return domain.ErrDuplicate
			}
		}
	}
	cp := *s
	db.suppliers[s.ID] = &cp
	return nil
}

func (r *supplierRepo) GetByTaxID(_ context.Context, taxID string) (*entity.Supplier, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, s := range db.suppliers {
		if s.TaxID == taxID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *supplierRepo) List(_ context.Context, search string, limit, offset int) ([]*entity.Supplier, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []*entity.Supplier
	for _, s := range db.suppliers {
		if matches(search, s.Name, s.TaxID) {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

func (r *supplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	s, ok := db.suppliers[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

type customerRepo DB

func (r *customerRepo) Create(_ context.Context, c *entity.Customer) error {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	if c.TaxID != "" {
		for _, existing := range db.customers {
			if existing.TaxID == c.TaxID {
				return domain.ErrDuplicate
			}
		}
	}
	cp := *c
	db.customers[c.ID] = &cp
	return nil
}

func (r *customerRepo) GetByTaxID(_ context.Context, taxID string) (*entity.Customer, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, c := range db.customers {
		if c.TaxID == taxID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *customerRepo) List(_ context.Context, search string, limit, offset int) ([]*entity.Customer, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []*entity.Customer
	for _, c := range db.customers {
		if matches(search, c.Name, c.TaxID, c.Phone) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

func (r *customerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	c, ok := db.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

type userRepo DB

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	u, ok := db.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, u := range db.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func matches(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	search = strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}
