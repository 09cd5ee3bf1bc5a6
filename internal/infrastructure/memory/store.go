// Package memory implementa el libro de lotes en memoria (STORE_DRIVER=memory y tests).
//
// Cada producto tiene su propio mutex de escritura: dos salidas del mismo producto se serializan,
// productos distintos avanzan en paralelo. La unidad de trabajo acumula los cambios aparte y los
// publica de una vez bajo el lock global, así que los lectores ven el estado anterior o el
// posterior de una mutación, nunca uno intermedio.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	appledger "github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domledger "github.com/jhoicas/stock-ledger/internal/domain/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ appledger.TxRunner = (*TxRunner)(nil)

// Store estado compartido del libro.
type Store struct {
	mu           sync.RWMutex
	products     map[string]*entity.Product
	skus         map[string]string
	batches      map[string]*entity.Batch
	batchOrder   []string // orden de inserción, para listados estables
	transactions []*entity.Transaction

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products: make(map[string]*entity.Product),
		skus:     make(map[string]string),
		batches:  make(map[string]*entity.Batch),
		locks:    make(map[string]*sync.Mutex),
	}
}

// productLock devuelve (creándolo si hace falta) el mutex de escritura del producto.
func (s *Store) productLock(productID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[productID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[productID] = l
	}
	return l
}

// unit unidad de trabajo. En modo escritura guarda los cambios hasta el commit;
// en modo vista el llamador ya tiene s.mu en lectura.
type unit struct {
	writable   bool
	locked     bool
	newBatches []*entity.Batch
	updates    map[string]int64
	newTxs     []*entity.Transaction
}

func (s *Store) read(u *unit, fn func()) {
	if u != nil && u.locked {
		fn()
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

func (s *Store) commit(u *unit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, qty := range u.updates {
		if b, ok := s.batches[id]; ok {
			b.Quantity = qty
		}
	}
	for _, b := range u.newBatches {
		s.batches[b.ID] = b
		s.batchOrder = append(s.batchOrder, b.ID)
	}
	s.transactions = append(s.transactions, u.newTxs...)
}

// TxRunner implementa ledger.TxRunner sobre el Store.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// RunForProduct toma el mutex del producto, ejecuta fn y publica los cambios si fn no falla
// y el contexto sigue vivo.
func (r *TxRunner) RunForProduct(ctx context.Context, productID string, fn func(
	batchRepo repository.BatchRepository,
	txRepo repository.TransactionRepository,
) error) error {
	lock := r.store.productLock(productID)
	lock.Lock()
	defer lock.Unlock()

	var exists bool
	r.store.read(nil, func() { _, exists = r.store.products[productID] })
	if !exists {
		return domain.ErrNotFound
	}

	u := &unit{writable: true, updates: make(map[string]int64)}
	if err := fn(&BatchRepo{s: r.store, u: u}, &TransactionRepo{s: r.store, u: u}); err != nil {
		return err
	}
	// cancelar antes del commit es simplemente no publicar nada
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.commit(u)
	return nil
}

// View ejecuta fn con el lock global en lectura.
func (r *TxRunner) View(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	batchRepo repository.BatchRepository,
	txRepo repository.TransactionRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	u := &unit{locked: true}
	return fn(&ProductRepo{s: r.store, u: u}, &BatchRepo{s: r.store, u: u}, &TransactionRepo{s: r.store, u: u})
}

// ── Productos ────────────────────────────────────────────────────────────────

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria.
type ProductRepo struct {
	s *Store
	u *unit
}

// NewProductRepository repositorio de productos fuera de cualquier unidad de trabajo.
func NewProductRepository(s *Store) *ProductRepo {
	return &ProductRepo{s: s}
}

// Create agrega un producto; SKU repetido devuelve domain.ErrDuplicate.
func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.skus[p.SKU]; ok {
		return domain.ErrDuplicate
	}
	if _, ok := r.s.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *p
	r.s.products[p.ID] = &cp
	r.s.skus[p.SKU] = p.ID
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	r.s.read(r.u, func() {
		if p, ok := r.s.products[id]; ok {
			cp := *p
			out = &cp
		}
	})
	return out, nil
}

// GetBySKU devuelve (nil, nil) si no existe.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	var id string
	r.s.read(r.u, func() { id = r.s.skus[sku] })
	if id == "" {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

// List productos ordenados por nombre y luego SKU.
func (r *ProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	r.s.read(r.u, func() {
		out = make([]*entity.Product, 0, len(r.s.products))
		for _, p := range r.s.products {
			cp := *p
			out = append(out, &cp)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].SKU < out[j].SKU
	})
	return out, nil
}

// ── Lotes ────────────────────────────────────────────────────────────────────

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo lotes en memoria. Dentro de una unidad de trabajo ve sus propios cambios pendientes.
type BatchRepo struct {
	s *Store
	u *unit
}

// NewBatchRepository repositorio de lotes fuera de cualquier unidad de trabajo.
func NewBatchRepository(s *Store) *BatchRepo {
	return &BatchRepo{s: s}
}

// Create agrega un lote.
func (r *BatchRepo) Create(_ context.Context, b *entity.Batch) error {
	if b.Quantity < 0 || b.Quantity > b.InitialQuantity {
		return fmt.Errorf("crear lote %s: saldo %d fuera de rango", b.ID, b.Quantity)
	}
	cp := *b
	if r.u != nil && r.u.writable {
		r.u.newBatches = append(r.u.newBatches, &cp)
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.batches[cp.ID] = &cp
	r.s.batchOrder = append(r.s.batchOrder, cp.ID)
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *BatchRepo) GetByID(_ context.Context, id string) (*entity.Batch, error) {
	var out *entity.Batch
	r.s.read(r.u, func() {
		if b, ok := r.s.batches[id]; ok {
			cp := *b
			out = &cp
		}
	})
	if out == nil && r.u != nil {
		for _, b := range r.u.newBatches {
			if b.ID == id {
				cp := *b
				out = &cp
			}
		}
	}
	if out != nil && r.u != nil {
		if qty, ok := r.u.updates[id]; ok {
			out.Quantity = qty
		}
	}
	return out, nil
}

// ListByProduct todos los lotes del producto en orden FIFO.
func (r *BatchRepo) ListByProduct(_ context.Context, productID string) ([]*entity.Batch, error) {
	return r.list(func(b *entity.Batch) bool { return b.ProductID == productID }), nil
}

// ListAvailableForUpdate lotes con saldo del producto. El mutex del producto ya está tomado.
func (r *BatchRepo) ListAvailableForUpdate(_ context.Context, productID string) ([]*entity.Batch, error) {
	return r.list(func(b *entity.Batch) bool { return b.ProductID == productID && b.Quantity > 0 }), nil
}

// ListAvailable lotes con saldo de todos los productos.
func (r *BatchRepo) ListAvailable(_ context.Context) ([]*entity.Batch, error) {
	return r.list(func(b *entity.Batch) bool { return b.Quantity > 0 }), nil
}

// UpdateQuantity fija el saldo de un lote. Solo válido dentro de RunForProduct o sin unidad.
func (r *BatchRepo) UpdateQuantity(_ context.Context, batchID string, quantity int64) error {
	b, _ := r.GetByID(context.Background(), batchID)
	if b == nil {
		return domain.ErrNotFound
	}
	if quantity < 0 || quantity > b.InitialQuantity {
		return fmt.Errorf("actualizar lote %s: saldo %d fuera de rango", batchID, quantity)
	}
	if r.u != nil {
		if !r.u.writable {
			return fmt.Errorf("actualizar lote %s: vista de solo lectura", batchID)
		}
		for _, nb := range r.u.newBatches {
			if nb.ID == batchID {
				nb.Quantity = quantity
				return nil
			}
		}
		r.u.updates[batchID] = quantity
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.batches[batchID].Quantity = quantity
	return nil
}

func (r *BatchRepo) list(keep func(*entity.Batch) bool) []*entity.Batch {
	var out []*entity.Batch
	r.s.read(r.u, func() {
		for _, id := range r.s.batchOrder {
			cp := *r.s.batches[id]
			out = append(out, &cp)
		}
	})
	if r.u != nil {
		for _, b := range out {
			if qty, ok := r.u.updates[b.ID]; ok {
				b.Quantity = qty
			}
		}
		for _, b := range r.u.newBatches {
			cp := *b
			out = append(out, &cp)
		}
	}
	filtered := out[:0]
	for _, b := range out {
		if keep(b) {
			filtered = append(filtered, b)
		}
	}
	domledger.SortForDepletion(filtered)
	return filtered
}

// ── Transacciones ────────────────────────────────────────────────────────────

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo log de transacciones en memoria (solo inserción).
type TransactionRepo struct {
	s *Store
	u *unit
}

// NewTransactionRepository repositorio de transacciones fuera de cualquier unidad de trabajo.
func NewTransactionRepository(s *Store) *TransactionRepo {
	return &TransactionRepo{s: s}
}

// Create agrega una transacción.
func (r *TransactionRepo) Create(_ context.Context, t *entity.Transaction) error {
	cp := cloneTx(t)
	if r.u != nil && r.u.writable {
		r.u.newTxs = append(r.u.newTxs, cp)
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.transactions = append(r.s.transactions, cp)
	return nil
}

// ListByProduct transacciones del producto de la más antigua a la más reciente.
func (r *TransactionRepo) ListByProduct(_ context.Context, productID string) ([]*entity.Transaction, error) {
	var out []*entity.Transaction
	r.s.read(r.u, func() {
		for _, t := range r.s.transactions {
			if t.ProductID == productID {
				out = append(out, cloneTx(t))
			}
		}
	})
	if r.u != nil {
		for _, t := range r.u.newTxs {
			if t.ProductID == productID {
				out = append(out, cloneTx(t))
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ListRecent últimas limit transacciones, la más reciente primero.
func (r *TransactionRepo) ListRecent(_ context.Context, limit int) ([]*entity.Transaction, error) {
	var out []*entity.Transaction
	r.s.read(r.u, func() {
		for i := len(r.s.transactions) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
			out = append(out, cloneTx(r.s.transactions[i]))
		}
	})
	return out, nil
}

func cloneTx(t *entity.Transaction) *entity.Transaction {
	cp := *t
	if t.Allocations != nil {
		cp.Allocations = append([]entity.Allocation(nil), t.Allocations...)
	}
	return &cp
}
