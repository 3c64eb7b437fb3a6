// Package memstore implementa los puertos de persistencia en memoria para tests.
//
// Cada transacción trabaja sobre una copia del estado y solo la publica al hacer
// commit, de modo que un error a mitad de camino no deja escrituras parciales.
// Las transacciones se serializan con un mutex global, lo que equivale a bloquear
// todas las filas que tocan.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/gestion-stock-api/internal/application/ports"
	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
	"github.com/jhoicas/gestion-stock-api/internal/domain/repository"
)

var _ ports.TxRunner = (*Store)(nil)

type state struct {
	users     map[string]*entity.User
	products  map[string]*entity.Product
	suppliers map[string]*entity.Supplier
	orders    map[string]*entity.PurchaseOrder
	slips     map[string]*entity.ExitSlip
	batches   map[string]*entity.Batch
	batchSeq  map[string]int64
	movements []*entity.StockMovement
	seq       int64
}

func newState() *state {
	return &state{
		users:     make(map[string]*entity.User),
		products:  make(map[string]*entity.Product),
		suppliers: make(map[string]*entity.Supplier),
		orders:    make(map[string]*entity.PurchaseOrder),
		slips:     make(map[string]*entity.ExitSlip),
		batches:   make(map[string]*entity.Batch),
		batchSeq:  make(map[string]int64),
	}
}

func (s *state) clone() *state {
	c := newState()
	c.seq = s.seq
	for k, v := range s.users {
		u := *v
		c.users[k] = &u
	}
	for k, v := range s.products {
		c.products[k] = copyProduct(v)
	}
	for k, v := range s.suppliers {
		sup := *v
		c.suppliers[k] = &sup
	}
	for k, v := range s.orders {
		c.orders[k] = copyOrder(v)
	}
	for k, v := range s.slips {
		c.slips[k] = copySlip(v)
	}
	for k, v := range s.batches {
		c.batches[k] = copyBatch(v)
	}
	for k, v := range s.batchSeq {
		c.batchSeq[k] = v
	}
	c.movements = make([]*entity.StockMovement, len(s.movements))
	for i, m := range s.movements {
		mv := *m
		c.movements[i] = &mv
	}
	return c
}

func (s *state) nextSeq() int64 {
	s.seq++
	return s.seq
}

// Store estado en memoria con transacciones de copia y publicación.
type Store struct {
	mu     sync.Mutex
	st     *state
	faults map[string]*fault
}

type fault struct {
	after int
	err   error
}

// New crea un store vacío.
func New() *Store {
	return &Store{st: newState(), faults: make(map[string]*fault)}
}

// FailAfter hace que la operación op (p. ej. "movements.create") falle con err
// después de after llamadas exitosas. Sirve para probar rollbacks.
func (s *Store) FailAfter(op string, after int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = &fault{after: after, err: err}
}

func (s *Store) check(op string) error {
	f, ok := s.faults[op]
	if !ok {
		return nil
	}
	if f.after > 0 {
		f.after--
		return nil
	}
	delete(s.faults, op)
	return f.err
}

// Run ejecuta fn sobre una copia del estado; publica la copia solo si fn no devuelve error.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos ports.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	work := s.st.clone()
	if err := fn(ctx, s.repos(work)); err != nil {
		return err
	}
	s.st = work
	return nil
}

// RunReadOnly ejecuta fn sobre una copia que siempre se descarta.
func (s *Store) RunReadOnly(ctx context.Context, fn func(ctx context.Context, repos ports.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	return fn(ctx, s.repos(s.st.clone()))
}

func (s *Store) repos(st *state) ports.Repositories {
	tx := &txView{store: s, st: st}
	return ports.Repositories{
		Products:  &productRepo{v: tx},
		Batches:   &batchRepo{v: tx},
		Movements: &movementRepo{v: tx},
		Orders:    &orderRepo{v: tx},
		ExitSlips: &exitSlipRepo{v: tx},
		Suppliers: &supplierRepo{v: tx},
	}
}

// Products repositorio fuera de transacción (autocommit por llamada).
func (s *Store) Products() repository.ProductRepository { return &productRepo{v: &autoView{store: s}} }

// Suppliers repositorio fuera de transacción.
func (s *Store) Suppliers() repository.SupplierRepository { return &supplierRepo{v: &autoView{store: s}} }

// Users repositorio fuera de transacción.
func (s *Store) Users() repository.UserRepository { return &userRepo{v: &autoView{store: s}} }

// Batches repositorio fuera de transacción, útil para sembrar lotes en tests.
func (s *Store) Batches() repository.BatchRepository { return &batchRepo{v: &autoView{store: s}} }

// Movements repositorio fuera de transacción.
func (s *Store) Movements() repository.StockMovementRepository {
	return &movementRepo{v: &autoView{store: s}}
}

// Orders repositorio fuera de transacción.
func (s *Store) Orders() repository.PurchaseOrderRepository { return &orderRepo{v: &autoView{store: s}} }

// ExitSlips repositorio fuera de transacción.
func (s *Store) ExitSlips() repository.ExitSlipRepository { return &exitSlipRepo{v: &autoView{store: s}} }

// view da acceso al estado: dentro de una tx el lock ya está tomado; fuera, cada llamada
// trabaja sobre una copia y la publica si no hubo error.
type view interface {
	read(fn func(st *state) error) error
	write(op string, fn func(st *state) error) error
}

type txView struct {
	store *Store
	st    *state
}

func (v *txView) read(fn func(st *state) error) error { return fn(v.st) }

func (v *txView) write(op string, fn func(st *state) error) error {
	if err := v.store.check(op); err != nil {
		return err
	}
	return fn(v.st)
}

type autoView struct {
	store *Store
}

func (v *autoView) read(fn func(st *state) error) error {
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.st)
}

func (v *autoView) write(op string, fn func(st *state) error) error {
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	if err := v.store.check(op); err != nil {
		return err
	}
	work := v.store.st.clone()
	if err := fn(work); err != nil {
		return err
	}
	v.store.st = work
	return nil
}

func copyProduct(p *entity.Product) *entity.Product {
	c := *p
	return &c
}

func copyBatch(b *entity.Batch) *entity.Batch {
	c := *b
	return &c
}

func copyOrder(o *entity.PurchaseOrder) *entity.PurchaseOrder {
	c := *o
	if o.ReceptionDate != nil {
		d := *o.ReceptionDate
		c.ReceptionDate = &d
	}
	c.Lines = append([]entity.OrderLine(nil), o.Lines...)
	return &c
}

func copySlip(s *entity.ExitSlip) *entity.ExitSlip {
	c := *s
	if s.ValidatedAt != nil {
		d := *s.ValidatedAt
		c.ValidatedAt = &d
	}
	c.Lines = append([]entity.ExitSlipLine(nil), s.Lines...)
	return &c
}
