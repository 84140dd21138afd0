package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrUserNotFound = errors.New("usuario no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrPersistence  = errors.New("error de persistencia")

	// Divisas
	ErrInvalidAmount            = errors.New("monto inválido")
	ErrCurrencyNotFound         = errors.New("divisa no encontrada")
	ErrInvalidCurrencyOperation = errors.New("operación no permitida sobre la divisa")

	// Inventario y órdenes
	ErrInvalidQuantity        = errors.New("cantidad inválida")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrInvalidStateTransition = errors.New("transición de estado inválida")
	ErrAlreadyReversed        = errors.New("la orden ya fue revertida")
	ErrProductNotFound        = errors.New("producto no encontrado")
	ErrOrderNotFound          = errors.New("orden no encontrada")
	ErrReferenceNotFound      = errors.New("referencia no encontrada")
)

// InsufficientStockError identifica el producto que no tiene existencias suficientes.
type InsufficientStockError struct {
	ProductID string
	Code      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	ref := e.Code
	if ref == "" {
		ref = e.ProductID
	}
	return fmt.Sprintf("stock insuficiente para %s: disponible %d, solicitado %d", ref, e.Available, e.Requested)
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// TransitionError describe un cambio de estado rechazado por la máquina de estados de una orden.
type TransitionError struct {
	Order string // "compra" | "venta"
	From  string
	To    string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transición de estado inválida en %s: %s -> %s", e.Order, e.From, e.To)
}

// Is permite errors.Is(err, ErrInvalidStateTransition).
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidStateTransition
}

// PersistenceError envuelve fallos del almacenamiento (conexión, constraints, etc.).
type PersistenceError struct {
	Op  string
	Err error
}

// NewPersistenceError construye el error; devuelve nil si err es nil.
func NewPersistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, ErrPersistence).
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
