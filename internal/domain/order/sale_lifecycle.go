package order

import (
	"github.com/jhoicas/autopartes-api/internal/domain"
	"github.com/jhoicas/autopartes-api/internal/domain/entity"
)

// SaleEffect efecto de stock que acompaña a una transición de venta.
type SaleEffect int

const (
	// SaleNoEffect solo cambia el estado (el stock se descontó al crear la venta).
	SaleNoEffect SaleEffect = iota
	// SaleRestock devuelve al stock lo vendido que aún no se haya devuelto.
	SaleRestock
)

// SaleTransition valida el paso from -> to y devuelve el efecto asociado.
// Una venta anulada o devuelta ya no se puede revertir de nuevo (ErrAlreadyReversed)
// ni volver a un estado activo.
func SaleTransition(from, to entity.SaleStatus) (SaleEffect, error) {
	if !from.Valid() || !to.Valid() {
		return SaleNoEffect, saleTransitionError(from, to)
	}
	if from.Reversed() {
		if to.Reversed() {
			return SaleNoEffect, domain.ErrAlreadyReversed
		}
		return SaleNoEffect, saleTransitionError(from, to)
	}
	switch {
	case from == entity.SalePending && to == entity.SaleCompleted:
		return SaleNoEffect, nil
	case from == entity.SalePending && to == entity.SaleVoided:
		return SaleRestock, nil
	case from == entity.SaleCompleted && to.Reversed():
		return SaleRestock, nil
	}
	return SaleNoEffect, saleTransitionError(from, to)
}

// SaleCompletion valida "completar" un apartado: solo desde pendiente.
func SaleCompletion(from entity.SaleStatus) error {
	if from != entity.SalePending {
		return saleTransitionError(from, entity.SaleCompleted)
	}
	return nil
}

// SaleVoid valida la anulación: legal desde cualquier estado que no esté ya revertido.
func SaleVoid(from entity.SaleStatus) error {
	_, err := SaleTransition(from, entity.SaleVoided)
	return err
}

// SaleReturn valida una devolución (total o parcial): solo desde completada.
func SaleReturn(from entity.SaleStatus) error {
	if from.Reversed() {
		return domain.ErrAlreadyReversed
	}
	if from != entity.SaleCompleted {
		return saleTransitionError(from, entity.SaleReturned)
	}
	return nil
}

// SaleInitial valida el estado inicial de una venta nueva (apartado o completada).
func SaleInitial(status entity.SaleStatus) error {
	if status == entity.SalePending || status == entity.SaleCompleted {
		return nil
	}
	return &domain.TransitionError{Order: "venta", From: "nueva", To: string(status)}
}

func saleTransitionError(from, to entity.SaleStatus) error {
	return &domain.TransitionError{Order: "venta", From: string(from), To: string(to)}
}
