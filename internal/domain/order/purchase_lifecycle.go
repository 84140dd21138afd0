package order

import (
	"github.com/jhoicas/autopartes-api/internal/domain"
	"github.com/jhoicas/autopartes-api/internal/domain/entity"
)

// PurchaseEffect efecto de stock que acompaña a una transición de compra.
type PurchaseEffect int

const (
	// PurchaseNoEffect solo cambia el estado.
	PurchaseNoEffect PurchaseEffect = iota
	// PurchaseReceive registra la recepción: entradas de stock y costo de compra.
	PurchaseReceive
	// PurchaseReverseReceipt revierte una recepción: salidas de stock (el costo no se revierte).
	PurchaseReverseReceipt
)

// PurchaseTransition valida el paso from -> to y devuelve el efecto asociado.
func PurchaseTransition(from, to entity.PurchaseStatus) (PurchaseEffect, error) {
	if !from.Valid() || !to.Valid() || from == to {
		return PurchaseNoEffect, purchaseTransitionError(from, to)
	}
	switch {
	case to == entity.PurchaseCompleted:
		return PurchaseReceive, nil
	case from == entity.PurchaseCompleted:
		return PurchaseReverseReceipt, nil
	default:
		// pendiente <-> cancelada
		return PurchaseNoEffect, nil
	}
}

// PurchaseCompletion valida "completar" una compra: solo desde pendiente.
func PurchaseCompletion(from entity.PurchaseStatus) (PurchaseEffect, error) {
	if from != entity.PurchasePending {
		return PurchaseNoEffect, purchaseTransitionError(from, entity.PurchaseCompleted)
	}
	return PurchaseTransition(from, entity.PurchaseCompleted)
}

// PurchaseDeletable indica si la compra puede eliminarse (nunca si ya afectó stock).
func PurchaseDeletable(status entity.PurchaseStatus) error {
	if status == entity.PurchasePending || status == entity.PurchaseCancelled {
		return nil
	}
	return &domain.TransitionError{Order: "compra", From: string(status), To: "eliminada"}
}

// PurchaseInitial valida el estado inicial de una compra nueva.
func PurchaseInitial(status entity.PurchaseStatus) (PurchaseEffect, error) {
	switch status {
	case entity.PurchasePending:
		return PurchaseNoEffect, nil
	case entity.PurchaseCompleted:
		return PurchaseReceive, nil
	}
	return PurchaseNoEffect, &domain.TransitionError{Order: "compra", From: "nueva", To: string(status)}
}

func purchaseTransitionError(from, to entity.PurchaseStatus) error {
	return &domain.TransitionError{Order: "compra", From: string(from), To: string(to)}
}
