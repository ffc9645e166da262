package domain

import (
	"fmt"
	"strings"
)

// Status of an order-tab. CANCELADO is terminal.
type Status string

const (
	StatusAberto    Status = "ABERTO"
	StatusEmPreparo Status = "EM_PREPARO"
	StatusPronto    Status = "PRONTO"
	StatusEntregue  Status = "ENTREGUE"
	StatusCancelado Status = "CANCELADO"
)

// DeliveryType of an order-tab.
type DeliveryType string

const (
	DeliveryRetirada DeliveryType = "RETIRADA"
	DeliveryEntrega  DeliveryType = "ENTREGA"
)

// ENTREGUE -> EM_PREPARO is the reopen path; it additionally requires the
// caller's confirmation and a reason (enforced by the service).
var transitions = map[Status]map[Status]struct{}{
	StatusAberto:    {StatusEmPreparo: {}, StatusCancelado: {}},
	StatusEmPreparo: {StatusPronto: {}, StatusEntregue: {}, StatusCancelado: {}},
	StatusPronto:    {StatusEntregue: {}, StatusCancelado: {}},
	StatusEntregue:  {StatusEmPreparo: {}},
	StatusCancelado: {},
}

func ParseStatus(value string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(value)))
	switch status {
	case StatusAberto, StatusEmPreparo, StatusPronto, StatusEntregue, StatusCancelado:
		return status, nil
	}
	return "", ErrInvalidStatus
}

func ParseDeliveryType(value string) (DeliveryType, error) {
	delivery := DeliveryType(strings.ToUpper(strings.TrimSpace(value)))
	switch delivery {
	case DeliveryRetirada, DeliveryEntrega:
		return delivery, nil
	}
	return "", ErrInvalidDeliveryType
}

// CanTransitionTo reports whether the state machine allows from -> to.
func (s Status) CanTransitionTo(to Status) bool {
	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// Editable reports whether items may still be changed in this status.
// Deleting from a delivered tab additionally requires the caller's force flag.
func (s Status) Editable() bool {
	return s != StatusCancelado
}

// ControlsStock reports whether orders in this status hold stock reservations.
func (s Status) ControlsStock() bool {
	return s == StatusEmPreparo || s == StatusPronto || s == StatusEntregue
}

// Terminal reports whether entering this status releases the bound code.
func (s Status) Terminal() bool {
	return s == StatusEntregue || s == StatusCancelado
}

// InvalidTransitionError names both ends of a rejected transition.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}
