package service

import (
	"errors"
	"fmt"
)

// Typed error kinds surfaced by every service operation. Handlers map them
// to HTTP statuses via errors.Is; nothing is swallowed internally.
var (
	// ErrConflict: a register is already open for the tenant.
	ErrConflict = errors.New("ya existe una caja abierta para este negocio")
	// ErrInvalidState: the target register is not open, does not exist, or
	// belongs to another tenant. The three cases are deliberately not
	// distinguished to callers so tenant isolation leaks nothing.
	ErrInvalidState = errors.New("la caja no está abierta o no existe")
	// ErrValidation: non-positive amount, empty description, negative float.
	ErrValidation = errors.New("datos inválidos")
	// ErrAuthorization: the admin PIN challenge failed during a blind close.
	ErrAuthorization = errors.New("PIN de administrador incorrecto")
	// ErrStaleSummary: sales or movements landed while the close was in
	// flight; the operator must re-run the close against fresh figures.
	ErrStaleSummary = errors.New("el resumen cambió durante el cierre, vuelva a intentar")
)

// StoreError wraps a persistence-layer failure. The core never retries
// automatically — open/close/record are not idempotent, so a blind retry
// risks double-opening or double-recording.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store: %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op string, err error) error { return &StoreError{Op: op, Err: err} }

// IsStoreError reports whether err originated in the persistence layer.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
