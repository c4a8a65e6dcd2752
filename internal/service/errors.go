package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dan9191/finance-service/internal/store"
	"github.com/Dan9191/finance-service/internal/utils"
	"github.com/sirupsen/logrus"
)

// Error kinds. Handlers map them to HTTP statuses with errors.Is.
var (
	ErrValidation       = errors.New("validation failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrReferenced       = errors.New("referenced")
	ErrConcurrentUpdate = errors.New("concurrent update")
	ErrUnavailable      = errors.New("unavailable")
)

// Error is an expected failure with a message safe to show to the caller
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func validationf(format string, args ...interface{}) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func notFound(entity string) error {
	return &Error{Kind: ErrNotFound, Message: entity + " not found"}
}

func conflictf(format string, args ...interface{}) error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

func referencedf(format string, args ...interface{}) error {
	return &Error{Kind: ErrReferenced, Message: fmt.Sprintf(format, args...)}
}

func unavailable(message string) error {
	return &Error{Kind: ErrUnavailable, Message: message}
}

// fail turns store errors into service errors. Anything unexpected is logged
// with its context and returned wrapped so the handler answers with a generic 500.
func (s *Service) fail(ctx context.Context, op, entity string, ownerID int64, err error) error {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return err
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		return notFound(entity)
	case errors.Is(err, store.ErrDuplicate):
		return conflictf("%s already exists", entity)
	case errors.Is(err, store.ErrReferenced):
		return referencedf("%s is referenced by other records", entity)
	case errors.Is(err, store.ErrOutOfRange):
		return validationf("%s amount is out of range", entity)
	case errors.Is(err, store.ErrSerialization):
		return &Error{Kind: ErrConcurrentUpdate, Message: "concurrent update, please retry"}
	case errors.Is(err, store.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return unavailable("temporarily unavailable, please retry")
	}

	s.log.WithFields(logrus.Fields{
		"owner":      ownerID,
		"entity":     entity,
		"op":         op,
		"request_id": utils.RequestID(ctx),
	}).WithError(err).Error("Unexpected failure")
	return fmt.Errorf("%s %s: %w", op, entity, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
