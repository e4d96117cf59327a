package services

import (
	"context"

	apperrors "campusperks/pkg/errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// TxRunner runs a function inside a backing-store transaction. Satisfied by
// database.MongoDB in production.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(sessCtx mongo.SessionContext) (interface{}, error)) (interface{}, error)
}

// storeErr translates driver connectivity failures into the retryable
// sentinel. Domain sentinels pass through unchanged.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return apperrors.ErrUnavailable
	}
	return err
}
