package api

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/solatis/craftbook/internal/core/db"
	"github.com/solatis/craftbook/internal/types"
)

// ErrNoDictionary is returned by Translate when the service runs without a dictionary.
var ErrNoDictionary = errors.New("no dictionary configured")

// toStatus maps domain errors onto gRPC status codes.
// Grammar errors are the caller's fault, missing identifiers are NOT_FOUND,
// and store failures are UNAVAILABLE so clients may retry.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	code := codes.Internal
	switch {
	case errors.Is(err, types.ErrMalformedToken),
		errors.Is(err, types.ErrUnexpectedEnd),
		errors.Is(err, types.ErrStructuralMismatch),
		errors.Is(err, types.ErrEmptyExpression):
		code = codes.InvalidArgument
	case errors.Is(err, types.ErrIdentifierNotFound):
		code = codes.NotFound
	// Context errors win over ErrUnavailable, which wraps them on store lookups.
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	case errors.Is(err, db.ErrUnavailable):
		code = codes.Unavailable
	case errors.Is(err, ErrNoDictionary):
		code = codes.FailedPrecondition
	}
	return status.Error(code, err.Error())
}
