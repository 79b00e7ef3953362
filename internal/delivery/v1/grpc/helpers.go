package grpc

import (
	"context"
	"errors"

	"github.com/Rafa-lopez12/examen-arqui/pkg/e"
	"github.com/Rafa-lopez12/examen-arqui/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var codeBySentinel = []struct {
	err  error
	code codes.Code
}{
	{e.ErrValidation, codes.InvalidArgument},
	{e.ErrStatusBadRequest, codes.InvalidArgument},
	{e.ErrInvalidID, codes.InvalidArgument},
	{e.ErrOrderNotFound, codes.NotFound},
	{e.ErrProductNotFound, codes.NotFound},
	{e.ErrCustomerNotFound, codes.NotFound},
	{e.ErrSessionNotFound, codes.NotFound},
	{e.ErrOrderNotPending, codes.FailedPrecondition},
	{e.ErrCheckoutClosed, codes.FailedPrecondition},
	{e.ErrOrderExists, codes.AlreadyExists},
	{e.ErrPaymentProvider, codes.Unavailable},
	{context.DeadlineExceeded, codes.DeadlineExceeded},
	{context.Canceled, codes.Canceled},
}

// GRPCErrorResponse converts a use case error into a status. Errors that are
// already statuses pass through, unknown ones become Internal.
func GRPCErrorResponse(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	for _, m := range codeBySentinel {
		if errors.Is(err, m.err) {
			return status.Error(m.code, m.err.Error())
		}
	}
	return status.Error(codes.Internal, e.ErrInternalServerError.Error())
}

func unaryErrorInterceptor(log logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		res, err := handler(ctx, req)
		if err != nil {
			mapped := GRPCErrorResponse(err)
			if status.Code(mapped) == codes.Internal {
				log.Errorf(err, "%s", info.FullMethod)
			}
			return res, mapped
		}
		return res, nil
	}
}
