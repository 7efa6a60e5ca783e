package handler

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/keydir/internal/model"
)

func handleError(err error) error {
	var serverErr *model.ServerError

	switch {
	case errors.Is(err, model.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, model.ErrAuth):
		return status.Error(codes.Unauthenticated, model.ErrAuth.Error())
	case errors.Is(err, model.ErrNotFound):
		return status.Error(codes.NotFound, "user not found")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	case errors.As(err, &serverErr):
		return status.Error(codes.Internal, serverErr.Message)
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}
