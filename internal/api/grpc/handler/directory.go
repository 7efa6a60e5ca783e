package handler

import (
	"context"

	pb "github.com/dtroode/keydir/internal/api/grpc/directorypb"
	"github.com/dtroode/keydir/internal/logger"
	"github.com/dtroode/keydir/internal/model"
)

// UsersService defines the user operations exposed over gRPC.
type UsersService interface {
	Create(ctx context.Context, req model.CreateUserRequest) (model.User, error)
	Get(ctx context.Context, req model.GetUserRequest) (model.User, error)
	Delete(ctx context.Context, req model.DeleteUserRequest) (model.Status, error)
	UpdateHash(ctx context.Context, req model.UpdateHashRequest) (model.User, error)
}

// Directory handles gRPC endpoints of the user directory.
type Directory struct {
	pb.UnimplementedDirectoryServer
	users  UsersService
	logger *logger.Logger
}

// NewDirectory creates a new Directory handler.
func NewDirectory(users UsersService, logger *logger.Logger) *Directory {
	return &Directory{
		users:  users,
		logger: logger,
	}
}

// CreateUser registers a user and indexes its public key.
func (h *Directory) CreateUser(ctx context.Context, req *pb.CreateUserRequest) (*pb.User, error) {
	h.logger.Debug("Directory handler: processing create user request")

	user, err := h.users.Create(ctx, model.CreateUserRequest{
		PublicKey:      req.PublicKey,
		CredentialHash: req.Hash,
	})
	if err != nil {
		h.logger.Error("Directory handler: create user failed",
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Directory handler: create user completed",
		"uuid", user.UUID)

	return toProtoUser(user), nil
}

// GetUser returns a user by UUID.
func (h *Directory) GetUser(ctx context.Context, req *pb.GetUserRequest) (*pb.User, error) {
	user, err := h.users.Get(ctx, model.GetUserRequest{UUID: req.UUID})
	if err != nil {
		h.logger.Debug("Directory handler: get user failed",
			"uuid", req.UUID,
			"error", err.Error())
		return nil, handleError(err)
	}

	return toProtoUser(user), nil
}

// DeleteUser removes a user after verifying the request signature.
func (h *Directory) DeleteUser(ctx context.Context, req *pb.DeleteUserRequest) (*pb.DeleteUserResponse, error) {
	h.logger.Debug("Directory handler: processing delete user request",
		"uuid", req.UUID)

	st, err := h.users.Delete(ctx, model.DeleteUserRequest{
		Timestamp: req.Timestamp,
		UUID:      req.UUID,
		Hash:      req.Hash,
		Signature: req.Signature,
	})
	if err != nil {
		h.logger.Error("Directory handler: delete user failed",
			"uuid", req.UUID,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Directory handler: delete user completed",
		"uuid", req.UUID)

	return &pb.DeleteUserResponse{Code: st.Code}, nil
}

// UpdateHash replaces the credential hash after verifying the request
// signature.
func (h *Directory) UpdateHash(ctx context.Context, req *pb.UpdateHashRequest) (*pb.User, error) {
	h.logger.Debug("Directory handler: processing update hash request",
		"uuid", req.UUID)

	user, err := h.users.UpdateHash(ctx, model.UpdateHashRequest{
		Timestamp: req.Timestamp,
		UUID:      req.UUID,
		NewHash:   req.Hash,
		Signature: req.Signature,
	})
	if err != nil {
		h.logger.Error("Directory handler: update hash failed",
			"uuid", req.UUID,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Directory handler: update hash completed",
		"uuid", req.UUID)

	return toProtoUser(user), nil
}

func toProtoUser(u model.User) *pb.User {
	return &pb.User{
		UUID:      u.UUID,
		PublicKey: u.PublicKey,
		Hash:      u.CredentialHash,
	}
}
