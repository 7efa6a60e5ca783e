package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/keydir/internal/logger"
	"github.com/dtroode/keydir/internal/model"
)

// Users composes the gate and the directory into the operations exposed
// over the transport.
type Users struct {
	directory *Directory
	gate      *Gate
	logger    *logger.Logger
}

func NewUsers(directory *Directory, gate *Gate, logger *logger.Logger) *Users {
	return &Users{
		directory: directory,
		gate:      gate,
		logger:    logger,
	}
}

func (s *Users) Create(ctx context.Context, req model.CreateUserRequest) (model.User, error) {
	if err := req.Validate(); err != nil {
		return model.User{}, err
	}

	user, err := s.directory.CreateAndRegister(ctx, req.PublicKey, req.CredentialHash)
	if err != nil && user.UUID != "" {
		s.logger.Error("Users service: user stored without key index",
			"uuid", user.UUID,
			"error", err.Error())
		return model.User{}, model.NewServerError(
			fmt.Sprintf("user %s created but public key not indexed", user.UUID), err)
	}
	if err != nil {
		return model.User{}, model.NewServerError("failed to create user", err)
	}

	s.logger.Info("Users service: user created",
		"uuid", user.UUID)
	return user, nil
}

func (s *Users) Get(ctx context.Context, req model.GetUserRequest) (model.User, error) {
	if err := req.Validate(); err != nil {
		return model.User{}, err
	}

	user, ok, err := s.directory.GetUser(ctx, req.UUID)
	if err != nil {
		return model.User{}, model.NewServerError("failed to get user", err)
	}
	if !ok {
		return model.User{}, fmt.Errorf("user %s: %w", req.UUID, model.ErrNotFound)
	}
	return user, nil
}

func (s *Users) Delete(ctx context.Context, req model.DeleteUserRequest) (model.Status, error) {
	signed := req.Signed()
	if err := signed.Validate(); err != nil {
		return model.Status{}, err
	}

	user, err := s.gate.Authorize(ctx, signed)
	if err != nil {
		return model.Status{}, err
	}

	removed, err := s.directory.DeleteUser(ctx, user.UUID)
	if err != nil {
		return model.Status{}, model.NewServerError("failed to delete user", err)
	}
	if !removed {
		return model.Status{}, model.NewServerError("failed to delete user", nil)
	}

	if _, err := s.directory.RemovePublicKey(ctx, user.PublicKey, user.UUID); err != nil {
		s.logger.Error("Users service: user deleted but key kept in index",
			"uuid", user.UUID,
			"error", err.Error())
		return model.Status{}, model.NewServerError("failed to delete key", err)
	}

	s.logger.Info("Users service: user deleted",
		"uuid", user.UUID)
	return model.Status{Code: model.StatusAccepted}, nil
}

func (s *Users) UpdateHash(ctx context.Context, req model.UpdateHashRequest) (model.User, error) {
	signed := req.Signed()
	if err := signed.Validate(); err != nil {
		return model.User{}, err
	}

	user, err := s.gate.Authorize(ctx, signed)
	if err != nil {
		return model.User{}, err
	}

	updated, err := s.directory.UpdateCredentialHash(ctx, user.UUID, req.NewHash)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, err
	}
	if err != nil {
		return model.User{}, model.NewServerError("failed to update hash", err)
	}

	return updated, nil
}
