package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/dtroode/keydir/internal/logger"
	"github.com/dtroode/keydir/internal/model"
)

const defaultIndexRetryAttempts = 3

// DirectoryOption customizes a Directory.
type DirectoryOption func(*Directory)

// WithIndexRetry sets how many times CreateAndRegister retries a failed
// index registration and which backoff policy spaces the attempts.
func WithIndexRetry(attempts uint64, newBackOff func() backoff.BackOff) DirectoryOption {
	return func(d *Directory) {
		d.retryAttempts = attempts
		if newBackOff != nil {
			d.newBackOff = newBackOff
		}
	}
}

// WithIDGenerator replaces the UUID v4 generator.
func WithIDGenerator(newID func() string) DirectoryOption {
	return func(d *Directory) {
		d.newID = newID
	}
}

// Directory keeps user records and the public key index consistent on top
// of a single backend.
type Directory struct {
	storage model.Backend
	logger  *logger.Logger

	// indexMu serializes read-modify-write cycles of the index document.
	indexMu sync.Mutex

	newID         func() string
	retryAttempts uint64
	newBackOff    func() backoff.BackOff
}

func NewDirectory(storage model.Backend, logger *logger.Logger, opts ...DirectoryOption) *Directory {
	d := &Directory{
		storage:       storage,
		logger:        logger,
		newID:         func() string { return uuid.NewString() },
		retryAttempts: defaultIndexRetryAttempts,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Directory) CreateUser(ctx context.Context, publicKey, credentialHash string) (model.User, error) {
	user := model.User{
		UUID:           d.newID(),
		PublicKey:      publicKey,
		CredentialHash: credentialHash,
	}

	if err := d.saveUser(ctx, user); err != nil {
		d.logger.Error("Directory service: failed to create user",
			"uuid", user.UUID,
			"error", err.Error())
		return model.User{}, err
	}

	d.logger.Debug("Directory service: user created",
		"uuid", user.UUID)
	return user, nil
}

// GetUser returns ok == false for a missing record, for an id no backend
// can store and for a record that no longer decodes. Backend I/O failures
// are returned as errors.
func (d *Directory) GetUser(ctx context.Context, id string) (model.User, bool, error) {
	doc, ok, err := d.storage.Get(ctx, model.UserKey(id))
	if errors.Is(err, model.ErrInvalidKey) {
		return model.User{}, false, nil
	}
	if err != nil {
		return model.User{}, false, fmt.Errorf("failed to get user: %w", err)
	}
	if !ok {
		return model.User{}, false, nil
	}

	user, err := model.DecodeUser(doc)
	if err != nil {
		d.logger.Warn("Directory service: unreadable user record treated as absent",
			"uuid", id,
			"error", err.Error())
		return model.User{}, false, nil
	}

	return user, true, nil
}

func (d *Directory) DeleteUser(ctx context.Context, id string) (bool, error) {
	removed, err := d.storage.Delete(ctx, model.UserKey(id))
	if errors.Is(err, model.ErrInvalidKey) {
		return false, nil
	}
	if err != nil {
		d.logger.Error("Directory service: failed to delete user",
			"uuid", id,
			"error", err.Error())
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	return removed, nil
}

func (d *Directory) UpdateCredentialHash(ctx context.Context, id, newHash string) (model.User, error) {
	user, ok, err := d.GetUser(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if !ok {
		return model.User{}, fmt.Errorf("user %s: %w", id, model.ErrNotFound)
	}

	user.CredentialHash = newHash
	if err := d.saveUser(ctx, user); err != nil {
		d.logger.Error("Directory service: failed to update hash",
			"uuid", id,
			"error", err.Error())
		return model.User{}, err
	}

	return user, nil
}

// RegisterPublicKey maps publicKey to id, replacing any previous mapping.
func (d *Directory) RegisterPublicKey(ctx context.Context, publicKey, id string) error {
	d.indexMu.Lock()
	defer d.indexMu.Unlock()

	index, err := d.loadIndex(ctx)
	if err != nil {
		return err
	}

	index.Put(publicKey, id)
	return d.saveIndex(ctx, index)
}

// ResolveUUIDByPublicKey reads the index. An undecodable index resolves
// nothing; writers still refuse to overwrite it.
func (d *Directory) ResolveUUIDByPublicKey(ctx context.Context, publicKey string) (string, bool, error) {
	index, err := d.loadIndex(ctx)
	if errors.Is(err, model.ErrSerialization) {
		d.logger.Warn("Directory service: unreadable key index treated as empty",
			"error", err.Error())
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	id, ok := index.Lookup(publicKey)
	return id, ok, nil
}

// RemovePublicKey drops the mapping of publicKey only while it still points
// at id.
func (d *Directory) RemovePublicKey(ctx context.Context, publicKey, id string) (bool, error) {
	d.indexMu.Lock()
	defer d.indexMu.Unlock()

	index, err := d.loadIndex(ctx)
	if err != nil {
		return false, err
	}

	if !index.Remove(publicKey, id) {
		return false, nil
	}
	if err := d.saveIndex(ctx, index); err != nil {
		return false, err
	}
	return true, nil
}

// CreateAndRegister creates a user and indexes its public key. Index
// registration is retried with backoff. When it still fails the user record
// is kept and the returned error carries its UUID.
func (d *Directory) CreateAndRegister(ctx context.Context, publicKey, credentialHash string) (model.User, error) {
	user, err := d.CreateUser(ctx, publicKey, credentialHash)
	if err != nil {
		return model.User{}, err
	}

	attempt := 0
	register := func() error {
		attempt++
		err := d.RegisterPublicKey(ctx, publicKey, user.UUID)
		if err == nil {
			return nil
		}
		d.logger.Warn("Directory service: failed to register public key",
			"uuid", user.UUID,
			"attempt", attempt,
			"error", err.Error())
		if errors.Is(err, model.ErrSerialization) {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(d.newBackOff(), d.retryAttempts), ctx)
	if err := backoff.Retry(register, policy); err != nil {
		d.logger.Error("Directory service: user created without index entry",
			"uuid", user.UUID,
			"error", err.Error())
		return user, fmt.Errorf("user %s created but public key not indexed: %w", user.UUID, err)
	}

	return user, nil
}

func (d *Directory) saveUser(ctx context.Context, user model.User) error {
	doc, err := model.EncodeUser(user)
	if err != nil {
		return err
	}
	if err := d.storage.Set(ctx, model.UserKey(user.UUID), doc); err != nil {
		return fmt.Errorf("failed to save user: %w", asStorageErr(err))
	}
	return nil
}

func (d *Directory) loadIndex(ctx context.Context) (model.PublicKeyIndex, error) {
	doc, ok, err := d.storage.Get(ctx, model.PublicKeysKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load key index: %w", asStorageErr(err))
	}
	if !ok {
		return model.PublicKeyIndex{}, nil
	}
	return model.DecodeIndex(doc)
}

func (d *Directory) saveIndex(ctx context.Context, index model.PublicKeyIndex) error {
	doc, err := model.EncodeIndex(index)
	if err != nil {
		return err
	}
	if err := d.storage.Set(ctx, model.PublicKeysKey, doc); err != nil {
		return fmt.Errorf("failed to save key index: %w", asStorageErr(err))
	}
	return nil
}

// asStorageErr tags backend errors that are not already classified.
func asStorageErr(err error) error {
	if errors.Is(err, model.ErrStorage) || errors.Is(err, model.ErrInvalidKey) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", model.ErrStorage, err)
}
