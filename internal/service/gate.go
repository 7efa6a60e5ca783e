package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dtroode/keydir/internal/logger"
	"github.com/dtroode/keydir/internal/model"
	"github.com/dtroode/keydir/internal/signature"
)

// millisecondThreshold separates Unix-second timestamps from
// Unix-millisecond ones.
const millisecondThreshold = 1_000_000_000_000

// Verifier is the signature capability used by the gate.
type Verifier interface {
	ParseSignature(sig string) (signature.Signature, error)
	Verify(message, publicKey string, sig signature.Signature) error
}

// UserReader resolves the user whose key verifies a request.
type UserReader interface {
	GetUser(ctx context.Context, uuid string) (model.User, bool, error)
}

// GateOption customizes a Gate.
type GateOption func(*Gate)

// WithMaxSkew rejects requests whose timestamp is further than skew from
// the current time. Zero disables the check.
func WithMaxSkew(skew time.Duration) GateOption {
	return func(g *Gate) {
		g.maxSkew = skew
	}
}

// WithClock overrides the time source used by the skew check.
func WithClock(now func() time.Time) GateOption {
	return func(g *Gate) {
		g.now = now
	}
}

// Gate authorizes signed requests against the key stored with the user.
type Gate struct {
	users    UserReader
	verifier Verifier
	logger   *logger.Logger
	maxSkew  time.Duration
	now      func() time.Time
}

func NewGate(users UserReader, verifier Verifier, logger *logger.Logger, opts ...GateOption) *Gate {
	g := &Gate{
		users:    users,
		verifier: verifier,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Authorize returns the signing user. Every signature problem collapses to
// model.ErrAuth; an unknown uuid is model.ErrNotFound.
func (g *Gate) Authorize(ctx context.Context, req model.SignedRequest) (model.User, error) {
	message := req.Message()

	sig, err := g.verifier.ParseSignature(req.Signature)
	if err != nil {
		g.logger.Debug("Gate service: malformed signature",
			"uuid", req.UUID,
			"error", err.Error())
		return model.User{}, model.ErrAuth
	}

	user, ok, err := g.users.GetUser(ctx, req.UUID)
	if err != nil {
		g.logger.Error("Gate service: failed to load user",
			"uuid", req.UUID,
			"error", err.Error())
		return model.User{}, model.ErrAuth
	}
	if !ok {
		return model.User{}, fmt.Errorf("user %s: %w", req.UUID, model.ErrNotFound)
	}

	if err := g.verifier.Verify(message, user.PublicKey, sig); err != nil {
		g.logger.Info("Gate service: signature rejected",
			"uuid", req.UUID,
			"error", err.Error())
		return model.User{}, model.ErrAuth
	}

	if err := g.checkFreshness(req.Timestamp); err != nil {
		g.logger.Info("Gate service: stale request",
			"uuid", req.UUID,
			"timestamp", req.Timestamp,
			"error", err.Error())
		return model.User{}, model.ErrAuth
	}

	return user, nil
}

func (g *Gate) checkFreshness(timestamp string) error {
	if g.maxSkew <= 0 {
		return nil
	}

	n, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("timestamp is not numeric: %w", err)
	}

	var ts time.Time
	if n >= millisecondThreshold {
		ts = time.UnixMilli(n)
	} else {
		ts = time.Unix(n, 0)
	}

	skew := g.now().Sub(ts)
	if skew < 0 {
		skew = -skew
	}
	if skew > g.maxSkew {
		return fmt.Errorf("timestamp off by %s", skew)
	}
	return nil
}
