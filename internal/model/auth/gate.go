package auth

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"max.ks1230/personal-ledger/internal/entity/user"
	"max.ks1230/personal-ledger/internal/logger"
	"max.ks1230/personal-ledger/internal/model/customerr"
)

type userStorage interface {
	CreateUser(ctx context.Context, u user.User) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (user.User, error)
}

type config interface {
	CredentialCost() int
}

// Gate registers users and turns valid credentials into sessions.
type Gate struct {
	storage userStorage
	cost    int
}

func NewGate(storage userStorage, config config) *Gate {
	cost := config.CredentialCost()
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Gate{
		storage: storage,
		cost:    cost,
	}
}

func (g *Gate) Register(ctx context.Context, username, credential string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return 0, customerr.Validation("username", "is empty")
	}
	if credential == "" {
		return 0, customerr.Validation("credential", "is empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(credential), g.cost)
	if err != nil {
		// bcrypt refuses credentials longer than 72 bytes
		return 0, customerr.Validation("credential", err.Error())
	}

	id, err := g.storage.CreateUser(ctx, user.User{Username: username, Credential: string(hash)})
	if err != nil {
		return 0, errors.Wrap(err, "register")
	}

	logger.Info("user registered", zap.Int64("userID", id), zap.String("username", username))
	return id, nil
}

func (g *Gate) Login(ctx context.Context, username, credential string) (Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || credential == "" {
		return Session{}, customerr.Auth("username and credential are required")
	}

	u, err := g.storage.GetUserByUsername(ctx, username)
	if customerr.IsNotFound(err) {
		return Session{}, customerr.Auth("unknown username or wrong credential")
	}
	if err != nil {
		return Session{}, errors.Wrap(err, "login")
	}

	err = bcrypt.CompareHashAndPassword([]byte(u.Credential), []byte(credential))
	if err != nil {
		logger.Info("login rejected", zap.String("username", username))
		return Session{}, customerr.Auth("unknown username or wrong credential")
	}

	logger.Info("login", zap.Int64("userID", u.ID))
	return Session{userID: u.ID, username: u.Username}, nil
}
