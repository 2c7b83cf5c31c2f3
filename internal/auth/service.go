package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SignupInput is a validated signup request.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput is a validated login request.
type LoginInput struct {
	Email    string
	Password string
}

// Session is the result of a successful signup or login.
type Session struct {
	Token string
	User  PublicUser
}

// Service orchestrates signup, login and token authentication.
type Service struct {
	users     UserRepository
	hasher    Hasher
	tokens    TokenIssuer
	logger    *zap.Logger
	dummyHash string
	now       func() time.Time
}

// NewService creates an auth service. It hashes a throwaway password up front so
// logins for unknown emails cost the same as a wrong password.
func NewService(users UserRepository, hasher Hasher, tokens TokenIssuer, logger *zap.Logger) (*Service, error) {
	dummyHash, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}

	return &Service{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger,
		dummyHash: dummyHash,
		now:       time.Now,
	}, nil
}

// Signup registers a new user and issues a token for it.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*Session, error) {
	email := NormalizeEmail(in.Email)
	log := s.logger.With(zap.String("op", "auth.Signup"), zap.String("email", email))

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		log.Error("failed to look up user", zap.Error(err))

		return nil, fmt.Errorf("look up user: %w", err)
	}

	if existing != nil {
		log.Info("user already exists")

		return nil, ErrUserExists
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))

		return nil, err
	}

	user := &User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}

	if err = s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			log.Info("user already exists")

			return nil, ErrUserExists
		}

		log.Error("failed to create user", zap.Error(err))

		return nil, fmt.Errorf("create user: %w", err)
	}

	log.Info("user created", zap.String("userId", user.ID))

	return s.issue(log, user)
}

// Login checks the credentials and issues a fresh token.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	email := NormalizeEmail(in.Email)
	log := s.logger.With(zap.String("op", "auth.Login"), zap.String("email", email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			log.Error("failed to look up user", zap.Error(err))

			return nil, fmt.Errorf("look up user: %w", err)
		}

		_ = s.hasher.Compare(s.dummyHash, in.Password)

		log.Info("login failed: unknown email")

		return nil, ErrInvalidCredentials
	}

	if err = s.hasher.Compare(user.PasswordHash, in.Password); err != nil {
		if !errors.Is(err, ErrPasswordMismatch) {
			log.Error("failed to compare password", zap.Error(err))
		} else {
			log.Info("login failed: wrong password")
		}

		return nil, ErrInvalidCredentials
	}

	log.Info("login successful", zap.String("userId", user.ID))

	return s.issue(log, user)
}

// Authenticate turns a token into the principal it identifies. Every failure
// is reported as ErrUnauthorized.
func (s *Service) Authenticate(token string) (*Principal, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		s.logger.Debug("token verification failed", zap.Error(err))

		return nil, ErrUnauthorized
	}

	return &Principal{
		UserID: claims.UserID,
		Email:  claims.Email,
		Name:   claims.Name,
	}, nil
}

func (s *Service) issue(log *zap.Logger, user *User) (*Session, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		log.Error("failed to issue token", zap.Error(err))

		return nil, err
	}

	return &Session{Token: token, User: user.Public()}, nil
}
