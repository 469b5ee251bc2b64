package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/abira1/nijhum-deep/internal/config"
	"github.com/abira1/nijhum-deep/internal/logger"
	"github.com/abira1/nijhum-deep/internal/store"
	"github.com/abira1/nijhum-deep/models"
)

// authService implements [AuthService]. Passwords are stored as bcrypt
// hashes; issued tokens carry the account's admin flag so the client-side
// permission provider can evaluate past-date mutations without a server
// round trip.
type authService struct {
	users store.UserRepository

	tokenSignKey  []byte
	tokenIssuer   string
	tokenDuration time.Duration

	logger *logger.Logger
}

// NewAuthService constructs an [AuthService] over the given user repository
// with the token parameters from cfg.
func NewAuthService(users store.UserRepository, cfg config.ServerAuth, logger *logger.Logger) AuthService {
	return &authService{
		users:         users,
		tokenSignKey:  []byte(cfg.TokenSignKey),
		tokenIssuer:   cfg.TokenIssuer,
		tokenDuration: cfg.TokenDuration,
		logger:        logger,
	}
}

// RegisterUser implements [AuthService].
func (a *authService) RegisterUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	if user.Login == "" || user.Password == "" {
		log.Error().Str("login", user.Login).Msg("invalid user data provided")
		return models.User{}, ErrInvalidDataProvided
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	user.Password = ""
	user.PasswordHash = string(hash)

	registeredUser, err := a.users.CreateUser(ctx, user)
	if err != nil {
		log.Err(err).Str("login", user.Login).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	return registeredUser, nil
}

// Login implements [AuthService].
func (a *authService) Login(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	if user.Login == "" || user.Password == "" {
		log.Error().Str("login", user.Login).Msg("invalid user data provided")
		return models.User{}, ErrInvalidDataProvided
	}

	foundUser, err := a.users.FindUserByLogin(ctx, user.Login)
	if err != nil {
		log.Err(err).Str("login", user.Login).Msg("user search by login failed")
		return models.User{}, fmt.Errorf("user search by login failed: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(foundUser.PasswordHash), []byte(user.Password)); err != nil {
		log.Warn().
			Int64("id", foundUser.UserID).
			Str("login", foundUser.Login).
			Msg("wrong password")
		return models.User{}, ErrWrongPassword
	}

	foundUser.PasswordHash = ""
	return foundUser, nil
}

// CreateToken implements [AuthService].
func (a *authService) CreateToken(_ context.Context, user models.User) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		Admin: user.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.tokenIssuer,
			Subject:   strconv.FormatInt(user.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenDuration)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.tokenSignKey)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return signed, nil
}

// ParseToken implements [AuthService].
func (a *authService) ParseToken(ctx context.Context, tokenString string) (*AccessClaims, error) {
	log := logger.FromContext(ctx)

	claims := &AccessClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (any, error) { return a.tokenSignKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(a.tokenIssuer),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrTokenIsExpired, err)
		}
		log.Err(err).Str("func", "authService.ParseToken").Msg("token parsing failed")
		return nil, fmt.Errorf("parse token: %w", err)
	}

	return claims, nil
}
