package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/imf-ops/gadget-api/internal/models"
	"github.com/imf-ops/gadget-api/internal/repository"
	appErr "github.com/imf-ops/gadget-api/pkg/errors"
	"github.com/imf-ops/gadget-api/pkg/logger"
	"github.com/imf-ops/gadget-api/pkg/validation"
)

var (
	// ErrInvalidCredentials does not reveal whether the email or the password was wrong.
	ErrInvalidCredentials = appErr.New(appErr.CodeInvalidCredentials, "invalid credentials")
	// ErrInvalidToken covers malformed, expired and forged tokens alike.
	ErrInvalidToken = appErr.New(appErr.CodeUnauthorized, "invalid or expired token")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = appErr.New(appErr.CodeConflict, "email already registered")
	// ErrPasswordTooLong mirrors bcrypt's input limit.
	ErrPasswordTooLong = appErr.New(appErr.CodeInvalid, "password must be at most 72 bytes")
)

// maxPasswordBytes is bcrypt's input limit.
const maxPasswordBytes = 72

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (string, error)
	Login(ctx context.Context, input LoginInput) (string, error)
	Verify(ctx context.Context, token string) (uuid.UUID, error)
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthConfig carries the process-wide, read-only token settings.
type AuthConfig struct {
	Secret     []byte
	Issuer     string
	TokenTTL   time.Duration
	BcryptCost int
}

// Claims are the registered JWT claims; Subject holds the user id.
type Claims struct {
	jwt.RegisteredClaims
}

type authService struct {
	userRepo repository.UserRepository
	cfg      AuthConfig
	parser   *jwt.Parser
	// dummyHash is compared on unknown emails so both login failures cost a bcrypt round.
	dummyHash []byte
	compare   func(hash, password []byte) error
}

func NewAuthService(userRepo repository.UserRepository, cfg AuthConfig) AuthService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(cfg.Issuer))
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), cfg.BcryptCost)
	if err != nil {
		logger.L().Warn("dummy password hash failed", zap.Error(err))
	}
	return &authService{
		userRepo:  userRepo,
		cfg:       cfg,
		parser:    jwt.NewParser(parserOpts...),
		dummyHash: dummy,
		compare:   bcrypt.CompareHashAndPassword,
	}
}

var _ AuthService = (*authService)(nil)

func (s *authService) Register(ctx context.Context, input RegisterInput) (string, error) {
	if err := validation.Struct(input); err != nil {
		return "", err
	}

	ph, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cfg.BcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", appErr.Wrap(err, appErr.CodeInternal, "hash password failed")
	}

	user := &models.User{
		Email:        input.Email,
		PasswordHash: string(ph),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if appErr.IsCode(err, appErr.CodeConflict) {
			return "", ErrEmailTaken
		}
		return "", err
	}

	logger.L().Info("user registered", zap.String("user_id", user.ID.String()))
	return s.issue(user.ID)
}

func (s *authService) Login(ctx context.Context, input LoginInput) (string, error) {
	if err := validation.Struct(input); err != nil {
		return "", err
	}

	// No stored hash can match a password bcrypt would refuse to hash.
	if len(input.Password) > maxPasswordBytes {
		_ = s.compare(s.dummyHash, []byte(input.Password[:maxPasswordBytes]))
		return "", ErrInvalidCredentials
	}

	var user models.User
	if err := s.userRepo.GetByEmail(ctx, input.Email, &user); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			_ = s.compare(s.dummyHash, []byte(input.Password))
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := s.compare([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) || errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrInvalidCredentials
		}
		return "", appErr.Wrap(err, appErr.CodeInternal, "compare password failed")
	}

	return s.issue(user.ID)
}

// Verify checks signature, algorithm, issuer and expiry and returns the
// subject. Every failure yields ErrInvalidToken.
func (s *authService) Verify(_ context.Context, token string) (uuid.UUID, error) {
	claims := &Claims{}
	parsed, err := s.parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.cfg.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}

func (s *authService) issue(userID uuid.UUID) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(s.cfg.Secret)
	if err != nil {
		return "", appErr.Wrap(err, appErr.CodeInternal, "sign token failed")
	}
	return signed, nil
}
