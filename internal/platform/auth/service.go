package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"library-api/internal/platform/apperr"
	"library-api/internal/platform/config"
	"library-api/internal/platform/db"
)

const (
	RoleAdmin     = "admin"
	RoleLibrarian = "librarian"

	msgLoginFailed    = "invalid id or password"
	msgDeleteSelf     = "Cannot delete own account"
	msgTokenNotIssued = "could not issue token"
)

// Claims は発行する JWT のペイロード
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Service struct {
	store  *Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(d *db.DB, cfg config.AuthConfig) *Service {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		store:  NewStore(d),
		secret: []byte(cfg.JWTSecret),
		ttl:    ttl,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Login verifies the password and issues a signed HS256 token.
func (s *Service) Login(ctx context.Context, id, password string) (string, error) {
	l, err := s.store.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if l == nil || l.IsDisabled {
		logrus.WithField("librarian_id", id).Warn("login rejected")
		return "", apperr.Unauthorized(msgLoginFailed)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(l.PasswordHash), []byte(password)); err != nil {
		logrus.WithField("librarian_id", id).Warn("login rejected: password mismatch")
		return "", apperr.Unauthorized(msgLoginFailed)
	}

	if len(s.secret) == 0 {
		logrus.WithField("librarian_id", id).Error("login: jwt secret is not configured")
		return "", apperr.Internal(msgTokenNotIssued)
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: l.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   l.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		logrus.WithError(err).WithField("librarian_id", id).Error("login: sign token")
		return "", apperr.Internal(msgTokenNotIssued)
	}
	return signed, nil
}

func (s *Service) Register(ctx context.Context, id, password, role string) error {
	if role == "" {
		role = RoleLibrarian
	}
	if role != RoleAdmin && role != RoleLibrarian {
		return apperr.Invalid("role must be admin or librarian")
	}

	exists, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if exists != nil {
		return apperr.Business("Librarian already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	err = s.store.Create(ctx, Librarian{
		ID:           id,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.now(),
	})
	if db.IsUniqueViolation(err) {
		return apperr.Business("Librarian already registered")
	}
	return err
}

// Delete removes id on behalf of actor. An account cannot delete itself.
func (s *Service) Delete(ctx context.Context, actor, id string) error {
	if actor != "" && actor == id {
		return apperr.Business(msgDeleteSelf)
	}
	n, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("librarian not found")
	}
	logrus.WithFields(logrus.Fields{"librarian_id": id, "deleted_by": actor}).Info("librarian deleted")
	return nil
}

// EnsureAdmin は初回起動用。admin アカウントが無ければ作る
func (s *Service) EnsureAdmin(ctx context.Context, id, password string) error {
	if id == "" || password == "" {
		return nil
	}
	l, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if l != nil {
		return nil
	}
	if err := s.Register(ctx, id, password, RoleAdmin); err != nil {
		return err
	}
	logrus.WithField("librarian_id", id).Info("bootstrap admin created")
	return nil
}

// Parse validates a bearer token and returns its claims.
func (s *Service) Parse(tokenStr string) (*Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return nil, apperr.Unauthorized("invalid token")
	}
	return &claims, nil
}
