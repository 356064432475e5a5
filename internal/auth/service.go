package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Service authenticates credentials against the store and mints/verifies
// session tokens. The store and the signing secret are read-only after
// construction, so the service is safe for concurrent use.
type Service struct {
	store  *Store
	secret []byte
	ttl    time.Duration
}

func NewService(store *Store, secret string, ttl time.Duration) *Service {
	return &Service{store: store, secret: []byte(secret), ttl: ttl}
}

// Claims binds a session to its subject login.
type Claims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Authenticate validates login and password. The active check is layered
// after credential verification, so a disabled account with the right
// password still reports ErrDisabled.
func (s *Service) Authenticate(login, password string) (Identity, error) {
	id, ok := s.store.Lookup(login)
	if !ok {
		return Identity{}, ErrUnknownIdentity
	}
	if err := bcrypt.CompareHashAndPassword([]byte(id.PasswordHash), []byte(password)); err != nil {
		return Identity{}, ErrBadCredential
	}
	if !id.Active {
		return Identity{}, ErrDisabled
	}
	return id, nil
}

// IssueToken mints a signed session token for the identity, valid for the
// configured duration from now.
func (s *Service) IssueToken(id Identity) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Name: id.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Login,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.secret)
}

// VerifyToken checks signature and expiry and resolves the subject in the
// store. There is no refresh and no server-side revocation: a token is a
// capability until it expires or the secret rotates.
func (s *Service) VerifyToken(token string) (Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrTokenExpired
		}
		return Identity{}, ErrTokenMalformed
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return Identity{}, ErrTokenMalformed
	}
	id, ok := s.store.Lookup(claims.Subject)
	if !ok {
		return Identity{}, ErrUnknownIdentity
	}
	if !id.Active {
		return Identity{}, ErrDisabled
	}
	return id, nil
}
