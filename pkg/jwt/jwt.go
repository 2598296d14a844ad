// Package jwt emite y verifica los tokens de sesión de la API (HS256).
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrEmptySecret  = errors.New("jwt: secret vacío")
	ErrInvalidToken = errors.New("jwt: token inválido")
)

// Identity usuario, empresa y rol que viajan en el token.
type Identity struct {
	UserID    string
	CompanyID string
	Role      string
}

// sessionClaims el sujeto es el usuario; la empresa y el rol van como claims propios.
type sessionClaims struct {
	jwt.RegisteredClaims
	CompanyID string `json:"company_id"`
	Role      string `json:"role,omitempty"`
}

// Signer firma y verifica tokens con un secreto compartido y un emisor fijo.
type Signer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner ttl <= 0 usa una hora.
func NewSigner(secret, issuer string, ttl time.Duration) (*Signer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Signer{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}, nil
}

// WithClock copia del signer con otro reloj.
func (s *Signer) WithClock(now func() time.Time) *Signer {
	cp := *s
	cp.now = now
	return &cp
}

// TTL vigencia de los tokens emitidos.
func (s *Signer) TTL() time.Duration { return s.ttl }

// Sign emite un token para id y devuelve también su vencimiento.
func (s *Signer) Sign(id Identity) (string, time.Time, error) {
	if id.UserID == "" || id.CompanyID == "" {
		return "", time.Time{}, fmt.Errorf("jwt: identidad sin usuario o empresa")
	}
	now := s.now()
	exp := now.Add(s.ttl)
	c := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		CompanyID: id.CompanyID,
		Role:      id.Role,
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("jwt: firmar: %w", err)
	}
	return tok, exp, nil
}

// Verify valida firma, emisor y vigencia. Un token sin rol es válido: decide quien autoriza.
func (s *Signer) Verify(token string) (Identity, error) {
	var c sessionClaims
	_, err := jwt.ParseWithClaims(token, &c,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.Subject == "" || c.CompanyID == "" {
		return Identity{}, fmt.Errorf("%w: sin usuario o empresa", ErrInvalidToken)
	}
	return Identity{UserID: c.Subject, CompanyID: c.CompanyID, Role: c.Role}, nil
}
