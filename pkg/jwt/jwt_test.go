package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func newTestSigner(t *testing.T) *Signer {
	t.Helper()
	s, err := NewSigner("secreto-de-prueba", "renewal-tracking-test", 30*time.Minute)
	require.NoError(t, err)
	return s.WithClock(func() time.Time { return t0 })
}

func TestSignVerify_ConservaIdentidad(t *testing.T) {
	s := newTestSigner(t)
	tok, exp, err := s.Sign(Identity{UserID: "u-1", CompanyID: "c-1", Role: "ventas"})
	require.NoError(t, err)
	assert.Equal(t, t0.Add(30*time.Minute), exp)

	id, err := s.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: "u-1", CompanyID: "c-1", Role: "ventas"}, id)
}

func TestNewSigner_SecretoVacioYTTLPorDefecto(t *testing.T) {
	_, err := NewSigner("", "x", time.Minute)
	assert.ErrorIs(t, err, ErrEmptySecret)

	s, err := NewSigner("k", "x", 0)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, s.TTL())
}

func TestSign_IdentidadIncompleta(t *testing.T) {
	s := newTestSigner(t)
	_, _, err := s.Sign(Identity{UserID: "u-1"})
	assert.Error(t, err)
}

func TestVerify_Rechazos(t *testing.T) {
	s := newTestSigner(t)
	tok, _, err := s.Sign(Identity{UserID: "u-1", CompanyID: "c-1", Role: "admin"})
	require.NoError(t, err)

	// vencido
	late := s.WithClock(func() time.Time { return t0.Add(31 * time.Minute) })
	_, err = late.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// otro secreto
	other, err := NewSigner("otro-secreto", "renewal-tracking-test", time.Hour)
	require.NoError(t, err)
	_, err = other.WithClock(func() time.Time { return t0 }).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// otro emisor
	foreign, err := NewSigner("secreto-de-prueba", "otro-emisor", time.Hour)
	require.NoError(t, err)
	_, err = foreign.WithClock(func() time.Time { return t0 }).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_SinVencimientoOAlgoritmoNone(t *testing.T) {
	s := newTestSigner(t)

	noExp := gojwt.NewWithClaims(gojwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: gojwt.RegisteredClaims{Issuer: "renewal-tracking-test", Subject: "u-1"},
		CompanyID:        "c-1",
	})
	tok, err := noExp.SignedString([]byte("secreto-de-prueba"))
	require.NoError(t, err)
	_, err = s.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := gojwt.NewWithClaims(gojwt.SigningMethodNone, sessionClaims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer: "renewal-tracking-test", Subject: "u-1",
			ExpiresAt: gojwt.NewNumericDate(t0.Add(time.Hour)),
		},
		CompanyID: "c-1",
	})
	tok, err = none.SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = s.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_TokenSinRolEsValido(t *testing.T) {
	s := newTestSigner(t)
	tok, _, err := s.Sign(Identity{UserID: "u-1", CompanyID: "c-1"})
	require.NoError(t, err)

	id, err := s.Verify(tok)
	require.NoError(t, err)
	assert.Empty(t, id.Role)
}
