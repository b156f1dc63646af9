package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T) *Signer {
	t.Helper()
	_, key, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	s, err := NewSigner("test-key", key)
	require.NoError(t, err)
	return s
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestSigner(t)
	v := s.Verifier("enroll-test")

	now := time.Now().UTC()
	claims := NewAccessClaims("user-1", "a@x.com", "student", "enroll-test", time.Hour, now)

	token, err := s.Sign(claims)
	require.NoError(t, err)
	require.Equal(t, 3, strings.Count(token, ".")+1, "JWT should have three segments")

	got, err := v.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.Subject)
	require.Equal(t, "a@x.com", got.Email)
	require.Equal(t, "student", got.Role)
	require.Equal(t, TokenTypeAccess, got.TokenType)
	require.NoError(t, got.ValidateType(TokenTypeAccess))
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	s := newTestSigner(t)
	v := s.Verifier("")

	claims := NewAccessClaims("user-1", "a@x.com", "student", "", time.Hour,
		time.Now().UTC().Add(-2*time.Hour))

	token, err := s.Sign(claims)
	require.NoError(t, err)

	_, err = v.Verify(token)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	t.Parallel()

	s := newTestSigner(t)
	v := s.Verifier("")

	token, err := s.Sign(NewAccessClaims("user-1", "a@x.com", "student", "", time.Hour, time.Now().UTC()))
	require.NoError(t, err)

	// Flip a character in the signature segment.
	i := strings.LastIndex(token, ".") + 1
	tampered := token[:i] + flipChar(token[i:])

	_, err = v.Verify(tampered)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	t.Parallel()

	s1 := newTestSigner(t)
	s2 := newTestSigner(t)

	token, err := s1.Sign(NewAccessClaims("user-1", "a@x.com", "student", "", time.Hour, time.Now().UTC()))
	require.NoError(t, err)

	// s2's verifier knows the same kid but a different public key.
	_, err = s2.Verifier("").Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsIssuerMismatch(t *testing.T) {
	t.Parallel()

	s := newTestSigner(t)
	v := s.Verifier("expected-issuer")

	token, err := s.Sign(NewAccessClaims("user-1", "a@x.com", "student", "other-issuer", time.Hour, time.Now().UTC()))
	require.NoError(t, err)

	_, err = v.Verify(token)
	require.ErrorIs(t, err, ErrIssuer)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()

	v := newTestSigner(t).Verifier("")

	for _, in := range []string{"", "abc", "a.b.c", "not even close"} {
		_, err := v.Verify(in)
		require.Error(t, err, "input %q", in)
	}
}

func TestRenewalClaimsCarryNoProfileData(t *testing.T) {
	t.Parallel()

	claims := NewRenewalClaims("user-1", "enroll", DefaultRenewalTokenTTL, time.Now().UTC())
	require.Equal(t, TokenTypeRenewal, claims.TokenType)
	require.Empty(t, claims.Email)
	require.Empty(t, claims.Role)
	require.ErrorIs(t, claims.ValidateType(TokenTypeAccess), ErrTokenType)
}

func TestLoadOrGenerateSignerPersistsKey(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "keys", "signing.pem")

	s1, err := LoadOrGenerateSigner("k1", path)
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err, "key file should have been created")

	// Loading again must return the same keypair.
	s2, err := LoadOrGenerateSigner("k1", path)
	require.NoError(t, err)
	require.Equal(t, s1.Public(), s2.Public())

	// Tokens signed by one load verify under the other.
	token, err := s1.Sign(NewAccessClaims("u", "e@x.com", "admin", "", time.Hour, time.Now().UTC()))
	require.NoError(t, err)
	_, err = s2.Verifier("").Verify(token)
	require.NoError(t, err)
}

func TestLoadOrGenerateSignerEphemeral(t *testing.T) {
	t.Parallel()

	s1, err := LoadOrGenerateSigner("k1", "")
	require.NoError(t, err)
	s2, err := LoadOrGenerateSigner("k1", "")
	require.NoError(t, err)
	require.NotEqual(t, s1.Public(), s2.Public(), "ephemeral keys must be fresh")
}

func flipChar(s string) string {
	b := []byte(s)
	if b[0] == 'A' {
		b[0] = 'B'
	} else {
		b[0] = 'A'
	}
	return string(b)
}
