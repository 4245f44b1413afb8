package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func TestInspector_Inspect(t *testing.T) {
	token := sign(t, Claims{UserID: "u1", Role: "sales_manager"})

	claims, err := NewInspector(0).Inspect(token)

	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject())
	assert.Equal(t, "sales_manager", claims.Role)
}

func TestInspector_SubjectFallback(t *testing.T) {
	token := sign(t, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u2"}})

	claims, err := NewInspector(0).Inspect(token)

	require.NoError(t, err)
	assert.Equal(t, "u2", claims.Subject())
}

func TestInspector_Expired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	in := NewInspector(30 * time.Second)
	in.now = func() time.Time { return now }

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"opaque", "abc", false},
		{"garbage with dots", "a.b.c", false},
		{"no exp", sign(t, Claims{UserID: "u"}), false},
		{"future", sign(t, Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}}), false},
		{"within leeway", sign(t, Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-10 * time.Second))}}), false},
		{"past", sign(t, Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour))}}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, in.Expired(tt.token))
		})
	}
}

func TestInspector_Opaque(t *testing.T) {
	_, err := NewInspector(0).Inspect("opaque-token")

	assert.ErrorIs(t, err, ErrOpaqueToken)
}

func TestInspector_ExpiresAt(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	token := sign(t, Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)}})

	got, ok := NewInspector(0).ExpiresAt(token)

	assert.True(t, ok)
	assert.True(t, exp.Equal(got))
}
