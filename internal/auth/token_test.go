package auth_test

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/golang-jwt/jwt"
	"github.com/nikolayk812/bookcart/internal/auth"
	"github.com/nikolayk812/bookcart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenParser(t *testing.T) {
	parser, err := auth.NewTokenParser("s3cret")
	require.NoError(t, err)

	user := domain.User{
		ID:    gofakeit.UUID(),
		Name:  gofakeit.Name(),
		Email: gofakeit.Email(),
	}

	valid, err := parser.Issue(user, time.Hour)
	require.NoError(t, err)

	expired, err := parser.Issue(user, -time.Minute)
	require.NoError(t, err)

	other, err := auth.NewTokenParser("other")
	require.NoError(t, err)
	foreign, err := other.Issue(user, time.Hour)
	require.NoError(t, err)

	noneSigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, auth.Claims{
		StandardClaims: jwt.StandardClaims{Subject: user.ID},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		wantAuth bool
	}{
		{name: "valid bearer token: authenticated", header: "Bearer " + valid, wantAuth: true},
		{name: "lowercase scheme: authenticated", header: "bearer " + valid, wantAuth: true},
		{name: "expired token: anonymous", header: "Bearer " + expired},
		{name: "wrong secret: anonymous", header: "Bearer " + foreign},
		{name: "alg none: anonymous", header: "Bearer " + noneSigned},
		{name: "missing scheme: anonymous", header: valid},
		{name: "empty header: anonymous", header: ""},
		{name: "garbage token: anonymous", header: "Bearer abc.def.ghi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parser.ParseHeader(tt.header)

			assert.Equal(t, tt.wantAuth, auth.CanShowCart(got))
			if tt.wantAuth {
				require.NotNil(t, got.User)
				assert.Equal(t, user, *got.User)
			}
		})
	}
}

func TestNewTokenParser_EmptySecret(t *testing.T) {
	_, err := auth.NewTokenParser("")
	require.EqualError(t, err, "secret is empty")
}
