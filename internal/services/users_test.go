package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Register(t *testing.T) {
	env := setupServiceEnv(t)
	ctx := context.Background()

	user, token, err := env.account.Register(ctx, RegisterInput{
		Name: "Ada", Email: "  Ada@Example.com ", Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.NotEmpty(t, token)

	claims, err := env.tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, "ada@example.com", claims.Email)

	tests := []struct {
		name    string
		input   RegisterInput
		message string
	}{
		{"duplicate email", RegisterInput{Name: "Other", Email: "ADA@example.com", Password: "secret1"}, "email already in use"},
		{"short password", RegisterInput{Name: "Bob", Email: "bob@example.com", Password: "123"}, "password must be at least 6 characters"},
		{"missing name", RegisterInput{Email: "bob@example.com", Password: "secret1"}, "name is required"},
		{"missing email", RegisterInput{Name: "Bob", Password: "secret1"}, "email is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := env.account.Register(ctx, tt.input)
			assertKind(t, err, KindValidation)
			assert.Equal(t, tt.message, MessageOf(err))
		})
	}
}

func TestUserService_EmailInUse(t *testing.T) {
	env := setupServiceEnv(t)
	ctx := context.Background()
	env.createUser(t, "taken@example.com")

	inUse, err := env.account.EmailInUse(ctx, "Taken@Example.com")
	require.NoError(t, err)
	assert.True(t, inUse)

	inUse, err = env.account.EmailInUse(ctx, "free@example.com")
	require.NoError(t, err)
	assert.False(t, inUse)

	_, err = env.account.EmailInUse(ctx, " ")
	assertKind(t, err, KindValidation)
}

func TestAuthService_Login(t *testing.T) {
	env := setupServiceEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "login@example.com")

	token, loggedIn, err := env.auth.Login(ctx, "LOGIN@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	resolved, err := env.auth.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	_, _, err = env.auth.Login(ctx, "login@example.com", "wrong-password")
	assertKind(t, err, KindUnauthorized)
	assert.Equal(t, "invalid credentials", MessageOf(err))

	_, _, err = env.auth.Login(ctx, "nobody@example.com", "password123")
	assertKind(t, err, KindUnauthorized)
	assert.Equal(t, "invalid credentials", MessageOf(err))
}

func TestAuthService_Authenticate(t *testing.T) {
	env := setupServiceEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "auth@example.com")

	_, err := env.auth.Authenticate(ctx, "not-a-token")
	assertKind(t, err, KindUnauthorized)

	token, err := env.tokens.Generate(user)
	require.NoError(t, err)
	require.NoError(t, env.db.Delete(user).Error)

	_, err = env.auth.Authenticate(ctx, token)
	assertKind(t, err, KindUnauthorized)
	assert.Equal(t, "user not found", MessageOf(err))
}
