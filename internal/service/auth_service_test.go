package service

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/minhvu/Skillport/config"
	"github.com/minhvu/Skillport/internal/dto"
	"github.com/minhvu/Skillport/internal/model"
)

func authFixture() (AuthService, *fakeUserRepo, *config.Config) {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTLMin = 60
	userRepo := &fakeUserRepo{}
	return NewAuthService(userRepo, cfg), userRepo, cfg
}

func parseSubject(t *testing.T, cfg *config.Config, tokenString string) string {
	t.Helper()
	token, err := jwt.Parse(tokenString, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.Auth.JWTSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	sub, err := token.Claims.GetSubject()
	require.NoError(t, err)
	return sub
}

func TestSignup(t *testing.T) {
	t.Run("creates the account and issues a token", func(t *testing.T) {
		svc, userRepo, cfg := authFixture()

		token, err := svc.Signup(dto.SignupRequest{
			Email: "new@example.com", FullName: "New User", Password: "secret-password",
		})

		require.NoError(t, err)
		assert.Equal(t, "bearer", token.TokenType)
		assert.Equal(t, "1", parseSubject(t, cfg, token.AccessToken))

		require.Len(t, userRepo.users, 1)
		stored := userRepo.users[0]
		assert.NotEqual(t, "secret-password", stored.PasswordHash, "never stored in the clear")
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret-password")))
	})

	t.Run("rejects a taken email", func(t *testing.T) {
		svc, userRepo, _ := authFixture()
		require.NoError(t, userRepo.Create(&model.User{Email: "taken@example.com"}))

		_, err := svc.Signup(dto.SignupRequest{Email: "taken@example.com", FullName: "X", Password: "secret-password"})

		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestLogin(t *testing.T) {
	seedUser := func(t *testing.T, userRepo *fakeUserRepo) {
		t.Helper()
		hash, err := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.MinCost)
		require.NoError(t, err)
		require.NoError(t, userRepo.Create(&model.User{Email: "user@example.com", PasswordHash: string(hash)}))
	}

	t.Run("valid credentials", func(t *testing.T) {
		svc, userRepo, cfg := authFixture()
		seedUser(t, userRepo)

		token, err := svc.Login(dto.LoginRequest{Email: "user@example.com", Password: "secret-password"})

		require.NoError(t, err)
		assert.Equal(t, "1", parseSubject(t, cfg, token.AccessToken))
	})

	t.Run("wrong password and unknown email look identical", func(t *testing.T) {
		svc, userRepo, _ := authFixture()
		seedUser(t, userRepo)

		_, wrongPassword := svc.Login(dto.LoginRequest{Email: "user@example.com", Password: "nope"})
		_, unknownEmail := svc.Login(dto.LoginRequest{Email: "ghost@example.com", Password: "secret-password"})

		assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
		assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
		assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	})
}
