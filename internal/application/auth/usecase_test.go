package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/autopartes-api/internal/application/auth"
	"github.com/jhoicas/autopartes-api/internal/application/dto"
	"github.com/jhoicas/autopartes-api/internal/domain"
	"github.com/jhoicas/autopartes-api/internal/domain/entity"
	"github.com/jhoicas/autopartes-api/internal/testutil/memstore"
	"github.com/jhoicas/autopartes-api/pkg/jwt"
)

const secret = "secreto-de-pruebas"

func newAuth(t *testing.T, status string) *auth.AuthUseCase {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("clave123"), bcrypt.MinCost)
	require.NoError(t, err)
	db := memstore.New()
	db.AddUser(&entity.User{
		ID:           "u-1",
		Email:        "vendedor@autopartes.test",
		PasswordHash: string(hash),
		Name:         "Vendedor",
		Role:         entity.RoleSeller,
		Status:       status,
	})
	return auth.NewAuthUseCase(db.Users(), auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "autopartes-api"})
}

func TestLogin_EmiteTokenConRol(t *testing.T) {
	uc := newAuth(t, auth.StatusActive)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: "VENDEDOR@autopartes.test", Password: "clave123"})
	require.NoError(t, err)
	assert.Equal(t, "u-1", out.User.ID)

	userID, role, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, entity.RoleSeller, role)
}

func TestLogin_Errores(t *testing.T) {
	ctx := context.Background()
	uc := newAuth(t, auth.StatusActive)

	_, err := uc.Login(ctx, dto.LoginRequest{Email: "vendedor@autopartes.test", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@autopartes.test", Password: "clave123"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	inactive := newAuth(t, "inactive")
	_, err = inactive.Login(ctx, dto.LoginRequest{Email: "vendedor@autopartes.test", Password: "clave123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestProfile(t *testing.T) {
	uc := newAuth(t, auth.StatusActive)

	out, err := uc.Profile(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleSeller, out.Role)

	_, err = uc.Profile(context.Background(), "u-2")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
