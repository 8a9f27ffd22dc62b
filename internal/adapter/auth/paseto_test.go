package auth_test

import (
	"testing"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/MikeRez0/ypfulfillment/internal/adapter/auth"
	"github.com/MikeRez0/ypfulfillment/internal/adapter/config"
	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasetoToken(t *testing.T) {
	key := paseto.NewV4SymmetricKey()
	ts, err := auth.New(&config.Auth{TokenKey: key.ExportHex(), TokenTTL: time.Hour})
	require.NoError(t, err)

	token, err := ts.CreateToken(domain.Actor{ID: "courier-7", Role: domain.RoleDelivery})
	require.NoError(t, err)

	payload, err := ts.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "courier-7", payload.ActorID)
	assert.Equal(t, domain.RoleDelivery, payload.Role)

	t.Run("other key rejects", func(t *testing.T) {
		other, err := auth.New(&config.Auth{})
		require.NoError(t, err)
		_, err = other.VerifyToken(token)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("expired token rejects", func(t *testing.T) {
		short, err := auth.New(&config.Auth{TokenKey: key.ExportHex(), TokenTTL: time.Millisecond})
		require.NoError(t, err)
		token, err := short.CreateToken(domain.Actor{ID: "a", Role: domain.RoleAdmin})
		require.NoError(t, err)
		time.Sleep(1100 * time.Millisecond)
		_, err = short.VerifyToken(token)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("unknown role is not issued", func(t *testing.T) {
		_, err := ts.CreateToken(domain.Actor{ID: "a", Role: "ROOT"})
		assert.ErrorIs(t, err, domain.ErrTokenCreation)
	})

	_, err = auth.New(&config.Auth{TokenKey: "zz"})
	assert.Error(t, err)
}
