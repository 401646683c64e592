package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/cache"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-pos-service/internal/provider/dto"
	"github.com/fekuna/omnipos-pos-service/internal/provider/repository"
	"github.com/fekuna/omnipos-pos-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestProviderLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	uc := NewProviderUseCase(repository.NewPGRepository(db), nil, logger.Wrap(zaptest.NewLogger(t)))
	ctx := context.Background()

	_, err := uc.CreateProvider(ctx, &dto.CreateProviderInput{Name: " "})
	assert.ErrorIs(t, err, model.ErrValidation)
	_, err = uc.CreateProvider(ctx, &dto.CreateProviderInput{Name: "Acme", Email: "not-an-email"})
	assert.ErrorIs(t, err, model.ErrValidation)

	acme, err := uc.CreateProvider(ctx, &dto.CreateProviderInput{Name: "Acme", Email: "sales@acme.test"})
	require.NoError(t, err)
	_, err = uc.CreateProvider(ctx, &dto.CreateProviderInput{Name: "Lacteos Sur"})
	require.NoError(t, err)

	list, count, err := uc.ListProviders(ctx, &dto.ProviderFilters{Name: "ACM"})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, acme.ID, list[0].ID)

	updated, err := uc.UpdateProvider(ctx, &dto.UpdateProviderInput{ID: acme.ID, Name: "Acme Corp", Phone: "555"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", updated.Name)

	_, err = uc.UpdateProvider(ctx, &dto.UpdateProviderInput{ID: "missing", Name: "x"})
	assert.ErrorIs(t, err, model.ErrNotFound)

	got, err := uc.GetProvider(ctx, acme.ID)
	require.NoError(t, err)
	assert.Equal(t, "555", got.Phone)
}

func TestDeleteProvider_DetachesProducts(t *testing.T) {
	db := testutil.NewDB(t)
	mr := miniredis.RunT(t)
	rc, err := cache.NewRedisClient(&cache.Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })

	uc := NewProviderUseCase(repository.NewPGRepository(db), rc, logger.Wrap(zaptest.NewLogger(t)))
	ctx := context.Background()

	acme, err := uc.CreateProvider(ctx, &dto.CreateProviderInput{Name: "Acme"})
	require.NoError(t, err)
	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO products (id, barcode, name, provider_id, price_sale, created_at, updated_at)
		VALUES ('p1', '111', 'Milk', ?, '1.00', ?, ?)`, acme.ID, now, now)
	require.NoError(t, err)
	require.NoError(t, mr.Set("products:list:abc", "{}"))

	require.NoError(t, uc.DeleteProvider(ctx, acme.ID))

	var providerID *string
	require.NoError(t, db.Get(&providerID, `SELECT provider_id FROM products WHERE id = 'p1'`))
	assert.Nil(t, providerID)
	assert.False(t, mr.Exists("products:list:abc"))

	assert.ErrorIs(t, uc.DeleteProvider(ctx, acme.ID), model.ErrNotFound)
}
