package redis_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/eio/pkg/adapters/redis"
	"github.com/aretw0/eio/pkg/domain"
	"github.com/aretw0/eio/pkg/modeldata"
	"github.com/aretw0/eio/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunRepositoryContract(t, redis.NewFromClient(client))
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	mgr, err := store.Manager(ctx, "plate")
	require.NoError(t, err)
	s, err := mgr.OpenStream(ctx, domain.KindModelBodies, domain.ModeWrite)
	require.NoError(t, err)
	_, err = io.WriteString(s, "1 0 0 0 1 0 \n")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.True(t, mr.Exists("custom:app:plate:modeldata.bodies"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	got, err := mr.Get("custom:app:plate:modeldata.bodies")
	require.NoError(t, err)
	assert.Equal(t, "1 0 0 0 1 0 \n", got)

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"plate"}, list)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	mgr, err := store.Manager(ctx, "short-lived")
	require.NoError(t, err)
	a := modeldata.New(mgr)
	require.NoError(t, a.Create(ctx))
	require.NoError(t, a.WriteDescription(domain.ModelDescription{}))
	require.NoError(t, a.Close())

	durable, err := redis.NewFromClient(client).Manager(ctx, "durable")
	require.NoError(t, err)
	d := modeldata.New(durable)
	require.NoError(t, d.Create(ctx))
	require.NoError(t, d.WriteDescription(domain.ModelDescription{}))
	require.NoError(t, d.Close())

	models, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"durable", "short-lived"}, models)

	mr.FastForward(2 * time.Second)

	_, err = mgr.OpenStream(ctx, domain.KindModelDescription, domain.ModeRead)
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)

	// The index is pruned against the wall clock, not miniredis time.
	time.Sleep(1200 * time.Millisecond)

	models, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"durable"}, models)
}

func TestRedisStore_ModelDataRoundTrip(t *testing.T) {
	_, client := newClient(t)
	store := redis.NewFromClient(client)
	ctx := context.Background()

	mgr, err := store.Manager(ctx, "m")
	require.NoError(t, err)

	doc := &modeldata.Document{
		Description: domain.ModelDescription{Bodies: 1, Materials: 1},
		Constants:   domain.Constants{Gravity: [3]float64{0, 0, -9.81}, Boltzmann: 1.38e-23},
		Coordinates: domain.Coordinates{Dimension: 3, Mapping: [3]int{1, 2, 3}},
		Bodies:      []domain.BodyRecord{{Tag: 1, Material: 1}},
		Groups: []modeldata.Group{{
			Category: domain.CategoryMaterial,
			Tag:      1,
			Fields:   []domain.Field{{Name: 1, Type: 2, Selectors: []int{0}, Values: []float64{2.5}}},
		}},
	}
	require.NoError(t, modeldata.New(mgr).Save(ctx, doc))

	got, err := modeldata.New(mgr).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}
