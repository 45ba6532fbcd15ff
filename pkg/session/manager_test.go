package session_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/eio/pkg/adapters/memory"
	"github.com/aretw0/eio/pkg/adapters/redis"
	"github.com/aretw0/eio/pkg/domain"
	"github.com/aretw0/eio/pkg/geometry"
	"github.com/aretw0/eio/pkg/modeldata"
	"github.com/aretw0/eio/pkg/ports"
	"github.com/aretw0/eio/pkg/session"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Locking(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	var active, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := manager.WithLock(ctx, "race-test", func(context.Context) error {
				n := atomic.AddInt32(&active, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond) // Simulate IO
				atomic.AddInt32(&active, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), peak, "holders of one model lock must not overlap")
}

func TestManager_ConcurrentSavesStayReadable(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(tag int) {
			defer wg.Done()
			nodes := make([]domain.Node, tag)
			for j := range nodes {
				nodes[j] = domain.Node{Tag: tag}
			}
			err := manager.SaveGeometry(ctx, "shared", &geometry.Snapshot{
				Descriptor: domain.GeometryDescriptor{Vertices: tag},
				Nodes:      nodes,
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	snap, err := manager.LoadGeometry(ctx, "shared")
	require.NoError(t, err)
	require.Len(t, snap.Nodes, snap.Descriptor.Vertices, "header and records come from the same writer")
	for _, n := range snap.Nodes {
		assert.Equal(t, snap.Descriptor.Vertices, n.Tag)
	}
}

func TestManager_ModelDataRoundTrip(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	doc := &modeldata.Document{
		Description: domain.ModelDescription{Bodies: 1},
		Bodies:      []domain.BodyRecord{{Tag: 1, Equation: 2}},
	}
	require.NoError(t, manager.SaveModelData(ctx, "m", doc))

	got, err := manager.LoadModelData(ctx, "m")
	require.NoError(t, err)
	assert.Equal(t, doc, got)

	models, err := manager.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"m"}, models)

	require.NoError(t, manager.Delete(ctx, "m"))
	_, err = manager.LoadModelData(ctx, "m")
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
}

func TestManager_WithModelPropagatesErrors(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	boom := errors.New("boom")

	err := manager.WithModel(context.Background(), "m", func(context.Context, ports.ModelManager) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = manager.WithModel(context.Background(), "../x", func(context.Context, ports.ModelManager) error {
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrInvalidModelName)
}

func TestManager_DistributedLock(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()

	manager := session.NewManager(memory.NewStore(),
		session.WithLocker(redis.NewLocker(client, "eio:")),
		session.WithLockTTL(5*time.Second),
	)
	ctx := context.Background()

	err := manager.WithLock(ctx, "beam", func(context.Context) error {
		assert.True(t, mr.Exists("eio:lock:beam"), "distributed lock is held during fn")
		ttl := mr.TTL("eio:lock:beam")
		assert.Equal(t, 5*time.Second, ttl)
		return nil
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists("eio:lock:beam"), "distributed lock is released after fn")
}

func TestManager_DistributedLockTimeout(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()

	require.NoError(t, mr.Set("eio:lock:beam", "someone-else"))

	manager := session.NewManager(memory.NewStore(), session.WithLocker(redis.NewLocker(client, "eio:")))
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	called := false
	err := manager.WithLock(ctx, "beam", func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, called)
}
