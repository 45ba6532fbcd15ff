package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/eio/pkg/adapters/memory"
)

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(memory.NewStore())
	ctx := context.Background()
	count := 10000

	for i := 0; i < count; i++ {
		model := fmt.Sprintf("model-%d", i)
		_ = mgr.WithLock(ctx, model, func(context.Context) error { return nil })
		_ = mgr.Delete(ctx, model)
	}

	if lockCount := len(mgr.locks); lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory", lockCount)
	}
}
