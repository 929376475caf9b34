package goroutine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestManager_GoAndWait(t *testing.T) {
	m := NewManager(4)

	var ran atomic.Int32
	for range 4 {
		m.Go(context.Background(), func(ctx context.Context) error {
			ran.Add(1)
			return nil
		})
	}

	if err := m.Wait(); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if got := ran.Load(); got != 4 {
		t.Errorf("ran = %d, want 4", got)
	}
}

func TestManager_CollectsErrors(t *testing.T) {
	m := NewManager(2)

	wantErr := errors.New("task failed")
	m.Go(context.Background(), func(ctx context.Context) error {
		return wantErr
	})

	if err := m.Wait(); !errors.Is(err, wantErr) {
		t.Errorf("Wait() error = %v, want %v", err, wantErr)
	}
}

func TestManager_RecoversPanic(t *testing.T) {
	m := NewManager(1)

	m.Go(context.Background(), func(ctx context.Context) error {
		panic("boom")
	})

	if err := m.Wait(); err != nil {
		t.Errorf("Wait() error = %v, want nil after recovered panic", err)
	}
}

func TestManager_NilSafe(t *testing.T) {
	var m *Manager

	m.Go(context.Background(), func(ctx context.Context) error { return nil })
	if err := m.Wait(); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
}

func TestManager_ClosedAfterWait(t *testing.T) {
	m := NewManager(1)
	if err := m.Wait(); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	var ran atomic.Bool
	m.Go(context.Background(), func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})
	_ = m.Wait()

	if ran.Load() {
		t.Error("task ran after manager was closed")
	}
}
