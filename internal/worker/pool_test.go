package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"DocDrop/internal/models"
)

type recordingStore struct {
	mu    sync.Mutex
	views []string
}

func (s *recordingStore) InsertDocumentView(_ context.Context, documentID, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views = append(s.views, documentID)
	return nil
}

func (s *recordingStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

func waitDone(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("workers did not exit")
	}
}

func TestViewPoolDrainsQueueOnClose(t *testing.T) {
	store := &recordingStore{}
	views := make(chan models.DocumentView, 10)
	for i := 0; i < 5; i++ {
		views <- models.DocumentView{DocumentID: "d1", IPAddress: "127.0.0.1"}
	}

	var wg sync.WaitGroup
	StartViewPool(context.Background(), &wg, 2, views, store, zap.NewNop())

	close(views)
	waitDone(t, &wg)

	if got := store.count(); got != 5 {
		t.Fatalf("inserted %d views, want 5", got)
	}
}

func TestViewPoolStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := &recordingStore{}
	views := make(chan models.DocumentView)

	var wg sync.WaitGroup
	StartViewPool(ctx, &wg, 2, views, store, zap.NewNop())

	cancel()
	waitDone(t, &wg)
}
