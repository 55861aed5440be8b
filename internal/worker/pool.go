package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"DocDrop/internal/models"
)

// ViewStore persists page-view telemetry.
type ViewStore interface {
	InsertDocumentView(ctx context.Context, documentID, ipAddress string) error
}

// StartViewPool drains the view channel with a small worker pool so
// landing-page requests never block on telemetry writes. Workers exit
// when the context is canceled or the channel closes.
func StartViewPool(
	ctx context.Context,
	wg *sync.WaitGroup,
	workers int,
	views <-chan models.DocumentView,
	store ViewStore,
	logger *zap.Logger,
) {

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func(id int) {
			defer wg.Done()

			logger.Info("view worker started", zap.Int("worker_id", id))

			for {
				select {

				case <-ctx.Done():
					logger.Info("view worker shutting down", zap.Int("worker_id", id))
					return

				case view, ok := <-views:
					if !ok {
						logger.Info("view channel closed", zap.Int("worker_id", id))
						return
					}

					if err := store.InsertDocumentView(ctx, view.DocumentID, view.IPAddress); err != nil {
						logger.Error("failed to insert document view",
							zap.String("document_id", view.DocumentID),
							zap.Error(err),
						)
					}
				}
			}
		}(i)
	}
}
