package email

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// SendWithRetry retries a transient provider failure with exponential
// backoff. The message id of the last successful attempt is returned.
func SendWithRetry(ctx context.Context, p Provider, msg Message, retries int) (string, error) {
	var id string

	operation := func() error {
		var err error
		id, err = p.Send(ctx, msg)
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxElapsedTime = time.Duration(retries) * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return "", err
	}
	return id, nil
}
