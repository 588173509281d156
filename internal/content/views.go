package content

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

const defaultViewTimeout = 5 * time.Second

// ViewCounter performs best-effort view increments decoupled from the read
// path. A failed increment is logged and dropped; it never reaches the
// reader. Every read-by-identifier counts, with no viewer deduplication.
type ViewCounter struct {
	store   Store
	logger  *logrus.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewViewCounter builds a counter writing through the provided store.
func NewViewCounter(store Store, logger *logrus.Logger, timeout time.Duration) (*ViewCounter, error) {
	if store == nil {
		return nil, eris.New("view counter store is required")
	}

	if timeout <= 0 {
		timeout = defaultViewTimeout
	}

	return &ViewCounter{store: store, logger: logger, timeout: timeout}, nil
}

// Record dispatches a single view increment for the identified item without
// blocking the caller. The increment runs on its own context so a cancelled
// request cannot abort it.
func (c *ViewCounter) Record(t Type, id string) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		if err := c.store.IncrementViews(ctx, t, id); err != nil {
			if c.logger != nil {
				c.logger.WithFields(logrus.Fields{
					"type":  string(t),
					"id":    id,
					"error": err.Error(),
				}).Warn("dropping failed view increment")
			}
		}
	}()
}

// Wait blocks until all dispatched increments have finished. Used on shutdown
// and in tests.
func (c *ViewCounter) Wait() {
	c.wg.Wait()
}
