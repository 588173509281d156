package content

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

const defaultPrimaryTimeout = 3 * time.Second

// Repository applies the primary-then-fallback policy: every read first goes
// to the real store adapter and, when that store is unreachable, is retried
// with the identical spec against the in-process snapshot. Fallback is
// immediate and strictly sequential; the two are never raced.
type Repository struct {
	primary        Store
	fallback       Provider
	logger         *logrus.Logger
	sentryHub      *sentry.Hub
	primaryTimeout time.Duration
}

// RepositoryOptions configures a resilient repository.
type RepositoryOptions struct {
	Primary  Store
	Fallback Provider
	Logger   *logrus.Logger
	Sentry   *sentry.Hub
	// PrimaryTimeout bounds each primary attempt so a hung backend cannot
	// stall the read path before fallback kicks in.
	PrimaryTimeout time.Duration
}

// NewRepository wires the repository with its primary adapter and fallback
// provider.
func NewRepository(opts RepositoryOptions) (*Repository, error) {
	if opts.Primary == nil {
		return nil, eris.New("primary store is required")
	}
	if opts.Fallback == nil {
		return nil, eris.New("fallback provider is required")
	}

	timeout := opts.PrimaryTimeout
	if timeout <= 0 {
		timeout = defaultPrimaryTimeout
	}

	return &Repository{
		primary:        opts.Primary,
		fallback:       opts.Fallback,
		logger:         opts.Logger,
		sentryHub:      opts.Sentry,
		primaryTimeout: timeout,
	}, nil
}

// List returns one page of items. The read path never fails on store outage:
// an unreachable primary is logged and the fallback snapshot answers the same
// spec instead.
func (r *Repository) List(ctx context.Context, t Type, spec QuerySpec) (PageResult, error) {
	spec = spec.Normalize()

	primaryCtx, cancel := context.WithTimeout(ctx, r.primaryTimeout)
	defer cancel()

	result, err := r.primary.List(primaryCtx, t, spec)
	if err == nil {
		return result, nil
	}

	if !r.shouldFallBack(err) {
		return PageResult{}, eris.Wrapf(err, "listing %s items", t)
	}

	r.recordFallback(logrus.Fields{"type": string(t)}, err, "primary store unavailable, serving fallback list")
	return r.fallback.List(ctx, t, spec)
}

// GetByID returns the identified item, falling back on store outage.
// ErrNotFound surfaces from whichever store answered.
func (r *Repository) GetByID(ctx context.Context, t Type, id string) (*Item, error) {
	primaryCtx, cancel := context.WithTimeout(ctx, r.primaryTimeout)
	defer cancel()

	item, err := r.primary.GetByID(primaryCtx, t, id)
	if err == nil {
		return item, nil
	}

	if !r.shouldFallBack(err) {
		return nil, eris.Wrapf(err, "fetching %s by id: %s", t, id)
	}

	r.recordFallback(logrus.Fields{"type": string(t), "id": id}, err, "primary store unavailable, serving fallback item")
	return r.fallback.GetByID(ctx, t, id)
}

// GetBySlug returns the item with the given canonical slug, falling back on
// store outage.
func (r *Repository) GetBySlug(ctx context.Context, t Type, slug string) (*Item, error) {
	primaryCtx, cancel := context.WithTimeout(ctx, r.primaryTimeout)
	defer cancel()

	item, err := r.primary.GetBySlug(primaryCtx, t, slug)
	if err == nil {
		return item, nil
	}

	if !r.shouldFallBack(err) {
		return nil, eris.Wrapf(err, "fetching %s by slug: %s", t, slug)
	}

	r.recordFallback(logrus.Fields{"type": string(t), "slug": slug}, err, "primary store unavailable, serving fallback item")
	return r.fallback.GetBySlug(ctx, t, slug)
}

// shouldFallBack treats connectivity failures and timed-out primary attempts
// as outages. Anything else, ErrNotFound included, surfaces unchanged.
func (r *Repository) shouldFallBack(err error) bool {
	return IsStoreUnavailable(err) || eris.Is(err, context.DeadlineExceeded)
}

func (r *Repository) recordFallback(fields logrus.Fields, err error, message string) {
	if r.logger != nil {
		entry := r.logger.WithField("error", err.Error())
		if len(fields) > 0 {
			entry = entry.WithFields(fields)
		}
		entry.Warn(message)
	}

	if r.sentryHub != nil {
		r.sentryHub.CaptureException(err)
	}
}
