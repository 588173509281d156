package fallback

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"ilmhub/app/internal/content"
)

// Provider answers the store read contract from a static in-process snapshot.
// It applies the same filter, search and pagination semantics as a live
// adapter so degraded reads are observably identical, just stale.
type Provider struct {
	logger *logrus.Logger
}

// NewProvider constructs the snapshot-backed fallback provider.
func NewProvider(logger *logrus.Logger) *Provider {
	return &Provider{logger: logger}
}

var _ content.Provider = (*Provider)(nil)

// List filters and paginates the snapshot for the content type.
func (p *Provider) List(_ context.Context, t content.Type, spec content.QuerySpec) (content.PageResult, error) {
	spec = spec.Normalize()

	items := loadSnapshot()[t]
	matched := make([]content.Item, 0, len(items))
	for _, item := range items {
		if content.Matches(item, spec) {
			matched = append(matched, item)
		}
	}

	if p.logger != nil {
		p.logger.WithFields(logrus.Fields{
			"type":  string(t),
			"total": len(matched),
		}).Debug("serving snapshot list")
	}

	return content.Paginate(matched, spec), nil
}

// GetByID returns the snapshot item with the given id or ErrNotFound.
func (p *Provider) GetByID(_ context.Context, t content.Type, id string) (*content.Item, error) {
	for _, item := range loadSnapshot()[t] {
		if item.ID == id {
			found := item
			return &found, nil
		}
	}
	return nil, eris.Wrapf(content.ErrNotFound, "%s: %s", t, id)
}

// GetBySlug returns the snapshot item with the given slug or ErrNotFound.
func (p *Provider) GetBySlug(_ context.Context, t content.Type, slug string) (*content.Item, error) {
	for _, item := range loadSnapshot()[t] {
		if item.Slug == slug {
			found := item
			return &found, nil
		}
	}
	return nil, eris.Wrapf(content.ErrNotFound, "%s: %s", t, slug)
}

// Count reports the snapshot size for the content type.
func (p *Provider) Count(_ context.Context, t content.Type) (int64, error) {
	return int64(len(loadSnapshot()[t])), nil
}

// SumViews reduces the snapshot's view counters for the content type.
func (p *Provider) SumViews(_ context.Context, t content.Type) (int64, error) {
	var total int64
	for _, item := range loadSnapshot()[t] {
		total += item.Views
	}
	return total, nil
}
