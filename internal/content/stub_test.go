package content

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// stubStore is an in-memory Store with per-operation failure hooks, shared by
// the repository, counter and aggregator tests.
type stubStore struct {
	mu    sync.Mutex
	items map[Type][]Item

	listErr      func(t Type) error
	getErr       error
	countErr     func(t Type) error
	sumErr       func(t Type) error
	incrementErr error

	listCalls      int
	incrementCalls int
}

var _ Store = (*stubStore)(nil)

func newStubStore() *stubStore {
	return &stubStore{items: make(map[Type][]Item)}
}

func (s *stubStore) add(items ...Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		s.items[item.Type] = append(s.items[item.Type], item)
	}
}

func (s *stubStore) List(_ context.Context, t Type, spec QuerySpec) (PageResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listCalls++
	if s.listErr != nil {
		if err := s.listErr(t); err != nil {
			return PageResult{}, err
		}
	}

	matched := make([]Item, 0, len(s.items[t]))
	for _, item := range s.items[t] {
		if Matches(item, spec) {
			matched = append(matched, item)
		}
	}
	SortNewestFirst(matched)

	return Paginate(matched, spec), nil
}

func (s *stubStore) GetByID(_ context.Context, t Type, id string) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.getErr != nil {
		return nil, s.getErr
	}
	for _, item := range s.items[t] {
		if item.ID == id {
			found := item
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *stubStore) GetBySlug(_ context.Context, t Type, slug string) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.getErr != nil {
		return nil, s.getErr
	}
	for _, item := range s.items[t] {
		if item.Slug == slug {
			found := item
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *stubStore) IncrementViews(_ context.Context, t Type, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.incrementCalls++
	if s.incrementErr != nil {
		return s.incrementErr
	}
	for i := range s.items[t] {
		if s.items[t][i].ID == id {
			s.items[t][i].Views++
			return nil
		}
	}
	return ErrNotFound
}

func (s *stubStore) Count(_ context.Context, t Type) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.countErr != nil {
		if err := s.countErr(t); err != nil {
			return 0, err
		}
	}
	return int64(len(s.items[t])), nil
}

func (s *stubStore) SumViews(_ context.Context, t Type) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sumErr != nil {
		if err := s.sumErr(t); err != nil {
			return 0, err
		}
	}
	var total int64
	for _, item := range s.items[t] {
		total += item.Views
	}
	return total, nil
}

// stubProvider adapts a stubStore to the fallback Provider contract.
type stubProvider struct {
	store *stubStore
}

var _ Provider = (*stubProvider)(nil)

func (p *stubProvider) List(ctx context.Context, t Type, spec QuerySpec) (PageResult, error) {
	return p.store.List(ctx, t, spec)
}

func (p *stubProvider) GetByID(ctx context.Context, t Type, id string) (*Item, error) {
	return p.store.GetByID(ctx, t, id)
}

func (p *stubProvider) GetBySlug(ctx context.Context, t Type, slug string) (*Item, error) {
	return p.store.GetBySlug(ctx, t, slug)
}

func sampleItem(t Type, id, slug, title string, created time.Time) Item {
	return Item{
		ID:        id,
		Slug:      slug,
		Type:      t,
		Title:     title,
		Status:    StatusPublished,
		CreatedAt: created,
	}
}

func silentLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
