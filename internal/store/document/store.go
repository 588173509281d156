package document

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"ilmhub/app/internal/content"
	"ilmhub/app/internal/slug"
)

const slugMaxLength = 200

// Store executes query specs against the document backend. Items live as JSON
// values keyed per type, ordered through a created-at sorted set. View counts
// live in their own hash so increments stay atomic; the stored document's
// views field is only a snapshot from write time.
type Store struct {
	client *redis.Client
	logger *logrus.Logger
}

// NewStore constructs a Redis-backed document store adapter.
func NewStore(client *redis.Client, logger *logrus.Logger) (*Store, error) {
	if client == nil {
		return nil, eris.New("redis client is required")
	}

	return &Store{client: client, logger: logger}, nil
}

var _ content.Store = (*Store)(nil)

func itemKey(t content.Type, id string) string {
	return fmt.Sprintf("content:%s:%s", t, id)
}

func indexKey(t content.Type) string {
	return fmt.Sprintf("content:%s:created", t)
}

func slugKey(t content.Type) string {
	return fmt.Sprintf("content:%s:slugs", t)
}

func viewsKey(t content.Type) string {
	return fmt.Sprintf("content:%s:views", t)
}

// List loads the type's documents newest first and applies the shared filter
// and pagination semantics in memory.
func (s *Store) List(ctx context.Context, t content.Type, spec content.QuerySpec) (content.PageResult, error) {
	spec = spec.Normalize()

	ids, err := s.client.ZRevRange(ctx, indexKey(t), 0, -1).Result()
	if err != nil {
		s.logError(logrus.Fields{"type": string(t)}, err, "reading created index")
		return content.PageResult{}, unavailable(err, "reading created index")
	}
	if len(ids) == 0 {
		return content.NewPageResult(nil, 0, spec), nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, itemKey(t, id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		s.logError(logrus.Fields{"type": string(t)}, err, "loading documents")
		return content.PageResult{}, unavailable(err, "loading documents")
	}

	views, err := s.client.HGetAll(ctx, viewsKey(t)).Result()
	if err != nil {
		s.logError(logrus.Fields{"type": string(t)}, err, "loading view counters")
		return content.PageResult{}, unavailable(err, "loading view counters")
	}

	matched := make([]content.Item, 0, len(values))
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}

		var item content.Item
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			s.logError(logrus.Fields{"type": string(t)}, err, "skipping undecodable document")
			continue
		}

		item.Views = parseViews(views[item.ID])
		if content.Matches(item, spec) {
			matched = append(matched, item)
		}
	}

	// The index already yields newest first; Paginate keeps that order.
	return content.Paginate(matched, spec), nil
}

// GetByID returns the identified document or ErrNotFound.
func (s *Store) GetByID(ctx context.Context, t content.Type, id string) (*content.Item, error) {
	raw, err := s.client.Get(ctx, itemKey(t, id)).Result()
	if err != nil {
		if eris.Is(err, redis.Nil) {
			return nil, eris.Wrapf(content.ErrNotFound, "%s: %s", t, id)
		}
		s.logError(logrus.Fields{"type": string(t), "id": id}, err, "fetching document")
		return nil, unavailable(err, "fetching document")
	}

	var item content.Item
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		s.logError(logrus.Fields{"type": string(t), "id": id}, err, "decoding document")
		return nil, unavailable(err, "decoding document")
	}

	count, err := s.client.HGet(ctx, viewsKey(t), id).Result()
	if err != nil && !eris.Is(err, redis.Nil) {
		return nil, unavailable(err, "fetching view counter")
	}
	item.Views = parseViews(count)

	return &item, nil
}

// GetBySlug resolves the slug through the slug index, then loads the document.
func (s *Store) GetBySlug(ctx context.Context, t content.Type, slugValue string) (*content.Item, error) {
	id, err := s.client.HGet(ctx, slugKey(t), strings.TrimSpace(slugValue)).Result()
	if err != nil {
		if eris.Is(err, redis.Nil) {
			return nil, eris.Wrapf(content.ErrNotFound, "%s: %s", t, slugValue)
		}
		s.logError(logrus.Fields{"type": string(t), "slug": slugValue}, err, "resolving slug")
		return nil, unavailable(err, "resolving slug")
	}

	return s.GetByID(ctx, t, id)
}

// IncrementViews atomically adds one view to the identified item.
func (s *Store) IncrementViews(ctx context.Context, t content.Type, id string) error {
	exists, err := s.client.Exists(ctx, itemKey(t, id)).Result()
	if err != nil {
		s.logError(logrus.Fields{"type": string(t), "id": id}, err, "checking document existence")
		return unavailable(err, "checking document existence")
	}
	if exists == 0 {
		return eris.Wrapf(content.ErrNotFound, "%s: %s", t, id)
	}

	if err := s.client.HIncrBy(ctx, viewsKey(t), id, 1).Err(); err != nil {
		s.logError(logrus.Fields{"type": string(t), "id": id}, err, "incrementing views")
		return unavailable(err, "incrementing views")
	}
	return nil
}

// Count returns the number of documents of the content type.
func (s *Store) Count(ctx context.Context, t content.Type) (int64, error) {
	count, err := s.client.ZCard(ctx, indexKey(t)).Result()
	if err != nil {
		s.logError(logrus.Fields{"type": string(t)}, err, "counting documents")
		return 0, unavailable(err, "counting documents")
	}
	return count, nil
}

// SumViews reduces every view counter for the content type.
func (s *Store) SumViews(ctx context.Context, t content.Type) (int64, error) {
	counts, err := s.client.HVals(ctx, viewsKey(t)).Result()
	if err != nil {
		s.logError(logrus.Fields{"type": string(t)}, err, "loading view counters")
		return 0, unavailable(err, "loading view counters")
	}

	var total int64
	for _, count := range counts {
		total += parseViews(count)
	}
	return total, nil
}

// Put stores a document, maintaining the created-at and slug indexes. The
// slug is derived from the title at create time; collisions within the type
// get a random suffix.
func (s *Store) Put(ctx context.Context, item *content.Item) error {
	if item == nil {
		return eris.New("item is nil")
	}
	if strings.TrimSpace(item.Title) == "" {
		return eris.New("item title is required")
	}
	if _, ok := content.ParseType(string(item.Type)); !ok {
		return eris.Errorf("unknown content type: %s", item.Type)
	}

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	if item.Slug == "" {
		candidate := slug.SlugifyMax(item.Title, slugMaxLength)
		if candidate == "" {
			return eris.Errorf("title %q yields an empty slug", item.Title)
		}

		taken, err := s.client.HExists(ctx, slugKey(item.Type), candidate).Result()
		if err != nil {
			return unavailable(err, "checking slug collision")
		}
		if taken {
			candidate = candidate + "-" + uuid.NewString()[:8]
		}
		item.Slug = candidate
	}

	encoded, err := json.Marshal(item)
	if err != nil {
		return eris.Wrap(err, "encoding document")
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, itemKey(item.Type, item.ID), encoded, 0)
	pipe.ZAdd(ctx, indexKey(item.Type), redis.Z{
		Score:  float64(item.CreatedAt.UnixNano()),
		Member: item.ID,
	})
	pipe.HSet(ctx, slugKey(item.Type), item.Slug, item.ID)
	pipe.HSet(ctx, viewsKey(item.Type), item.ID, item.Views)

	if _, err := pipe.Exec(ctx); err != nil {
		s.logError(logrus.Fields{"type": string(item.Type), "slug": item.Slug}, err, "storing document")
		return unavailable(err, "storing document")
	}
	return nil
}

// Delete removes the document and its index entries.
func (s *Store) Delete(ctx context.Context, t content.Type, id string) error {
	item, err := s.GetByID(ctx, t, id)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, itemKey(t, id))
	pipe.ZRem(ctx, indexKey(t), id)
	pipe.HDel(ctx, slugKey(t), item.Slug)
	pipe.HDel(ctx, viewsKey(t), id)

	if _, err := pipe.Exec(ctx); err != nil {
		s.logError(logrus.Fields{"type": string(t), "id": id}, err, "deleting document")
		return unavailable(err, "deleting document")
	}
	return nil
}

func parseViews(raw string) int64 {
	if raw == "" {
		return 0
	}
	count, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return count
}

func unavailable(err error, op string) error {
	return eris.Wrapf(content.ErrStoreUnavailable, "%s: %v", op, err)
}

func (s *Store) logError(fields logrus.Fields, err error, message string) {
	if s.logger == nil {
		return
	}

	entry := s.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}
