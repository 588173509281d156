package relational

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"ilmhub/app/internal/content"
	"ilmhub/app/internal/slug"
)

const slugMaxLength = 200

// Store executes query specs against the relational backend via Gorm.
type Store struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewStore constructs a Gorm-backed store adapter.
func NewStore(db *gorm.DB, logger *logrus.Logger) (*Store, error) {
	if db == nil {
		return nil, eris.New("gorm DB is required")
	}

	return &Store{db: db, logger: logger}, nil
}

var _ content.Store = (*Store)(nil)

// List returns one filtered, ordered page of the requested content type.
// Total is computed with the same predicate and no range restriction.
func (s *Store) List(ctx context.Context, t content.Type, spec content.QuerySpec) (content.PageResult, error) {
	spec = spec.Normalize()

	query := s.filtered(ctx, t, spec)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		s.logError(logrus.Fields{"type": string(t)}, err, "counting filtered items")
		return content.PageResult{}, unavailable(err, "counting filtered items")
	}

	var records []itemRecord
	err := query.
		Preload("Category").
		Order("content_items.created_at DESC").
		Limit(spec.Limit).
		Offset(spec.Offset()).
		Find(&records).Error
	if err != nil {
		s.logError(logrus.Fields{"type": string(t)}, err, "listing items")
		return content.PageResult{}, unavailable(err, "listing items")
	}

	items := make([]content.Item, 0, len(records))
	for i := range records {
		items = append(items, records[i].toItem())
	}

	return content.NewPageResult(items, total, spec), nil
}

// GetByID returns the identified item or ErrNotFound.
func (s *Store) GetByID(ctx context.Context, t content.Type, id string) (*content.Item, error) {
	return s.getOne(ctx, t, "content_items.id = ?", id)
}

// GetBySlug returns the item with the canonical slug or ErrNotFound.
func (s *Store) GetBySlug(ctx context.Context, t content.Type, slugValue string) (*content.Item, error) {
	return s.getOne(ctx, t, "content_items.slug = ?", strings.TrimSpace(slugValue))
}

func (s *Store) getOne(ctx context.Context, t content.Type, condition string, value string) (*content.Item, error) {
	var record itemRecord
	err := s.db.WithContext(ctx).
		Preload("Category").
		Where("content_items.type = ?", string(t)).
		Where(condition, value).
		First(&record).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, eris.Wrapf(content.ErrNotFound, "%s: %s", t, value)
		}
		s.logError(logrus.Fields{"type": string(t), "key": value}, err, "fetching item")
		return nil, unavailable(err, "fetching item")
	}

	item := record.toItem()
	return &item, nil
}

// IncrementViews adds exactly one view to the identified item.
func (s *Store) IncrementViews(ctx context.Context, t content.Type, id string) error {
	result := s.db.WithContext(ctx).
		Model(&itemRecord{}).
		Where("type = ? AND id = ?", string(t), id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		s.logError(logrus.Fields{"type": string(t), "id": id}, result.Error, "incrementing views")
		return unavailable(result.Error, "incrementing views")
	}
	if result.RowsAffected == 0 {
		return eris.Wrapf(content.ErrNotFound, "%s: %s", t, id)
	}
	return nil
}

// Count returns the unfiltered item count for the content type.
func (s *Store) Count(ctx context.Context, t content.Type) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Model(&itemRecord{}).
		Where("type = ?", string(t)).
		Count(&total).Error
	if err != nil {
		s.logError(logrus.Fields{"type": string(t)}, err, "counting items")
		return 0, unavailable(err, "counting items")
	}
	return total, nil
}

// SumViews returns the total view count across the content type.
func (s *Store) SumViews(ctx context.Context, t content.Type) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Model(&itemRecord{}).
		Where("type = ?", string(t)).
		Select("COALESCE(SUM(views), 0)").
		Scan(&total).Error
	if err != nil {
		s.logError(logrus.Fields{"type": string(t)}, err, "summing views")
		return 0, unavailable(err, "summing views")
	}
	return total, nil
}

// Create persists a new item. The slug is derived from the title once at
// creation; an existing slug within the content type gets a random suffix.
func (s *Store) Create(ctx context.Context, item *content.Item) error {
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

	candidate := item.Slug
	if candidate == "" {
		candidate = slug.SlugifyMax(item.Title, slugMaxLength)
	}
	if candidate == "" {
		return eris.Errorf("title %q yields an empty slug", item.Title)
	}

	resolved, err := s.resolveSlug(ctx, item.Type, candidate)
	if err != nil {
		return err
	}
	item.Slug = resolved

	record := itemRecord{
		ID:      item.ID,
		Type:    string(item.Type),
		Slug:    item.Slug,
		Title:   item.Title,
		Excerpt: item.Excerpt,
		Body:    item.Body,
		Answer:  item.Answer,
		Tags:    encodeTags(item.Tags),
		Status:  string(item.Status),
		Author:  item.Author,
		Views:   item.Views,
		Payload: []byte(item.Payload),
	}
	if !item.CreatedAt.IsZero() {
		record.CreatedAt = item.CreatedAt
	}

	if item.Category != "" {
		category, err := s.ensureCategory(ctx, item.Category, item.CategoryName)
		if err != nil {
			return err
		}
		record.CategoryID = &category.ID
		item.CategoryName = category.Name
	}

	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		s.logError(logrus.Fields{"type": string(item.Type), "slug": item.Slug}, err, "creating item")
		return unavailable(err, "creating item")
	}

	item.CreatedAt = record.CreatedAt
	return nil
}

// Update applies a patch declaratively: nil fields leave the stored value
// untouched. A title change recomputes the slug.
func (s *Store) Update(ctx context.Context, t content.Type, id string, patch content.Patch) (*content.Item, error) {
	if patch.IsZero() {
		return s.GetByID(ctx, t, id)
	}

	var record itemRecord
	err := s.db.WithContext(ctx).
		Where("type = ? AND id = ?", string(t), id).
		First(&record).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, eris.Wrapf(content.ErrNotFound, "%s: %s", t, id)
		}
		return nil, unavailable(err, "loading item for update")
	}

	if patch.Title != nil && *patch.Title != record.Title {
		record.Title = *patch.Title
		candidate := slug.SlugifyMax(record.Title, slugMaxLength)
		if candidate == "" {
			return nil, eris.Errorf("title %q yields an empty slug", record.Title)
		}
		if candidate != record.Slug {
			resolved, err := s.resolveSlug(ctx, t, candidate)
			if err != nil {
				return nil, err
			}
			record.Slug = resolved
		}
	}
	if patch.Excerpt != nil {
		record.Excerpt = *patch.Excerpt
	}
	if patch.Body != nil {
		record.Body = *patch.Body
	}
	if patch.Answer != nil {
		record.Answer = *patch.Answer
	}
	if patch.Tags != nil {
		record.Tags = encodeTags(*patch.Tags)
	}
	if patch.Status != nil {
		record.Status = string(*patch.Status)
	}
	if patch.Author != nil {
		record.Author = *patch.Author
	}
	if patch.Payload != nil {
		record.Payload = []byte(*patch.Payload)
	}
	if patch.Category != nil {
		if *patch.Category == "" {
			record.CategoryID = nil
		} else {
			category, err := s.ensureCategory(ctx, *patch.Category, "")
			if err != nil {
				return nil, err
			}
			record.CategoryID = &category.ID
		}
	}

	if err := s.db.WithContext(ctx).Save(&record).Error; err != nil {
		s.logError(logrus.Fields{"type": string(t), "id": id}, err, "saving updated item")
		return nil, unavailable(err, "saving updated item")
	}

	return s.GetByID(ctx, t, id)
}

// Delete removes the identified item.
func (s *Store) Delete(ctx context.Context, t content.Type, id string) error {
	result := s.db.WithContext(ctx).
		Where("type = ? AND id = ?", string(t), id).
		Delete(&itemRecord{})
	if result.Error != nil {
		s.logError(logrus.Fields{"type": string(t), "id": id}, result.Error, "deleting item")
		return unavailable(result.Error, "deleting item")
	}
	if result.RowsAffected == 0 {
		return eris.Wrapf(content.ErrNotFound, "%s: %s", t, id)
	}
	return nil
}

func (s *Store) filtered(ctx context.Context, t content.Type, spec content.QuerySpec) *gorm.DB {
	query := s.db.WithContext(ctx).
		Model(&itemRecord{}).
		Where("content_items.type = ?", string(t))

	if spec.Category != "" {
		query = query.
			Joins("LEFT JOIN categories ON categories.id = content_items.category_id").
			Where("categories.slug = ?", spec.Category)
	}
	if spec.Status != "" {
		query = query.Where("content_items.status = ?", spec.Status)
	}
	if spec.Search != "" {
		needle := "%" + strings.ToLower(spec.Search) + "%"
		query = query.Where(
			"LOWER(content_items.title) LIKE ? OR LOWER(content_items.excerpt) LIKE ? OR LOWER(content_items.body) LIKE ? OR LOWER(content_items.answer) LIKE ?",
			needle, needle, needle, needle,
		)
	}

	return query
}

// resolveSlug appends a short random suffix when the candidate slug is
// already taken within the content type.
func (s *Store) resolveSlug(ctx context.Context, t content.Type, candidate string) (string, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&itemRecord{}).
		Where("type = ? AND slug = ?", string(t), candidate).
		Count(&count).Error
	if err != nil {
		return "", unavailable(err, "checking slug collision")
	}
	if count == 0 {
		return candidate, nil
	}
	return candidate + "-" + uuid.NewString()[:8], nil
}

func (s *Store) ensureCategory(ctx context.Context, categorySlug, name string) (*categoryRecord, error) {
	normalized := slug.Slugify(categorySlug)
	if normalized == "" {
		return nil, eris.Errorf("category %q yields an empty slug", categorySlug)
	}
	if name == "" {
		name = titleFromSlug(normalized)
	}

	var category categoryRecord
	err := s.db.WithContext(ctx).
		Where(categoryRecord{Slug: normalized}).
		Attrs(categoryRecord{Name: name}).
		FirstOrCreate(&category).Error
	if err != nil {
		return nil, unavailable(err, "ensuring category")
	}

	return &category, nil
}

func titleFromSlug(s string) string {
	words := strings.Split(s, "-")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// unavailable maps any backend failure onto the store-unavailable sentinel so
// the resilient repository can recover it.
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
