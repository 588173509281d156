package relational

import (
	"encoding/json"
	"time"

	"ilmhub/app/internal/content"
)

// itemRecord is the database row shape for every content type. The category
// lives in its own table and is joined by slug when filtering.
type itemRecord struct {
	ID         string `gorm:"primaryKey;size:36"`
	Type       string `gorm:"size:16;not null;index:idx_items_type_created,priority:1;uniqueIndex:idx_items_type_slug,priority:1"`
	Slug       string `gorm:"size:255;not null;uniqueIndex:idx_items_type_slug,priority:2"`
	Title      string `gorm:"size:512;not null"`
	Excerpt    string `gorm:"type:text"`
	Body       string `gorm:"type:text"`
	Answer     string `gorm:"type:text"`
	CategoryID *uint
	Category   *categoryRecord `gorm:"foreignKey:CategoryID"`
	Tags       string          `gorm:"type:text"`
	Status     string          `gorm:"size:16;index"`
	Author     string          `gorm:"size:255"`
	Views      int64           `gorm:"not null;default:0"`
	Payload    []byte          `gorm:"type:text"`
	CreatedAt  time.Time       `gorm:"index:idx_items_type_created,priority:2"`
	UpdatedAt  time.Time
}

// TableName defines the table name for content rows.
func (itemRecord) TableName() string {
	return "content_items"
}

type categoryRecord struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:255;not null"`
	Slug string `gorm:"size:255;not null;uniqueIndex"`
}

// TableName defines the table name for categories.
func (categoryRecord) TableName() string {
	return "categories"
}

func (r *itemRecord) toItem() content.Item {
	item := content.Item{
		ID:        r.ID,
		Slug:      r.Slug,
		Type:      content.Type(r.Type),
		Title:     r.Title,
		Excerpt:   r.Excerpt,
		Body:      r.Body,
		Answer:    r.Answer,
		Status:    content.Status(r.Status),
		Author:    r.Author,
		Views:     r.Views,
		CreatedAt: r.CreatedAt,
	}

	if r.Category != nil {
		item.Category = r.Category.Slug
		item.CategoryName = r.Category.Name
	}

	if r.Tags != "" {
		var tags []string
		if err := json.Unmarshal([]byte(r.Tags), &tags); err == nil {
			item.Tags = tags
		}
	}

	if len(r.Payload) > 0 {
		item.Payload = json.RawMessage(r.Payload)
	}

	return item
}

func encodeTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return ""
	}
	return string(encoded)
}
