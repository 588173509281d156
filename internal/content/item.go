package content

import (
	"encoding/json"
	"time"
)

// Type identifies one of the parallel content kinds served by the platform.
type Type string

const (
	TypeArticle  Type = "article"
	TypeQuestion Type = "question"
	TypePost     Type = "post"
	TypeMedia    Type = "media"
)

// Types returns every content type in a stable order.
func Types() []Type {
	return []Type{TypeArticle, TypeQuestion, TypePost, TypeMedia}
}

// ParseType maps a raw identifier onto a known content type.
func ParseType(raw string) (Type, bool) {
	switch Type(raw) {
	case TypeArticle, TypeQuestion, TypePost, TypeMedia:
		return Type(raw), true
	default:
		return "", false
	}
}

// Status represents the publication state of an item.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Item is the generic content shape shared by every content type. Variant
// specific attributes (read time, file URLs, durations) travel in Payload and
// are never interpreted by this layer.
type Item struct {
	ID           string          `json:"id"`
	Slug         string          `json:"slug"`
	Type         Type            `json:"type"`
	Title        string          `json:"title"`
	Excerpt      string          `json:"excerpt,omitempty"`
	Body         string          `json:"body,omitempty"`
	Answer       string          `json:"answer,omitempty"`
	Category     string          `json:"category,omitempty"`
	CategoryName string          `json:"categoryName,omitempty"`
	Tags         []string        `json:"tags,omitempty"`
	Status       Status          `json:"status"`
	Author       string          `json:"author,omitempty"`
	Views        int64           `json:"views"`
	CreatedAt    time.Time       `json:"createdAt"`
	Payload      json.RawMessage `json:"payload,omitempty"`
}

// Patch carries an optional value per mutable attribute. A nil field leaves
// the stored attribute untouched; a non-nil field replaces it.
type Patch struct {
	Title    *string
	Excerpt  *string
	Body     *string
	Answer   *string
	Category *string
	Tags     *[]string
	Status   *Status
	Author   *string
	Payload  *json.RawMessage
}

// IsZero reports whether the patch would change nothing.
func (p Patch) IsZero() bool {
	return p.Title == nil && p.Excerpt == nil && p.Body == nil && p.Answer == nil &&
		p.Category == nil && p.Tags == nil && p.Status == nil && p.Author == nil &&
		p.Payload == nil
}
