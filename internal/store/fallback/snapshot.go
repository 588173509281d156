package fallback

import (
	"sync"
	"time"

	"ilmhub/app/internal/content"
)

var (
	snapshotOnce sync.Once
	snapshot     map[content.Type][]content.Item
)

// loadSnapshot builds the static sample dataset once per process. The items
// are read-only: the provider copies before returning anything to a caller.
func loadSnapshot() map[content.Type][]content.Item {
	snapshotOnce.Do(func() {
		base := time.Date(2024, time.January, 5, 9, 0, 0, 0, time.UTC)

		snapshot = map[content.Type][]content.Item{
			content.TypeArticle: {
				{
					ID:           "fallback-article-1",
					Slug:         "the-five-pillars-of-islam",
					Type:         content.TypeArticle,
					Title:        "The Five Pillars of Islam",
					Excerpt:      "An introduction to the foundations of the faith.",
					Body:         "The five pillars are the Shahada, Salah, Zakat, Sawm and Hajj.",
					Category:     "aqeedah",
					CategoryName: "Aqeedah",
					Tags:         []string{"basics", "pillars"},
					Status:       content.StatusPublished,
					Author:       "Ustadh Kareem",
					Views:        120,
					CreatedAt:    base,
				},
				{
					ID:           "fallback-article-2",
					Slug:         "preparing-for-ramadan",
					Type:         content.TypeArticle,
					Title:        "Preparing for Ramadan",
					Excerpt:      "Practical steps before the blessed month.",
					Body:         "Plan your fasts, your charity and your recitation early.",
					Category:     "worship",
					CategoryName: "Worship",
					Tags:         []string{"ramadan", "fasting"},
					Status:       content.StatusPublished,
					Author:       "Ustadha Maryam",
					Views:        85,
					CreatedAt:    base.Add(24 * time.Hour),
				},
			},
			content.TypeQuestion: {
				{
					ID:           "fallback-question-1",
					Slug:         "what-is-zakat",
					Type:         content.TypeQuestion,
					Title:        "What is Zakat?",
					Answer:       "Zakat is the obligatory alms taken from surplus wealth and given to the poor.",
					Category:     "fiqh",
					CategoryName: "Fiqh",
					Status:       content.StatusPublished,
					Author:       "Shaykh Ahmad",
					Views:        64,
					CreatedAt:    base.Add(2 * time.Hour),
				},
				{
					ID:           "fallback-question-2",
					Slug:         "purification-before-prayer",
					Type:         content.TypeQuestion,
					Title:        "Purification before prayer",
					Answer:       "Wudu is performed by washing the hands, mouth, face, arms and feet in order.",
					Category:     "worship",
					CategoryName: "Worship",
					Status:       content.StatusPublished,
					Author:       "Shaykh Ahmad",
					Views:        42,
					CreatedAt:    base.Add(26 * time.Hour),
				},
			},
			content.TypePost: {
				{
					ID:           "fallback-post-1",
					Slug:         "community-iftar-announcement",
					Type:         content.TypePost,
					Title:        "Community Iftar Announcement",
					Body:         "Join us for the weekly community iftar at the main hall.",
					Category:     "community",
					CategoryName: "Community",
					Status:       content.StatusPublished,
					Author:       "Admin",
					Views:        30,
					CreatedAt:    base.Add(3 * time.Hour),
				},
			},
			content.TypeMedia: {
				{
					ID:           "fallback-media-1",
					Slug:         "friday-khutbah-gratitude",
					Type:         content.TypeMedia,
					Title:        "Friday Khutbah: Gratitude",
					Excerpt:      "A recording of last week's khutbah.",
					Category:     "sermons",
					CategoryName: "Sermons",
					Status:       content.StatusPublished,
					Author:       "Shaykh Bilal",
					Views:        55,
					CreatedAt:    base.Add(4 * time.Hour),
				},
			},
		}

		for _, items := range snapshot {
			content.SortNewestFirst(items)
		}
	})

	return snapshot
}
