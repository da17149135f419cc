package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLink_LastActivity(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clicked := created.Add(5 * time.Hour)

	link := Link{CreatedAt: created}
	assert.Equal(t, created, link.LastActivity(), "Without clicks activity should be creation time")

	link.LastClickedAt = &clicked
	assert.Equal(t, clicked, link.LastActivity(), "Activity should be the last click")
}

func TestLink_Clone(t *testing.T) {
	clicked := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	link := Link{Code: "abc123", LastClickedAt: &clicked}

	clone := link.Clone()
	*clone.LastClickedAt = clicked.Add(time.Hour)

	assert.Equal(t, clicked, *link.LastClickedAt, "Clone must not share the click timestamp")
}

func TestStoredLink_RoundTrip(t *testing.T) {
	clicked := time.Date(2024, 3, 10, 7, 45, 12, 345_000_000, time.UTC)
	link := Link{
		Code:          "Zx9Qa1",
		OriginalURL:   "https://example.com/a?b=c",
		CreatedAt:     time.Date(2024, 3, 9, 7, 45, 12, 0, time.UTC),
		LastClickedAt: &clicked,
		ClickCount:    42,
	}

	stored := link.Stored()
	assert.Equal(t, "2024-03-09T07:45:12.000Z", stored.CreatedAt)
	if assert.NotNil(t, stored.LastClickedAt) {
		assert.Equal(t, "2024-03-10T07:45:12.345Z", *stored.LastClickedAt)
	}

	assert.Equal(t, link, stored.Link("Zx9Qa1"))
}

func TestStoredLink_LinkDefaults(t *testing.T) {
	tests := []struct {
		name   string
		stored StoredLink
		check  func(t *testing.T, l Link)
	}{
		{
			name:   "missing createdAt",
			stored: StoredLink{URL: "https://example.com"},
			check: func(t *testing.T, l Link) {
				assert.True(t, l.CreatedAt.IsZero())
				assert.Nil(t, l.LastClickedAt)
			},
		},
		{
			name:   "garbage timestamps",
			stored: StoredLink{URL: "https://example.com", CreatedAt: "yesterday", LastClickedAt: strPtr("soon")},
			check: func(t *testing.T, l Link) {
				assert.True(t, l.CreatedAt.IsZero())
				assert.Nil(t, l.LastClickedAt)
			},
		},
		{
			name:   "negative clicks",
			stored: StoredLink{URL: "https://example.com", Clicks: -3},
			check: func(t *testing.T, l Link) {
				assert.Equal(t, int64(0), l.ClickCount)
			},
		},
		{
			name:   "timestamp without milliseconds",
			stored: StoredLink{URL: "https://example.com", CreatedAt: "2024-01-01T10:00:00Z"},
			check: func(t *testing.T, l Link) {
				assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), l.CreatedAt)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := tt.stored.Link("code01")
			assert.Equal(t, "code01", l.Code)
			tt.check(t, l)
		})
	}
}

func strPtr(s string) *string {
	return &s
}
