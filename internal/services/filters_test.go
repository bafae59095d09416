package services

import (
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFiltersDefaults(t *testing.T) {
	f := ParseFilters(url.Values{})

	assert.Equal(t, 30, f.Days)
	assert.Equal(t, ScopeAll, f.Scope)
	assert.Nil(t, f.OfficeID)
	assert.Empty(t, f.City)
	assert.Empty(t, f.Barangay)
	assert.Empty(t, f.Category)
	assert.WithinDuration(t, time.Now().Add(-30*24*time.Hour), f.Since, time.Minute)
}

func TestParseFilters(t *testing.T) {
	officeID := uuid.New()

	tests := []struct {
		name  string
		query url.Values
		check func(t *testing.T, f Filters)
	}{
		{
			name:  "explicit days",
			query: url.Values{"days": {"7"}},
			check: func(t *testing.T, f Filters) {
				assert.Equal(t, 7, f.Days)
			},
		},
		{
			name:  "invalid days falls back to default",
			query: url.Values{"days": {"banana"}},
			check: func(t *testing.T, f Filters) {
				assert.Equal(t, 30, f.Days)
			},
		},
		{
			name:  "negative days falls back to default",
			query: url.Values{"days": {"-5"}},
			check: func(t *testing.T, f Filters) {
				assert.Equal(t, 30, f.Days)
			},
		},
		{
			name:  "our_office scope",
			query: url.Values{"scope": {"our_office"}, "office_id": {officeID.String()}},
			check: func(t *testing.T, f Filters) {
				assert.Equal(t, ScopeOurOffice, f.Scope)
				require.NotNil(t, f.OfficeID)
				assert.Equal(t, officeID, *f.OfficeID)
			},
		},
		{
			name:  "unknown scope normalizes to all",
			query: url.Values{"scope": {"everything"}},
			check: func(t *testing.T, f Filters) {
				assert.Equal(t, ScopeAll, f.Scope)
			},
		},
		{
			name:  "category all means no filter",
			query: url.Values{"category": {"All"}},
			check: func(t *testing.T, f Filters) {
				assert.Empty(t, f.Category)
			},
		},
		{
			name:  "specific category kept",
			query: url.Values{"category": {"Robbery"}},
			check: func(t *testing.T, f Filters) {
				assert.Equal(t, "Robbery", f.Category)
			},
		},
		{
			name:  "malformed office id ignored",
			query: url.Values{"office_id": {"not-a-uuid"}},
			check: func(t *testing.T, f Filters) {
				assert.Nil(t, f.OfficeID)
			},
		},
		{
			name:  "city and barangay pass through",
			query: url.Values{"city": {"Manila"}, "barangay": {"Tondo"}},
			check: func(t *testing.T, f Filters) {
				assert.Equal(t, "Manila", f.City)
				assert.Equal(t, "Tondo", f.Barangay)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, ParseFilters(tt.query))
		})
	}
}

func TestFiltersSQL(t *testing.T) {
	since := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	officeID := uuid.New()

	t.Run("timeframe only", func(t *testing.T) {
		frag, args := Filters{Since: since, Scope: ScopeAll}.SQL(1)
		assert.Equal(t, " AND created_at >= $1", frag)
		require.Len(t, args, 1)
		assert.Equal(t, since, args[0])
	})

	t.Run("all filters", func(t *testing.T) {
		f := Filters{
			Since:    since,
			Scope:    ScopeOurOffice,
			OfficeID: &officeID,
			City:     "Manila",
			Barangay: "Tondo",
			Category: "Robbery",
		}
		frag, args := f.SQL(2)

		assert.Equal(t,
			" AND created_at >= $2 AND assigned_office_id = $3"+
				" AND LOWER(location_city) = LOWER($4) AND LOWER(location_barangay) = LOWER($5)"+
				" AND LOWER(category) = LOWER($6)",
			frag)
		assert.Equal(t, []any{since, officeID, "Manila", "Tondo", "Robbery"}, args)
	})

	t.Run("barangay without city is ignored", func(t *testing.T) {
		frag, args := Filters{Since: since, Scope: ScopeAll, Barangay: "Tondo"}.SQL(1)
		assert.Equal(t, " AND created_at >= $1", frag)
		assert.Len(t, args, 1)
	})

	t.Run("our_office scope without office id adds no condition", func(t *testing.T) {
		frag, _ := Filters{Since: since, Scope: ScopeOurOffice}.SQL(1)
		assert.Equal(t, " AND created_at >= $1", frag)
	})
}

func TestFiltersMap(t *testing.T) {
	officeID := uuid.New()
	m := Filters{Days: 7, Scope: ScopeOurOffice, OfficeID: &officeID, City: "Manila"}.Map()

	assert.Equal(t, 7, m["days"])
	assert.Equal(t, ScopeOurOffice, m["scope"])
	assert.Equal(t, officeID.String(), m["office_id"])
	assert.Equal(t, "Manila", m["city"])
	assert.Nil(t, m["barangay"])
	assert.Nil(t, m["category"])
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"days and time", 51*time.Hour + 45*time.Minute + 30*time.Second, "2d 03:45:30"},
		{"under a day", 4*time.Hour + 5*time.Minute + 6*time.Second, "04:05:06"},
		{"zero", 0, "00:00:00"},
		{"negative clamps to zero", -time.Hour, "00:00:00"},
		{"exactly one day", 24 * time.Hour, "1d 00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.d))
		})
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0.0, percent(5, 0))
	assert.Equal(t, 50.0, percent(1, 2))
	assert.Equal(t, 100.0, percent(3, 3))
	assert.InDelta(t, 33.33, percent(1, 3), 0.01)
}
