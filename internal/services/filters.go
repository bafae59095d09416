// Package services contains business logic layers.
// Services are called by handlers and interact with the database.
package services

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ScopeAll and ScopeOurOffice are the two analytics scopes.
const (
	ScopeAll       = "all"
	ScopeOurOffice = "our_office"
)

// Filters is the normalized filter set parsed from query parameters.
// Every report query in the analytics and export paths narrows through
// the same SQL() routine so all endpoints share one semantics.
type Filters struct {
	Days     int
	Since    time.Time
	Scope    string
	OfficeID *uuid.UUID
	City     string
	Barangay string
	Category string
}

// ParseFilters extracts the shared filter parameters from a query string.
// Defaults: days=30, scope=all. A category of "all" means no filter.
func ParseFilters(q url.Values) Filters {
	days := 30
	if d, err := strconv.Atoi(q.Get("days")); err == nil && d > 0 {
		days = d
	}

	scope := strings.ToLower(q.Get("scope"))
	if scope != ScopeOurOffice {
		scope = ScopeAll
	}

	var officeID *uuid.UUID
	if id, err := uuid.Parse(q.Get("office_id")); err == nil {
		officeID = &id
	}

	category := q.Get("category")
	if strings.EqualFold(category, "all") {
		category = ""
	}

	return Filters{
		Days:     days,
		Since:    time.Now().Add(-time.Duration(days) * 24 * time.Hour),
		Scope:    scope,
		OfficeID: officeID,
		City:     q.Get("city"),
		Barangay: q.Get("barangay"),
		Category: category,
	}
}

// SQL renders the filter set as a WHERE fragment starting with " AND".
// startArg is the next free positional-placeholder index. The barangay
// filter only applies when a city is also given.
func (f Filters) SQL(startArg int) (string, []any) {
	var (
		conds []string
		args  []any
	)

	add := func(cond string, val any) {
		conds = append(conds, fmt.Sprintf(cond, startArg+len(args)))
		args = append(args, val)
	}

	add("created_at >= $%d", f.Since)

	if f.Scope == ScopeOurOffice && f.OfficeID != nil {
		add("assigned_office_id = $%d", *f.OfficeID)
	}
	if f.City != "" {
		add("LOWER(location_city) = LOWER($%d)", f.City)
		if f.Barangay != "" {
			add("LOWER(location_barangay) = LOWER($%d)", f.Barangay)
		}
	}
	if f.Category != "" {
		add("LOWER(category) = LOWER($%d)", f.Category)
	}

	return " AND " + strings.Join(conds, " AND "), args
}

// Map echoes the filter set back in API responses.
func (f Filters) Map() map[string]any {
	m := map[string]any{
		"days":      f.Days,
		"scope":     f.Scope,
		"office_id": nil,
		"city":      nilIfEmpty(f.City),
		"barangay":  nilIfEmpty(f.Barangay),
		"category":  nilIfEmpty(f.Category),
	}
	if f.OfficeID != nil {
		m["office_id"] = f.OfficeID.String()
	}
	return m
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// FormatDuration renders a duration as "{days}d HH:MM:SS", omitting the
// day segment when zero. Used for resolution times.
func FormatDuration(d time.Duration) string {
	total := int(d.Seconds())
	if total < 0 {
		total = 0
	}

	days := total / 86400
	rem := total % 86400
	h, m, s := rem/3600, (rem%3600)/60, rem%60

	if days > 0 {
		return fmt.Sprintf("%dd %02d:%02d:%02d", days, h, m, s)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// percent is count/total scaled to [0, 100], with a zero total mapping
// to 0 rather than a division error.
func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100.0
}
