// Package events aggregates and filters the audit event log for the event
// screen. All functions are pure and leave their input untouched.
package events

import (
	"fmt"
	"sort"
	"time"

	"mabletask/dashboard/apperr"
	"mabletask/dashboard/models"
)

const dayLayout = "2006-01-02"

// AggregateByDay counts events per calendar day in the local time zone.
func AggregateByDay(events []models.EventRecord) []models.EventBucket {
	return AggregateByDayIn(events, time.Local)
}

// AggregateByDayIn counts events per calendar day in loc, ascending by day.
func AggregateByDayIn(events []models.EventRecord, loc *time.Location) []models.EventBucket {
	counts := make(map[string]int)
	for _, e := range events {
		counts[e.Timestamp.In(loc).Format(dayLayout)]++
	}

	buckets := make([]models.EventBucket, 0, len(counts))
	for day, n := range counts {
		buckets = append(buckets, models.EventBucket{Date: day, Count: n})
	}
	// ISO dates sort chronologically as strings.
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Date < buckets[j].Date })
	return buckets
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// ApplyFilters keeps events matching every criterion that is set, in the
// local time zone.
func ApplyFilters(events []models.EventRecord, c models.FilterCriteria) []models.EventRecord {
	return ApplyFiltersIn(events, c, time.Local)
}

// ApplyFiltersIn keeps events matching every criterion that is set. Start is
// inclusive from the start of its day, End inclusive through the end of its
// day. Order is preserved.
func ApplyFiltersIn(events []models.EventRecord, c models.FilterCriteria, loc *time.Location) []models.EventRecord {
	var from, until time.Time
	if !c.DateRange.Start.IsZero() {
		from = startOfDay(c.DateRange.Start, loc)
	}
	if !c.DateRange.End.IsZero() {
		until = startOfDay(c.DateRange.End, loc).AddDate(0, 0, 1)
	}

	out := make([]models.EventRecord, 0, len(events))
	for _, e := range events {
		if c.EventType != "" && e.EventType != c.EventType {
			continue
		}
		if c.UserID != "" && e.UserID.String() != c.UserID {
			continue
		}
		if !from.IsZero() && e.Timestamp.Before(from) {
			continue
		}
		if !until.IsZero() && !e.Timestamp.Before(until) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// DistinctUserIDs lists each user id once, in first-seen order.
func DistinctUserIDs(events []models.EventRecord) []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, e := range events {
		id := e.UserID.String()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// ParseCriteria builds criteria from selector values. Empty strings leave the
// corresponding criterion unset; dates are YYYY-MM-DD in loc.
func ParseCriteria(eventType, userID, start, end string, loc *time.Location) (models.FilterCriteria, error) {
	fields := map[string]string{}
	c := models.FilterCriteria{UserID: userID}

	if eventType != "" {
		if models.IsValidEventType(eventType) {
			c.EventType = models.EventType(eventType)
		} else {
			fields["eventType"] = fmt.Sprintf("must be one of %v", models.EventTypes)
		}
	}
	if start != "" {
		t, err := time.ParseInLocation(dayLayout, start, loc)
		if err != nil {
			fields["start"] = "must be a date (YYYY-MM-DD)"
		}
		c.DateRange.Start = t
	}
	if end != "" {
		t, err := time.ParseInLocation(dayLayout, end, loc)
		if err != nil {
			fields["end"] = "must be a date (YYYY-MM-DD)"
		}
		c.DateRange.End = t
	}

	if len(fields) > 0 {
		return models.FilterCriteria{}, apperr.ValidationErr("Invalid filter", fields)
	}
	return c, nil
}
