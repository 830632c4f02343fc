package devapi

import (
	"encoding/json"
	"fmt"
	"time"

	"mabletask/dashboard/models"
)

var demoTypes = []models.EventType{models.EventCreate, models.EventUpdate, models.EventCreate, models.EventDelete}

// DemoEvents builds a week of audit history ending at now: one to four
// events per day from three users, oldest first.
func DemoEvents(now time.Time) []models.EventRecord {
	start := now.UTC().Truncate(24*time.Hour).AddDate(0, 0, -6)

	var out []models.EventRecord
	seq := 0
	for day := 0; day < 7; day++ {
		for i := 0; i <= day%4; i++ {
			seq++
			details, _ := json.Marshal(map[string]string{"source": "demo"})
			out = append(out, models.EventRecord{
				ID:        models.FlexID(fmt.Sprintf("demo-%d", seq)),
				Timestamp: start.AddDate(0, 0, day).Add(time.Duration(9+2*i) * time.Hour),
				EventType: demoTypes[(seq-1)%len(demoTypes)],
				UserID:    models.FlexID(fmt.Sprintf("demo-user-%d", seq%3+1)),
				ProductID: models.FlexID(fmt.Sprintf("%sdemo-%d", productIDPrefix, seq%5+1)),
				Details:   details,
			})
		}
	}
	return out
}

// SeedDemo fills the event log with DemoEvents so the events screen has
// something to chart on a fresh dev API.
func (s *Server) SeedDemo(now time.Time) int {
	records := DemoEvents(now)
	s.Events.Seed(records...)
	return len(records)
}
