package dto

import (
	"strings"
	"time"
)

type AppointmentRequest struct {
	ScheduledAt string `json:"dataHora"`
	Type        string `json:"tipo"`
	Note        string `json:"observacao"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

// datetime-local inputs carry no seconds and no zone
var dateTimeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04"}

// ParseDateTime reads an RFC 3339 timestamp or a zone-less local time as UTC.
func ParseDateTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
