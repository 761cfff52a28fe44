package dto

import (
	"time"

	"github.com/fekuna/omnipos-pharmacy-service/internal/auth"
)

type AppointmentInput struct {
	Actor       auth.Actor
	ScheduledAt time.Time
	Type        string
	Note        string
}
