package model

import "time"

type AppointmentType string

const (
	AppointmentConsultation AppointmentType = "Consulta Farmacêutica"
	AppointmentPickup       AppointmentType = "Retirada de Medicamentos"
	AppointmentInjection    AppointmentType = "Aplicação de Injetáveis"
	AppointmentOther        AppointmentType = "Outro"
)

func (t AppointmentType) Valid() bool {
	switch t {
	case AppointmentConsultation, AppointmentPickup, AppointmentInjection, AppointmentOther:
		return true
	}
	return false
}

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "Pendente"
	StatusConfirmed AppointmentStatus = "Confirmado"
	StatusDone      AppointmentStatus = "Concluído"
	StatusCancelled AppointmentStatus = "Cancelado"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusDone, StatusCancelled:
		return true
	}
	return false
}

// Appointment is a service booked at the pharmacy counter.
type Appointment struct {
	ID          string            `db:"id" json:"id"`
	UserName    string            `db:"user_name" json:"usuario"`
	UserID      string            `db:"user_id" json:"usuarioId"`
	ScheduledAt time.Time         `db:"scheduled_at" json:"dataHora"`
	Type        AppointmentType   `db:"type" json:"tipo"`
	Note        string            `db:"note" json:"observacao,omitempty"`
	Status      AppointmentStatus `db:"status" json:"status"`
	CreatedAt   time.Time         `db:"created_at" json:"criadoEm"`
}
