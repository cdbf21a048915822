package models

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusAgendada  AppointmentStatus = "AGENDADA"
	StatusRealizada AppointmentStatus = "REALIZADA"
	StatusCancelada AppointmentStatus = "CANCELADA"
)

// IsTerminal reports whether no further transition is allowed.
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusRealizada || s == StatusCancelada
}

// AppointmentType tells whether the patient is seen in person or remotely.
type AppointmentType string

const (
	TypePresencial   AppointmentType = "PRESENCIAL"
	TypeTeleconsulta AppointmentType = "TELECONSULTA"
)

// Appointment represents a scheduled medical appointment. A doctor holds at
// most one appointment per exact date_time.
type Appointment struct {
	BaseModel
	PatientID       string            `gorm:"size:36;not null;index" json:"patientId"`
	DoctorID        string            `gorm:"size:36;not null;uniqueIndex:idx_appointments_doctor_slot,priority:1" json:"doctorId"`
	SecretaryID     *string           `gorm:"size:36;index" json:"secretaryId"`
	DateTime        time.Time         `gorm:"not null;uniqueIndex:idx_appointments_doctor_slot,priority:2;index" json:"dateTime"`
	Status          AppointmentStatus `gorm:"size:20;not null;default:'AGENDADA'" json:"status"`
	AppointmentType AppointmentType   `gorm:"size:20;not null" json:"appointmentType"`
	Reason          string            `gorm:"size:255;not null" json:"reason"`
	CancelReason    *string           `gorm:"size:255" json:"cancelReason"`

	// Relations
	Patient   Patient    `gorm:"foreignKey:PatientID" json:"-"`
	Doctor    Doctor     `gorm:"foreignKey:DoctorID" json:"-"`
	Secretary *Secretary `gorm:"foreignKey:SecretaryID" json:"-"`
}

// AppointmentDetail is an appointment with the display names of the people
// it references. Names are nil when the reference is empty or dangling.
type AppointmentDetail struct {
	Appointment
	PatientName   *string `json:"patientName"`
	DoctorName    *string `json:"doctorName"`
	SecretaryName *string `json:"secretaryName"`
}
