// Package models defines the client-side records: appointments, students,
// profiles and the static clinic catalog.
package models

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusComplete  Status = "complete"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusUpcoming, StatusComplete, StatusCancelled:
		return true
	}
	return false
}

// Appointment is a booking of a doctor for a date and time slot.
// Date and Time are display strings, e.g. "01/01/2025" and
// "10:30am - 11:30am"; they are never parsed.
type Appointment struct {
	ID        int64  `json:"id"`
	Doctor    string `json:"doctor"`
	Specialty string `json:"specialty"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Status    Status `json:"status"`
}

// NewAppointment carries the caller-supplied fields of a booking.
// The store assigns ID and Status.
type NewAppointment struct {
	Doctor    string
	Specialty string
	Date      string
	Time      string
}

// FilterByStatus returns the appointments whose status equals s,
// preserving order.
func FilterByStatus(list []Appointment, s Status) []Appointment {
	out := make([]Appointment, 0, len(list))
	for _, a := range list {
		if a.Status == s {
			out = append(out, a)
		}
	}
	return out
}
