package models

import "time"

type Doctor struct {
	ID        int
	Name      string
	Specialty string
	Hours     string
}

type Department struct {
	ID   int
	Name string
}

// DateLayout is the display format of appointment dates (day/month/year).
const DateLayout = "02/01/2006"

// FormatDate renders t the way appointment dates are stored.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

var Doctors = []Doctor{
	{ID: 1, Name: "Dr. Prince Boateng", Specialty: "Dentist", Hours: "10:30am - 5:30pm"},
	{ID: 2, Name: "Dr. Angela Adamtey", Specialty: "Hematologist", Hours: "10:30am - 5:30pm"},
	{ID: 3, Name: "Dr. Ernest Wilson", Specialty: "Radiologist", Hours: "10:30am - 5:30pm"},
}

var Departments = []Department{
	{ID: 1, Name: "X-Ray"},
	{ID: 2, Name: "Dental"},
	{ID: 3, Name: "Vitals"},
	{ID: 4, Name: "Doctor"},
}

var TimeSlots = []string{
	"10:30am - 11:30am",
	"11:30am - 12:30pm",
	"12:30pm - 1:30pm",
	"2:30pm - 3:30pm",
	"3:30pm - 4:30pm",
	"4:30pm - 5:30pm",
}

// CancellationReasons are offered when cancelling. The reason is logged,
// not stored with the appointment.
var CancellationReasons = []string{
	"Rescheduling",
	"Weather Conditions",
	"Unexpected Work",
	"Others",
}

// DoctorByID looks a doctor up in the catalog.
func DoctorByID(id int) (Doctor, bool) {
	for _, d := range Doctors {
		if d.ID == id {
			return d, true
		}
	}
	return Doctor{}, false
}
