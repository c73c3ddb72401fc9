package model

import (
	"github.com/google/uuid"
)

// Staff is a bookable staff member. Only active staff participate in
// availability computation.
type Staff struct {
	Base
	FullName string  `db:"full_name" json:"full_name"`
	Phone    *string `db:"phone" json:"phone,omitempty"`
	Active   bool    `db:"active" json:"active"`
	Timezone string  `db:"timezone" json:"timezone"`
}

// StaffSchedule is one weekly working window. DayOfWeek follows the
// fixed 0=Sunday..6=Saturday convention. Start and end are wall-clock
// "HH:MM:SS" literals in the business timezone. A staff member with no
// entry for a day-of-week is not working that day.
type StaffSchedule struct {
	Base
	StaffID      uuid.UUID `db:"staff_id" json:"staff_id"`
	DayOfWeek    int       `db:"day_of_week" json:"day_of_week"`
	StartTime    string    `db:"start_time" json:"start_time"`
	EndTime      string    `db:"end_time" json:"end_time"`
	BreakMinutes int       `db:"break_minutes" json:"break_minutes"`
}
