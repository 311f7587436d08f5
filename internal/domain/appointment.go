package domain

// AppointmentStatus is assigned and transitioned server-side; this engine
// only displays it and requests moves.
type AppointmentStatus string

const (
	StatusCreated   AppointmentStatus = "CREATED"
	StatusPending   AppointmentStatus = "PENDING"
	StatusConfirmed AppointmentStatus = "CONFIRMED"
	StatusCancelled AppointmentStatus = "CANCELLED"
	StatusCompleted AppointmentStatus = "COMPLETED"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusCreated, StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// ClientRef is the client summary embedded in an appointment record.
type ClientRef struct {
	ID        int64
	FirstName string
	LastName  string
	Phone     string
}

// ServiceRef is the service summary embedded in an appointment record.
// Prices are integer kopecks to keep money arithmetic exact.
type ServiceRef struct {
	ID              int64
	Name            string
	DurationMinutes int
	PriceKopecks    int64
}

type Appointment struct {
	ID      int64
	Date    CalendarDate
	Start   TimeOfDay
	End     TimeOfDay
	Status  AppointmentStatus
	Client  ClientRef
	Service ServiceRef
	Notes   string
}
