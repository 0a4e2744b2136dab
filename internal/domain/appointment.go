package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusBooked    = "booked"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

type Appointment struct {
	ID        int64
	UserID    int64
	MasterID  int64
	ServiceID int64
	StartsAt  time.Time
	Status    string
	CreatedAt time.Time

	// Joined fields, populated by list queries.
	MasterName  string
	ServiceName string
	Price       decimal.Decimal
}

// Confirmation is the payload returned after a successful booking.
type Confirmation struct {
	AppointmentID int64
	Master        string
	Service       string
	Date          string
	Time          string
	Price         decimal.Decimal
}
