package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/beauteq/salonbot/internal/config"
	"github.com/beauteq/salonbot/internal/domain"
)

var (
	dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRe = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// Booking executes domain operations against the store. It never touches
// per-user session state; both booking entry points share it.
type Booking struct {
	store Store
	loc   *time.Location
	now   func() time.Time
}

func NewBooking(store Store, loc *time.Location) *Booking {
	return &Booking{store: store, loc: loc, now: time.Now}
}

// ListMasters returns active masters for a free-text specialization.
func (b *Booking) ListMasters(ctx context.Context, specialization string) ([]domain.Master, error) {
	return b.store.ListMasters(ctx, NormalizeSpecialization(specialization))
}

// ListServices returns services for a free-text category.
func (b *Booking) ListServices(ctx context.Context, category string) ([]domain.Service, error) {
	return b.store.ListServices(ctx, NormalizeCategory(category))
}

// CheckAvailability resolves the master by name and checks the slot against
// working hours and existing appointments. An occupied or out-of-hours slot
// is a normal outcome carried in the Availability, not an error.
func (b *Booking) CheckAvailability(ctx context.Context, masterName, date, tm string) (domain.Availability, error) {
	at, err := b.parseSlot(date, tm)
	if err != nil {
		return domain.Availability{}, err
	}

	masters, err := b.store.ListMasters(ctx, "")
	if err != nil {
		return domain.Availability{}, err
	}
	master, ok := ResolveMaster(masterName, masters)
	if !ok {
		return domain.Availability{}, domain.ErrMasterNotFound
	}

	return b.checkSlot(ctx, master, at)
}

// Create resolves master and service by name and books the slot.
// The availability pre-check is re-run; a concurrent booking that slips
// between the check and the insert surfaces as domain.ErrSlotTaken from
// the store's uniqueness guarantee.
func (b *Booking) Create(ctx context.Context, userID int64, masterName, serviceName, date, tm string) (domain.Confirmation, domain.Availability, error) {
	masters, err := b.store.ListMasters(ctx, "")
	if err != nil {
		return domain.Confirmation{}, domain.Availability{}, err
	}
	master, ok := ResolveMaster(masterName, masters)
	if !ok {
		return domain.Confirmation{}, domain.Availability{}, domain.ErrMasterNotFound
	}

	services, err := b.store.ListServices(ctx, "")
	if err != nil {
		return domain.Confirmation{}, domain.Availability{}, err
	}
	svc, ok := ResolveService(serviceName, services)
	if !ok {
		return domain.Confirmation{}, domain.Availability{}, domain.ErrServiceNotFound
	}

	return b.Book(ctx, userID, master, svc, date, tm)
}

// Book inserts an appointment for already-resolved entities.
func (b *Booking) Book(ctx context.Context, userID int64, master domain.Master, svc domain.Service, date, tm string) (domain.Confirmation, domain.Availability, error) {
	at, err := b.parseSlot(date, tm)
	if err != nil {
		return domain.Confirmation{}, domain.Availability{}, err
	}

	avail, err := b.checkSlot(ctx, master, at)
	if err != nil {
		return domain.Confirmation{}, domain.Availability{}, err
	}
	if !avail.Available {
		return domain.Confirmation{}, avail, nil
	}

	id, err := b.store.CreateAppointment(ctx, userID, master.ID, svc.ID, at)
	if err != nil {
		return domain.Confirmation{}, domain.Availability{}, err
	}

	return domain.Confirmation{
		AppointmentID: id,
		Master:        master.Name,
		Service:       svc.Name,
		Date:          date,
		Time:          tm,
		Price:         svc.Price,
	}, avail, nil
}

// UserAppointments lists a user's appointments, newest first.
func (b *Booking) UserAppointments(ctx context.Context, userID int64) ([]domain.Appointment, error) {
	return b.store.ListAppointments(ctx, userID)
}

func (b *Booking) checkSlot(ctx context.Context, master domain.Master, at time.Time) (domain.Availability, error) {
	if !b.withinWorkingHours(at) {
		return domain.Availability{Available: false, Reason: domain.ReasonOutsideHours, Master: master.Name}, nil
	}

	free, err := b.store.IsAvailable(ctx, master.ID, at)
	if err != nil {
		return domain.Availability{}, fmt.Errorf("check slot: %w", err)
	}
	reason := domain.ReasonFree
	if !free {
		reason = domain.ReasonBusy
	}
	return domain.Availability{Available: free, Reason: reason, Master: master.Name}, nil
}

func (b *Booking) parseSlot(date, tm string) (time.Time, error) {
	if !dateRe.MatchString(date) {
		return time.Time{}, &domain.ValidationError{Field: "date", Hint: "ГГГГ-ММ-ДД"}
	}
	if !timeRe.MatchString(tm) {
		return time.Time{}, &domain.ValidationError{Field: "time", Hint: "ЧЧ:ММ (например, 14:30)"}
	}
	at, err := time.ParseInLocation("2006-01-02 15:04", date+" "+tm, b.loc)
	if err != nil {
		return time.Time{}, &domain.ValidationError{Field: "date", Hint: "ГГГГ-ММ-ДД и ЧЧ:ММ"}
	}
	return at, nil
}

func (b *Booking) withinWorkingHours(at time.Time) bool {
	hour := at.Hour()
	switch at.Weekday() {
	case time.Saturday, time.Sunday:
		return hour >= config.WeekendOpenHour && hour < config.WeekendCloseHour
	default:
		return hour >= config.WeekdayOpenHour && hour < config.WeekdayCloseHour
	}
}
