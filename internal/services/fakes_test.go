package services

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/agent-ticketing-backend/internal/database"
	"github.com/smarttransit/agent-ticketing-backend/internal/models"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

// ---------------------------------------------------------------------------
// Trips

type fakeTripStore struct {
	mu    sync.Mutex
	trips map[uuid.UUID]*models.Trip
	err   error
}

func newFakeTripStore(trips ...*models.Trip) *fakeTripStore {
	s := &fakeTripStore{trips: make(map[uuid.UUID]*models.Trip)}
	for _, t := range trips {
		s.trips[t.ID] = t
	}
	return s
}

func (s *fakeTripStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	t, ok := s.trips[id]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (s *fakeTripStore) Search(ctx context.Context, origin, destination string, from, until time.Time, statuses []models.TripStatus) ([]models.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	result := []models.Trip{}
	for _, t := range s.trips {
		if t.OriginCity != origin || t.DestinationCity != destination {
			continue
		}
		if t.DepartureTime.Before(from) || !t.DepartureTime.Before(until) {
			continue
		}
		for _, st := range statuses {
			if t.Status == st {
				result = append(result, *t)
				break
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DepartureTime.Before(result[j].DepartureTime) })
	return result, nil
}

// ---------------------------------------------------------------------------
// Holds

type fakeHoldStore struct {
	mu    sync.Mutex
	holds []models.ReservationHold
	err   error
}

func (s *fakeHoldStore) add(tripID uuid.UUID, seat int, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holds = append(s.holds, models.ReservationHold{ID: uuid.New(), TripID: tripID, SeatNumber: seat, ExpiresAt: expiresAt})
}

func (s *fakeHoldStore) ListActiveSeats(ctx context.Context, tripIDs []uuid.UUID, now time.Time) ([]models.SeatOccupant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	wanted := make(map[uuid.UUID]bool, len(tripIDs))
	for _, id := range tripIDs {
		wanted[id] = true
	}
	seats := []models.SeatOccupant{}
	for _, h := range s.holds {
		if wanted[h.TripID] && h.IsActiveAt(now) {
			seats = append(seats, models.SeatOccupant{TripID: h.TripID, SeatNumber: h.SeatNumber})
		}
	}
	return seats, nil
}

// ---------------------------------------------------------------------------
// Passengers

type fakePassengerStore struct {
	mu         sync.Mutex
	passengers map[uuid.UUID]*models.Passenger
	findErr    error
	createErr  error
	upserts    int
	creates    int

	// beforeCreate runs inside Create before the uniqueness check
	beforeCreate func()
}

func newFakePassengerStore() *fakePassengerStore {
	return &fakePassengerStore{passengers: make(map[uuid.UUID]*models.Passenger)}
}

func (s *fakePassengerStore) addPassenger(first, last, phone string) *models.Passenger {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &models.Passenger{ID: uuid.New(), FirstName: first, LastName: last, PhoneNumber: phone, CreatedAt: time.Now()}
	s.passengers[p.ID] = p
	return p
}

func (s *fakePassengerStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.passengers)
}

func (s *fakePassengerStore) FindByPhone(ctx context.Context, phone string) (*models.Passenger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	for _, p := range s.passengers {
		if p.PhoneNumber == phone {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakePassengerStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Passenger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	p, ok := s.passengers[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (s *fakePassengerStore) Create(ctx context.Context, profile *models.NewPassengerProfile) (*models.Passenger, error) {
	if s.beforeCreate != nil {
		s.beforeCreate()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	if s.createErr != nil {
		return nil, s.createErr
	}
	for _, p := range s.passengers {
		if p.PhoneNumber == profile.PhoneNumber {
			return nil, database.ErrPassengerPhoneTaken
		}
	}
	p := &models.Passenger{
		ID:                    uuid.New(),
		FirstName:             profile.FirstName,
		LastName:              profile.LastName,
		PhoneNumber:           profile.PhoneNumber,
		NationalID:            profile.NationalID,
		DateOfBirth:           profile.DateOfBirth,
		EmergencyContactName:  profile.Extension.EmergencyContactName,
		EmergencyContactPhone: profile.Extension.EmergencyContactPhone,
		PassportNumber:        profile.Extension.PassportNumber,
		Nationality:           profile.Extension.Nationality,
		CreatedAt:             time.Now(),
	}
	s.passengers[p.ID] = p
	copied := *p
	return &copied, nil
}

func (s *fakePassengerStore) UpsertExtension(ctx context.Context, id uuid.UUID, ext models.PassengerExtension) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserts++
	p, ok := s.passengers[id]
	if !ok {
		return nil
	}
	if ext.EmergencyContactName != nil {
		p.EmergencyContactName = ext.EmergencyContactName
	}
	if ext.EmergencyContactPhone != nil {
		p.EmergencyContactPhone = ext.EmergencyContactPhone
	}
	if ext.PassportNumber != nil {
		p.PassportNumber = ext.PassportNumber
	}
	if ext.Nationality != nil {
		p.Nationality = ext.Nationality
	}
	return nil
}

// ---------------------------------------------------------------------------
// Tickets

// fakeTicketStore enforces the same uniqueness rules as the schema:
// one non-cancelled ticket per (trip, seat) and unique payment references
type fakeTicketStore struct {
	mu         sync.Mutex
	tickets    []*models.Ticket
	seq        int64
	trips      *fakeTripStore
	passengers *fakePassengerStore
	createErr  error
	inserts    int

	// beforeInsert runs inside Create before the uniqueness checks
	beforeInsert func()
}

func newFakeTicketStore(trips *fakeTripStore, passengers *fakePassengerStore) *fakeTicketStore {
	return &fakeTicketStore{trips: trips, passengers: passengers}
}

func (s *fakeTicketStore) addTicket(tripID uuid.UUID, seat int, status models.TicketStatus) *models.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &models.Ticket{
		ID:           uuid.New(),
		TripID:       tripID,
		SeatNumber:   seat,
		Status:       status,
		TicketNumber: models.FormatTicketNumber(time.Now(), s.seq),
	}
	s.tickets = append(s.tickets, t)
	return t
}

func (s *fakeTicketStore) all() []*models.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.Ticket(nil), s.tickets...)
}

func (s *fakeTicketStore) Create(ctx context.Context, ticket *models.Ticket) error {
	if s.beforeInsert != nil {
		s.beforeInsert()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserts++
	if s.createErr != nil {
		return s.createErr
	}
	for _, t := range s.tickets {
		if t.TripID == ticket.TripID && t.SeatNumber == ticket.SeatNumber && t.Status != models.TicketStatusCancelled {
			return database.ErrSeatTaken
		}
		if ticket.PaymentReference != nil && t.PaymentReference != nil && *t.PaymentReference == *ticket.PaymentReference {
			return database.ErrPaymentReferenceTaken
		}
	}
	s.seq++
	stored := *ticket
	stored.ID = uuid.New()
	stored.TicketNumber = models.FormatTicketNumber(ticket.BookingTime, s.seq)
	s.tickets = append(s.tickets, &stored)

	ticket.ID = stored.ID
	ticket.TicketNumber = stored.TicketNumber
	return nil
}

func (s *fakeTicketStore) ListOccupiedSeats(ctx context.Context, tripIDs []uuid.UUID) ([]models.SeatOccupant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(tripIDs))
	for _, id := range tripIDs {
		wanted[id] = true
	}
	seats := []models.SeatOccupant{}
	for _, t := range s.tickets {
		if wanted[t.TripID] && (t.Status == models.TicketStatusActive || t.Status == models.TicketStatusPending) {
			seats = append(seats, models.SeatOccupant{TripID: t.TripID, SeatNumber: t.SeatNumber})
		}
	}
	return seats, nil
}

func (s *fakeTicketStore) GetDetail(ctx context.Context, id uuid.UUID) (*models.TicketDetailRow, error) {
	s.mu.Lock()
	var found *models.Ticket
	for _, t := range s.tickets {
		if t.ID == id {
			copied := *t
			found = &copied
			break
		}
	}
	s.mu.Unlock()
	if found == nil {
		return nil, nil
	}

	trip, _ := s.trips.GetByID(ctx, found.TripID)
	passenger, _ := s.passengers.GetByID(ctx, found.PassengerID)
	row := &models.TicketDetailRow{
		ID:               found.ID,
		TicketNumber:     found.TicketNumber,
		SeatNumber:       found.SeatNumber,
		PricePaidUSD:     found.PricePaidUSD,
		PaymentMethod:    found.PaymentMethod,
		PaymentStatus:    found.PaymentStatus,
		PaymentReference: found.PaymentReference,
		QRCodeData:       found.QRCodeData,
		BookingTime:      found.BookingTime,
		BookedBy:         found.BookedBy,
	}
	if trip != nil {
		row.DepartureTime = trip.DepartureTime
		row.OriginCity = trip.OriginCity
		row.DestinationCity = trip.DestinationCity
	}
	if passenger != nil {
		row.FirstName = passenger.FirstName
		row.LastName = passenger.LastName
		row.PhoneNumber = passenger.PhoneNumber
	}
	return row, nil
}

// ---------------------------------------------------------------------------
// History

type fakeHistoryStore struct {
	rows       []models.HistoryRow
	lastFilter models.HistoryFilter
	err        error
}

func (s *fakeHistoryStore) ListHistory(ctx context.Context, filter models.HistoryFilter) ([]models.HistoryRow, int, error) {
	s.lastFilter = filter
	if s.err != nil {
		return nil, 0, s.err
	}
	matched := []models.HistoryRow{}
	for _, r := range s.rows {
		if filter.BookedFrom != nil && r.BookingTime.Before(*filter.BookedFrom) {
			continue
		}
		if filter.BookedUntil != nil && !r.BookingTime.Before(*filter.BookedUntil) {
			continue
		}
		if filter.Origin != "" && !strings.Contains(strings.ToLower(r.OriginCity), strings.ToLower(filter.Origin)) {
			continue
		}
		if filter.Destination != "" && !strings.Contains(strings.ToLower(r.DestinationCity), strings.ToLower(filter.Destination)) {
			continue
		}
		if filter.PaymentStatus != nil && r.PaymentStatus != *filter.PaymentStatus {
			continue
		}
		matched = append(matched, r)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].BookingTime.After(matched[j].BookingTime) })

	total := len(matched)
	start := filter.Offset
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

// ---------------------------------------------------------------------------
// Payments

type fakePaymentStore struct {
	mu   sync.Mutex
	txns []models.PaymentTransaction
	err  error
}

func (s *fakePaymentStore) Create(ctx context.Context, txn *models.PaymentTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	txn.ID = uuid.New()
	s.txns = append(s.txns, *txn)
	return nil
}

func (s *fakePaymentStore) ListByTicket(ctx context.Context, ticketID uuid.UUID) ([]models.PaymentTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	result := []models.PaymentTransaction{}
	for _, t := range s.txns {
		if t.TicketID == ticketID {
			result = append(result, t)
		}
	}
	return result, nil
}

// ---------------------------------------------------------------------------
// References

type sequenceReferences struct {
	mu    sync.Mutex
	codes []string
	calls int
}

func (r *sequenceReferences) Generate() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	code := r.codes[r.calls%len(r.codes)]
	r.calls++
	return code
}

// ---------------------------------------------------------------------------
// Fixtures

func newTestTrip(capacity int, price string) *models.Trip {
	return &models.Trip{
		ID:              uuid.New(),
		RouteID:         uuid.New(),
		BusID:           uuid.New(),
		OriginCity:      "Luanda",
		DestinationCity: "Cunene",
		DepartureTime:   time.Date(2025, 10, 24, 7, 0, 0, 0, time.UTC),
		SeatClass:       "economy",
		PriceUSD:        decimal.RequireFromString(price),
		Capacity:        capacity,
		LicensePlate:    "LD-12-34-AB",
		Status:          models.TripStatusScheduled,
	}
}
