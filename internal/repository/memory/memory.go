// Package memory provides an in-memory implementation of the repository
// interfaces behind a single mutex. It backs the state machine and ledger
// tests and local development without a database; all invariants match the
// postgres implementation (atomic reserve/release, version-guarded updates).
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"hostelhub-backend/internal/domain"
)

type Store struct {
	mu sync.Mutex

	users         map[int32]*domain.User
	properties    map[int32]*domain.Property
	roomTypes     map[int32]*domain.RoomType
	bookings      map[int32]*domain.Booking
	agreements    map[int32]*domain.Agreement
	notifications map[int32]*domain.Notification

	nextID int32
}

func NewStore() *Store {
	return &Store{
		users:         make(map[int32]*domain.User),
		properties:    make(map[int32]*domain.Property),
		roomTypes:     make(map[int32]*domain.RoomType),
		bookings:      make(map[int32]*domain.Booking),
		agreements:    make(map[int32]*domain.Agreement),
		notifications: make(map[int32]*domain.Notification),
	}
}

func (s *Store) nextSeq() int32 {
	s.nextID++
	return s.nextID
}

func now() string {
	return time.Now().Format(time.RFC3339)
}

// --- UserRepository ---

func (s *Store) Create(ctx context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.nextSeq()
	u.CreatedOn = now()
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *Store) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) Update(ctx context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

// UserStore, PropertyStore etc. expose the Store under one repository
// interface each, so it can satisfy interfaces whose method names collide.
type UserStore struct{ *Store }

type PropertyStore struct{ *Store }

func (s PropertyStore) Create(ctx context.Context, p *domain.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextSeq()
	if p.SignOrder == "" {
		p.SignOrder = domain.SignOrderAny
	}
	p.CreatedOn = now()
	p.UpdatedOn = p.CreatedOn
	cp := *p
	s.properties[p.ID] = &cp
	return nil
}

func (s PropertyStore) GetByID(ctx context.Context, id int32) (*domain.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.properties[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s PropertyStore) Update(ctx context.Context, p *domain.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.properties[p.ID]; !ok {
		return domain.ErrNotFound
	}
	p.UpdatedOn = now()
	cp := *p
	s.properties[p.ID] = &cp
	return nil
}

func (s PropertyStore) ListByOwner(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Property, int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var props []domain.Property
	for _, p := range s.properties {
		if p.OwnerID == ownerID {
			props = append(props, *p)
		}
	}
	sort.Slice(props, func(i, j int) bool { return props[i].ID < props[j].ID })
	return paginate(props, page, pageSize)
}

func (s PropertyStore) Search(ctx context.Context, city, query string, page, pageSize int32) ([]domain.Property, int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var props []domain.Property
	for _, p := range s.properties {
		if city != "" && !strings.EqualFold(p.City, city) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Name+" "+p.Description), strings.ToLower(query)) {
			continue
		}
		props = append(props, *p)
	}
	sort.Slice(props, func(i, j int) bool { return props[i].ID < props[j].ID })
	return paginate(props, page, pageSize)
}

type RoomTypeStore struct{ *Store }

func (s RoomTypeStore) Create(ctx context.Context, rt *domain.RoomType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt.ID = s.nextSeq()
	rt.CreatedOn = now()
	rt.UpdatedOn = rt.CreatedOn
	cp := *rt
	s.roomTypes[rt.ID] = &cp
	return nil
}

func (s RoomTypeStore) GetByID(ctx context.Context, id int32) (*domain.RoomType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt, ok := s.roomTypes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rt
	return &cp, nil
}

func (s RoomTypeStore) Update(ctx context.Context, rt *domain.RoomType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.roomTypes[rt.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Name = rt.Name
	cur.MaxOccupancy = rt.MaxOccupancy
	cur.PricePerBedCents = rt.PricePerBedCents
	cur.SecurityDepositCents = rt.SecurityDepositCents
	cur.UpdatedOn = now()
	return nil
}

func (s RoomTypeStore) Delete(ctx context.Context, id int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roomTypes[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.roomTypes, id)
	return nil
}

func (s RoomTypeStore) ListByProperty(ctx context.Context, propertyID int32) ([]domain.RoomType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var types []domain.RoomType
	for _, rt := range s.roomTypes {
		if rt.PropertyID == propertyID {
			types = append(types, *rt)
		}
	}
	sort.Slice(types, func(i, j int) bool { return types[i].ID < types[j].ID })
	return types, nil
}

// Reserve checks and decrements under the store mutex, the in-memory
// equivalent of the single-statement SQL update.
func (s RoomTypeStore) Reserve(ctx context.Context, id, count int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt, ok := s.roomTypes[id]
	if !ok {
		return domain.ErrNotFound
	}
	if rt.AvailableRooms < count {
		return domain.ErrOutOfCapacity
	}
	rt.AvailableRooms -= count
	rt.UpdatedOn = now()
	return nil
}

func (s RoomTypeStore) Release(ctx context.Context, id, count int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt, ok := s.roomTypes[id]
	if !ok {
		return domain.ErrNotFound
	}
	if rt.AvailableRooms+count > rt.TotalRooms {
		return domain.ErrInvalidRelease
	}
	rt.AvailableRooms += count
	rt.UpdatedOn = now()
	return nil
}

type BookingStore struct{ *Store }

func (s BookingStore) Create(ctx context.Context, b *domain.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.nextSeq()
	b.Version = 1
	b.CreatedOn = now()
	b.UpdatedOn = b.CreatedOn
	cp := *b
	s.bookings[b.ID] = &cp
	return nil
}

func (s BookingStore) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s BookingStore) Update(ctx context.Context, b *domain.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.bookings[b.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Version != b.Version {
		return domain.ErrConflict
	}
	b.Version++
	b.UpdatedOn = now()
	cp := *b
	s.bookings[b.ID] = &cp
	return nil
}

func (s BookingStore) ListByStudent(ctx context.Context, studentID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return s.listBookings(func(b *domain.Booking) bool { return b.StudentID == studentID }, status, page, pageSize)
}

func (s BookingStore) ListByProperty(ctx context.Context, propertyID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return s.listBookings(func(b *domain.Booking) bool { return b.PropertyID == propertyID }, status, page, pageSize)
}

func (s BookingStore) listBookings(match func(*domain.Booking) bool, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var bookings []domain.Booking
	for _, b := range s.bookings {
		if !match(b) {
			continue
		}
		if status != "" && string(b.Status) != status {
			continue
		}
		bookings = append(bookings, *b)
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].ID < bookings[j].ID })
	return paginate(bookings, page, pageSize)
}

func (s BookingStore) CountNonTerminalByRoomType(ctx context.Context, roomTypeID int32) (int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int32
	for _, b := range s.bookings {
		if b.RoomTypeID == roomTypeID && (b.Status == domain.BookingStatusPending || b.Status == domain.BookingStatusConfirmed) {
			count++
		}
	}
	return count, nil
}

func (s BookingStore) ListStalePending(ctx context.Context, before string) ([]domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var bookings []domain.Booking
	for _, b := range s.bookings {
		if b.Status == domain.BookingStatusPending && b.StartDate < before {
			bookings = append(bookings, *b)
		}
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].ID < bookings[j].ID })
	return bookings, nil
}

type AgreementStore struct{ *Store }

func (s AgreementStore) Create(ctx context.Context, a *domain.Agreement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.nextSeq()
	a.Version = 1
	a.CreatedOn = now()
	a.UpdatedOn = a.CreatedOn
	cp := *a
	s.agreements[a.ID] = &cp
	return nil
}

func (s AgreementStore) GetByID(ctx context.Context, id int32) (*domain.Agreement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.agreements[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s AgreementStore) GetCurrentByBookingID(ctx context.Context, bookingID int32) (*domain.Agreement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.agreements {
		if a.BookingID == bookingID && a.Status != domain.AgreementStatusCancelled {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s AgreementStore) Update(ctx context.Context, a *domain.Agreement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.agreements[a.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Version != a.Version {
		return domain.ErrConflict
	}
	a.Version++
	a.UpdatedOn = now()
	cp := *a
	s.agreements[a.ID] = &cp
	return nil
}

func (s AgreementStore) ListByParty(ctx context.Context, userID int32, party domain.Party, status string, page, pageSize int32) ([]domain.Agreement, int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var agreements []domain.Agreement
	for _, a := range s.agreements {
		if party == domain.PartyOwner && a.OwnerID != userID {
			continue
		}
		if party == domain.PartyStudent && a.StudentID != userID {
			continue
		}
		if status != "" && string(a.Status) != status {
			continue
		}
		agreements = append(agreements, *a)
	}
	sort.Slice(agreements, func(i, j int) bool { return agreements[i].ID < agreements[j].ID })
	return paginate(agreements, page, pageSize)
}

func (s AgreementStore) ListActiveEndingBefore(ctx context.Context, date string) ([]domain.Agreement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var agreements []domain.Agreement
	for _, a := range s.agreements {
		if a.Status == domain.AgreementStatusActive && a.EndDate < date {
			agreements = append(agreements, *a)
		}
	}
	sort.Slice(agreements, func(i, j int) bool { return agreements[i].ID < agreements[j].ID })
	return agreements, nil
}

type NotificationStore struct{ *Store }

func (s NotificationStore) Create(ctx context.Context, n *domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = s.nextSeq()
	n.CreatedOn = now()
	cp := *n
	s.notifications[n.ID] = &cp
	return nil
}

func (s NotificationStore) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var notes []domain.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			notes = append(notes, *n)
		}
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].ID > notes[j].ID })
	total := int32(len(notes))
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return notes[offset:end], total, nil
}

func (s NotificationStore) MarkAsRead(ctx context.Context, id, userID int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok || n.UserID != userID {
		return domain.ErrNotFound
	}
	n.IsRead = true
	return nil
}

func paginate[T any](items []T, page, pageSize int32) ([]T, int32, error) {
	total := int32(len(items))
	if pageSize <= 0 {
		return items, total, nil
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= total {
		return nil, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return items[start:end], total, nil
}
