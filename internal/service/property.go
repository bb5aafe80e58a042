package service

import (
	"context"
	"fmt"

	"hostelhub-backend/internal/domain"
	"hostelhub-backend/internal/ledger"
	"hostelhub-backend/internal/logger"
	"hostelhub-backend/internal/repository"
)

type propertyService struct {
	properties repository.PropertyRepository
	roomTypes  repository.RoomTypeRepository
	bookings   repository.BookingRepository
	rooms      *ledger.Ledger
}

func NewPropertyService(
	properties repository.PropertyRepository,
	roomTypes repository.RoomTypeRepository,
	bookings repository.BookingRepository,
	rooms *ledger.Ledger,
) PropertyService {
	return &propertyService{
		properties: properties,
		roomTypes:  roomTypes,
		bookings:   bookings,
		rooms:      rooms,
	}
}

func (s *propertyService) CreateProperty(ctx context.Context, actor domain.Actor, prop *domain.Property) error {
	if actor.Role != domain.UserRoleOwner && !actor.IsAdmin() {
		return fmt.Errorf("only owners can list properties: %w", domain.ErrWrongParty)
	}
	if prop.Name == "" || prop.City == "" {
		return fmt.Errorf("property name and city are required")
	}
	if prop.SignOrder == "" {
		prop.SignOrder = domain.SignOrderAny
	}
	switch prop.SignOrder {
	case domain.SignOrderAny, domain.SignOrderOwnerFirst, domain.SignOrderStudentFirst:
	default:
		return fmt.Errorf("unknown sign order %q", prop.SignOrder)
	}
	prop.OwnerID = actor.ID

	if err := s.properties.Create(ctx, prop); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Property created", "property_id", prop.ID, "owner_id", prop.OwnerID)
	return nil
}

func (s *propertyService) GetProperty(ctx context.Context, id int32) (*domain.Property, []domain.RoomType, error) {
	prop, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	roomTypes, err := s.roomTypes.ListByProperty(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return prop, roomTypes, nil
}

func (s *propertyService) ListMyProperties(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.Property, int32, error) {
	return s.properties.ListByOwner(ctx, actor.ID, page, pageSize)
}

func (s *propertyService) SearchProperties(ctx context.Context, city, query string, page, pageSize int32) ([]domain.Property, int32, error) {
	return s.properties.Search(ctx, city, query, page, pageSize)
}

func (s *propertyService) AddRoomType(ctx context.Context, actor domain.Actor, rt *domain.RoomType) error {
	if err := s.authorizeOwner(ctx, actor, rt.PropertyID); err != nil {
		return err
	}
	if rt.TotalRooms < 0 {
		return fmt.Errorf("total rooms must not be negative")
	}
	if rt.PricePerBedCents <= 0 {
		return fmt.Errorf("price per bed must be positive")
	}
	// A new room type starts with every room free.
	rt.AvailableRooms = rt.TotalRooms

	if err := s.roomTypes.Create(ctx, rt); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Room type added",
		"room_type_id", rt.ID, "property_id", rt.PropertyID, "total_rooms", rt.TotalRooms)
	return nil
}

func (s *propertyService) UpdateRoomType(ctx context.Context, actor domain.Actor, rt *domain.RoomType) error {
	current, err := s.roomTypes.GetByID(ctx, rt.ID)
	if err != nil {
		return err
	}
	if err := s.authorizeOwner(ctx, actor, current.PropertyID); err != nil {
		return err
	}

	held := current.TotalRooms - current.AvailableRooms
	if rt.TotalRooms < held {
		return fmt.Errorf("cannot shrink below %d held rooms: %w", held, domain.ErrConflict)
	}

	rt.PropertyID = current.PropertyID
	return s.roomTypes.Update(ctx, rt)
}

func (s *propertyService) RemoveRoomType(ctx context.Context, actor domain.Actor, roomTypeID int32) error {
	rt, err := s.roomTypes.GetByID(ctx, roomTypeID)
	if err != nil {
		return err
	}
	if err := s.authorizeOwner(ctx, actor, rt.PropertyID); err != nil {
		return err
	}

	open, err := s.bookings.CountNonTerminalByRoomType(ctx, roomTypeID)
	if err != nil {
		return err
	}
	if open > 0 {
		return fmt.Errorf("room type has %d open bookings: %w", open, domain.ErrConflict)
	}

	if err := s.roomTypes.Delete(ctx, roomTypeID); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Room type removed", "room_type_id", roomTypeID, "property_id", rt.PropertyID)
	return nil
}

func (s *propertyService) GetAvailability(ctx context.Context, roomTypeID int32) (ledger.Availability, error) {
	return s.rooms.Availability(ctx, roomTypeID)
}

func (s *propertyService) authorizeOwner(ctx context.Context, actor domain.Actor, propertyID int32) error {
	prop, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && actor.ID != prop.OwnerID {
		return fmt.Errorf("property %d belongs to another owner: %w", propertyID, domain.ErrWrongParty)
	}
	return nil
}
