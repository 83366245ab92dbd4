package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/SharathChampzz/Community-Streak/internal/clock"
	"github.com/SharathChampzz/Community-Streak/internal/store"
	"github.com/SharathChampzz/Community-Streak/internal/types/event"
)

type EventService struct {
	events store.EventStore
	clock  clock.Clock
}

func NewEventService(events store.EventStore, clk clock.Clock) *EventService {
	return &EventService{events: events, clock: clk}
}

func (s *EventService) CreateEvent(ctx context.Context, createdBy uuid.UUID, req *event.CreateEventRequest) (*event.EventWithProps, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("event name is required")
	}

	flags := req.Flags
	if flags == "" {
		flags = "user_created"
	}

	e := &event.Event{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   createdBy,
		IsPrivate:   req.IsPrivate,
		Flags:       flags,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.events.Create(ctx, e, req.Props); err != nil {
		return nil, err
	}

	return &event.EventWithProps{Event: *e, Props: req.Props}, nil
}

// ListEvents returns all events, optionally filtered by flags, each with its
// props attached.
func (s *EventService) ListEvents(ctx context.Context, flags string) ([]event.EventWithProps, error) {
	events, err := s.events.List(ctx, flags)
	if err != nil {
		return nil, err
	}

	result := []event.EventWithProps{}
	for _, e := range events {
		props, err := s.events.PropsFor(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, event.EventWithProps{Event: e, Props: props})
	}

	return result, nil
}
