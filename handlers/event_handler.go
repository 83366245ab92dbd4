package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/SharathChampzz/Community-Streak/internal/types/event"
	"github.com/SharathChampzz/Community-Streak/middleware"
	"github.com/SharathChampzz/Community-Streak/services"
)

type EventHandler struct {
	eventService  *services.EventService
	streakService *services.StreakService
}

func NewEventHandler(eventService *services.EventService, streakService *services.StreakService) *EventHandler {
	return &EventHandler{
		eventService:  eventService,
		streakService: streakService,
	}
}

func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req event.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.eventService.CreateEvent(ctx, userID, &req)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Event created successfully",
		"event":   created,
	})
}

func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	events, err := h.eventService.ListEvents(ctx, r.URL.Query().Get("flags"))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	respondWithJSON(w, http.StatusOK, events)
}

func (h *EventHandler) GetMyEvents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	events, err := h.streakService.GetCreatedEvents(ctx, userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get created events")
		return
	}

	respondWithJSON(w, http.StatusOK, events)
}

func (h *EventHandler) GetJoinedEvents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	events, err := h.streakService.GetJoinedEvents(ctx, userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get joined events")
		return
	}

	respondWithJSON(w, http.StatusOK, events)
}

func (h *EventHandler) GetEventDetails(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	eventID, err := uuid.Parse(mux.Vars(r)["event_id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid event id")
		return
	}

	topX := services.DefaultTopX
	if raw := r.URL.Query().Get("top_x"); raw != "" {
		topX, err = strconv.Atoi(raw)
		if err != nil || topX <= 0 {
			respondWithError(w, http.StatusBadRequest, "top_x must be a positive integer")
			return
		}
	}

	details, err := h.streakService.GetEventDetails(ctx, eventID, topX, userID)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			respondWithError(w, http.StatusNotFound, "Event not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to get event details")
		return
	}

	respondWithJSON(w, http.StatusOK, details)
}

func (h *EventHandler) JoinEvent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	eventID, err := uuid.Parse(mux.Vars(r)["event_id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid event id")
		return
	}

	_, alreadyJoined, err := h.streakService.Join(ctx, userID, eventID)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			respondWithError(w, http.StatusNotFound, "Event not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to join event")
		return
	}

	message := "User successfully joined the event"
	if alreadyJoined {
		message = "User already joined the event"
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": message})
}

func (h *EventHandler) ExitEvent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	eventID, err := uuid.Parse(mux.Vars(r)["event_id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid event id")
		return
	}

	wasMember, err := h.streakService.Exit(ctx, userID, eventID)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			respondWithError(w, http.StatusNotFound, "Event not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to exit event")
		return
	}

	message := "User successfully exited the event"
	if !wasMember {
		message = "User is not part of the event"
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": message})
}

func (h *EventHandler) MarkCompleted(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	eventID, err := uuid.Parse(mux.Vars(r)["event_id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid event id")
		return
	}

	streak, err := h.streakService.MarkCompleted(ctx, userID, eventID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMembershipNotFound):
			respondWithError(w, http.StatusNotFound, "Event not found for the user")
		case errors.Is(err, services.ErrAlreadyCompletedToday):
			respondWithError(w, http.StatusBadRequest, "Streak already updated for today")
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to update streak")
		}
		return
	}

	middleware.RecordCompletion()
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "Streak updated successfully",
		"streak_count": streak,
	})
}
