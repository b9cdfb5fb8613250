package events

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ndelight-api/internal/apperr"
	"ndelight-api/internal/events/db"
	"ndelight-api/internal/logger"
	"ndelight-api/internal/models"

	"github.com/google/uuid"
)

type Store interface {
	ListEvents() ([]models.Event, error)
	GetEventByID(id string) (*models.Event, error)
	CreateEvent(e models.Event) error
	UpdateEvent(e models.Event) error
	DeleteEvent(id string) error
}

type Service struct {
	Store  Store
	logger *logger.Logger
	now    func() time.Time
}

func NewService(store Store, log *logger.Logger) *Service {
	return &Service{Store: store, logger: log, now: time.Now}
}

func (s *Service) List() ([]models.Event, error) {
	events, err := s.Store.ListEvents()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to load events", err)
	}
	return events, nil
}

func (s *Service) Get(id string) (*models.Event, error) {
	event, err := s.Store.GetEventByID(id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "Event not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "Failed to load event", err)
	}
	return event, nil
}

func (s *Service) Create(e models.Event) (*models.Event, error) {
	if err := validate(e); err != nil {
		return nil, err
	}
	e.ID = uuid.NewString()
	e.CreatedAt = s.now()
	if err := s.Store.CreateEvent(e); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to create event", err)
	}
	s.logger.Info("EVENT", fmt.Sprintf("Created event %s (%s)", e.ID, e.Title))
	return &e, nil
}

func (s *Service) Update(e models.Event) (*models.Event, error) {
	if err := validate(e); err != nil {
		return nil, err
	}
	if err := s.Store.UpdateEvent(e); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "Event not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "Failed to update event", err)
	}
	s.logger.Info("EVENT", fmt.Sprintf("Updated event %s", e.ID))
	return &e, nil
}

func (s *Service) Delete(id string) error {
	if err := s.Store.DeleteEvent(id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return apperr.New(apperr.NotFound, "Event not found")
		}
		return apperr.Wrap(apperr.Internal, "Failed to delete event", err)
	}
	s.logger.Info("EVENT", fmt.Sprintf("Deleted event %s", id))
	return nil
}

func validate(e models.Event) error {
	if strings.TrimSpace(e.Title) == "" {
		return apperr.New(apperr.Validation, "Title is required")
	}
	if e.Date.IsZero() {
		return apperr.New(apperr.Validation, "Date is required")
	}
	if e.Price < 0 {
		return apperr.New(apperr.Validation, "Price cannot be negative")
	}
	return nil
}
