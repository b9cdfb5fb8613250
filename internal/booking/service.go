package booking

import (
	"errors"
	"fmt"
	"time"

	"ndelight-api/internal/apperr"
	"ndelight-api/internal/booking/db"
	"ndelight-api/internal/logger"
	"ndelight-api/internal/models"
	"ndelight-api/internal/payment"

	"github.com/google/uuid"
)

type Store interface {
	GetEventByID(id string) (*models.Event, error)
	GetInfluencerByCode(code string) (*models.Influencer, error)
	CreateBooking(booking models.Booking) error
	GetBookingByID(id string) (*models.Booking, error)
	GetBookingByOrderID(orderID string) (*models.Booking, error)
	MarkPaidByOrderID(orderID string) (bool, error)
	MarkEmailSent(bookingID string, at time.Time) (bool, error)
}

type Publisher interface {
	BookingCreated(booking models.Booking) error
	BookingPaid(booking models.Booking) error
}

type Mailer interface {
	SendTicket(booking models.Booking, event models.Event) error
}

type Service struct {
	Store     Store
	Gateway   payment.Gateway
	Mailer    Mailer
	Publisher Publisher

	KeyID    string
	Currency string

	logger *logger.Logger
	now    func() time.Time
}

func NewService(store Store, gateway payment.Gateway, m Mailer, pub Publisher, keyID, currency string, log *logger.Logger) *Service {
	return &Service{
		Store:     store,
		Gateway:   gateway,
		Mailer:    m,
		Publisher: pub,
		KeyID:     keyID,
		Currency:  currency,
		logger:    log,
		now:       time.Now,
	}
}

// CreateOrder computes the final price, creates a gateway order and reserves
// a pending booking tied to it. When the final price is zero the gateway is
// bypassed and the booking is written as paid directly.
func (s *Service) CreateOrder(req models.CreateOrderRequest) (*models.CreateOrderResponse, error) {
	event, err := s.Store.GetEventByID(req.EventID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, apperr.New(apperr.Validation, "Invalid Event")
		}
		return nil, apperr.Wrap(apperr.Internal, "Failed to load event", err)
	}

	// An unknown or inactive code is silently treated as no discount so the
	// endpoint cannot be used to enumerate valid codes.
	discountPercent := 0.0
	if req.InfluencerCode != "" {
		inf, err := s.Store.GetInfluencerByCode(req.InfluencerCode)
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			return nil, apperr.Wrap(apperr.Internal, "Failed to look up code", err)
		}
		if inf != nil && inf.Active {
			discountPercent = inf.DiscountPercent
		}
	}

	finalPrice := FinalPrice(event.Price, discountPercent)

	if finalPrice <= 0 {
		return s.createFreeBooking(req, event)
	}

	amount := AmountInPaise(finalPrice)
	receipt := fmt.Sprintf("rcpt_%s", receiptSuffix(s.now()))
	notes := map[string]interface{}{
		"event_id":         req.EventID,
		"influencer_code":  orDefault(req.InfluencerCode, "organic"),
		"discount_applied": fmt.Sprintf("%g%%", discountPercent),
	}

	order, err := s.Gateway.CreateOrder(amount, s.Currency, receipt, notes)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "Payment gateway error", err)
	}

	bk := models.Booking{
		ID:              uuid.NewString(),
		EventID:         req.EventID,
		CustomerName:    req.CustomerInfo.Name,
		CustomerEmail:   req.CustomerInfo.Email,
		CustomerPhone:   req.CustomerInfo.Phone,
		Amount:          finalPrice,
		Status:          models.BookingPending,
		RazorpayOrderID: order.ID,
		InfluencerCode:  req.InfluencerCode,
		CreatedAt:       s.now(),
	}
	if err := s.Store.CreateBooking(bk); err != nil {
		// The gateway order exists but no booking references it. Surface a
		// distinguishable error so ops can reconcile the orphaned order;
		// there is no rollback primitive to undo it automatically.
		s.logger.Error("BOOKING", fmt.Sprintf("Reservation failed after order %s was created: %v", order.ID, err))
		return nil, apperr.Wrap(apperr.Internal, "Failed to reserve booking", err)
	}
	s.logger.LogBooking("CREATE", bk.ID, fmt.Sprintf("pending booking for order %s, amount %.2f", order.ID, finalPrice))

	if err := s.Publisher.BookingCreated(bk); err != nil {
		s.logger.Warn("KAFKA", fmt.Sprintf("Failed to publish booking.created for %s: %v", bk.ID, err))
	}

	return &models.CreateOrderResponse{
		OrderID:   order.ID,
		Amount:    order.Amount,
		Currency:  order.Currency,
		KeyID:     s.KeyID,
		BookingID: bk.ID,
		Prefill: models.Prefill{
			Name:    req.CustomerInfo.Name,
			Email:   req.CustomerInfo.Email,
			Contact: req.CustomerInfo.Phone,
		},
	}, nil
}

// createFreeBooking handles the zero-price path: no gateway order, the
// booking is paid immediately with amount 0.
func (s *Service) createFreeBooking(req models.CreateOrderRequest, event *models.Event) (*models.CreateOrderResponse, error) {
	bk := models.Booking{
		ID:             uuid.NewString(),
		EventID:        req.EventID,
		CustomerName:   req.CustomerInfo.Name,
		CustomerEmail:  req.CustomerInfo.Email,
		CustomerPhone:  req.CustomerInfo.Phone,
		Amount:         0,
		Status:         models.BookingPaid,
		InfluencerCode: req.InfluencerCode,
		CreatedAt:      s.now(),
	}
	if err := s.Store.CreateBooking(bk); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to reserve booking", err)
	}
	s.logger.LogBooking("FREE", bk.ID, "zero-price booking recorded as paid")

	if err := s.Publisher.BookingPaid(bk); err != nil {
		s.logger.Warn("KAFKA", fmt.Sprintf("Failed to publish booking.paid for %s: %v", bk.ID, err))
	}

	if s.Mailer != nil {
		if err := s.Mailer.SendTicket(bk, *event); err != nil {
			s.logger.Error("EMAIL", fmt.Sprintf("Ticket email for free booking %s failed: %v", bk.ID, err))
		} else if _, err := s.Store.MarkEmailSent(bk.ID, s.now()); err != nil {
			s.logger.Error("BOOKING", fmt.Sprintf("Failed to stamp email_sent_at for %s: %v", bk.ID, err))
		}
	}

	return &models.CreateOrderResponse{
		Amount:    0,
		Currency:  s.Currency,
		BookingID: bk.ID,
		Free:      true,
		Prefill: models.Prefill{
			Name:    req.CustomerInfo.Name,
			Email:   req.CustomerInfo.Email,
			Contact: req.CustomerInfo.Phone,
		},
	}, nil
}

// ConfirmPaid processes a verified order.paid notification. The transition
// and the email decision are both conditioned on stored state read at write
// time, so duplicate or concurrent deliveries settle on exactly one paid
// transition and at most one confirmation email.
func (s *Service) ConfirmPaid(orderID string) error {
	booking, err := s.Store.GetBookingByOrderID(orderID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			// Not an error to the gateway; it cannot retry usefully.
			s.logger.Warn("WEBHOOK", fmt.Sprintf("order.paid for unknown order %s", orderID))
			return nil
		}
		return apperr.Wrap(apperr.Internal, "Database lookup failed", err)
	}

	changed, err := s.Store.MarkPaidByOrderID(orderID)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Database update failed", err)
	}
	if !changed {
		s.logger.LogWebhook(payment.EventOrderPaid, orderID, "replay, booking already paid")
		return nil
	}
	s.logger.LogWebhook(payment.EventOrderPaid, orderID, fmt.Sprintf("booking %s marked paid", booking.ID))

	booking.Status = models.BookingPaid
	if err := s.Publisher.BookingPaid(*booking); err != nil {
		s.logger.Warn("KAFKA", fmt.Sprintf("Failed to publish booking.paid for %s: %v", booking.ID, err))
	}

	if booking.EmailSentAt == nil && booking.CustomerEmail != "" && booking.Event != nil {
		if err := s.Mailer.SendTicket(*booking, *booking.Event); err != nil {
			// The webhook response must not fail on email problems; the
			// dedicated resend endpoint covers this booking later.
			s.logger.Error("EMAIL", fmt.Sprintf("Confirmation email for booking %s failed: %v", booking.ID, err))
			return nil
		}
		if _, err := s.Store.MarkEmailSent(booking.ID, s.now()); err != nil {
			s.logger.Error("BOOKING", fmt.Sprintf("Failed to stamp email_sent_at for %s: %v", booking.ID, err))
		}
		s.logger.LogEmail("TICKET", booking.CustomerEmail, fmt.Sprintf("confirmation sent for booking %s", booking.ID))
	}

	return nil
}

// SendBookingEmail is the manual, idempotent resend path for paid bookings.
func (s *Service) SendBookingEmail(bookingID string) error {
	booking, err := s.Store.GetBookingByID(bookingID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return apperr.New(apperr.NotFound, "Booking not found")
		}
		return apperr.Wrap(apperr.Internal, "Database lookup failed", err)
	}

	if booking.EmailSentAt != nil {
		// Already covered; report success without sending again.
		return nil
	}
	if booking.Status != models.BookingPaid {
		return apperr.New(apperr.Validation, "Booking not paid yet")
	}
	if booking.Event == nil {
		return apperr.New(apperr.Internal, "Booking has no event")
	}

	if err := s.Mailer.SendTicket(*booking, *booking.Event); err != nil {
		return apperr.Wrap(apperr.Upstream, "Failed to send email", err)
	}
	if _, err := s.Store.MarkEmailSent(booking.ID, s.now()); err != nil {
		s.logger.Error("BOOKING", fmt.Sprintf("Failed to stamp email_sent_at for %s: %v", booking.ID, err))
	}
	s.logger.LogEmail("TICKET", booking.CustomerEmail, fmt.Sprintf("manual resend for booking %s", booking.ID))
	return nil
}

// receiptSuffix derives a receipt id from the current time; the last ten
// digits of unix millis are unique enough to avoid gateway collisions.
func receiptSuffix(t time.Time) string {
	millis := fmt.Sprintf("%d", t.UnixMilli())
	if len(millis) > 10 {
		millis = millis[len(millis)-10:]
	}
	return millis
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
