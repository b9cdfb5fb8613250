package api_test

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ndelight-api/internal/booking"
	"ndelight-api/internal/booking/api"
	"ndelight-api/internal/booking/db"
	"ndelight-api/internal/logger"
	"ndelight-api/internal/models"
	"ndelight-api/internal/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const testWebhookSecret = "whsec_test"

type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetEventByID(id string) (*models.Event, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockStore) GetInfluencerByCode(code string) (*models.Influencer, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Influencer), args.Error(1)
}

func (m *MockStore) CreateBooking(b models.Booking) error {
	args := m.Called(b)
	return args.Error(0)
}

func (m *MockStore) GetBookingByID(id string) (*models.Booking, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockStore) GetBookingByOrderID(orderID string) (*models.Booking, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockStore) MarkPaidByOrderID(orderID string) (bool, error) {
	args := m.Called(orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) MarkEmailSent(bookingID string, at time.Time) (bool, error) {
	args := m.Called(bookingID, at)
	return args.Bool(0), args.Error(1)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateOrder(amount int64, currency, receipt string, notes map[string]interface{}) (*payment.Order, error) {
	args := m.Called(amount, currency, receipt, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Order), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendTicket(b models.Booking, e models.Event) error {
	args := m.Called(b, e)
	return args.Error(0)
}

type noopPublisher struct{}

func (noopPublisher) BookingCreated(models.Booking) error { return nil }
func (noopPublisher) BookingPaid(models.Booking) error    { return nil }

func newHandler(store *MockStore, mailer *MockMailer) *api.Handler {
	log := logger.NewLogger()
	svc := booking.NewService(store, new(MockGateway), mailer, noopPublisher{}, "rzp_test_key", "INR", log)
	return api.NewHandler(svc, testWebhookSecret, log)
}

func signBody(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func webhookBody(orderID string) []byte {
	return []byte(`{"event":"order.paid","payload":{"order":{"entity":{"id":"` + orderID + `","amount":40000,"currency":"INR","status":"paid"}}}}`)
}

func postWebhook(h *api.Handler, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/razorpay-webhook", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set(payment.SignatureHeader, signature)
	}
	rec := httptest.NewRecorder()
	h.Webhook(rec, req)
	return rec
}

func TestWebhookConfirmsPaymentAndSendsEmail(t *testing.T) {
	store := new(MockStore)
	mailer := new(MockMailer)
	h := newHandler(store, mailer)

	bk := &models.Booking{
		ID:              "bk1",
		CustomerEmail:   "asha@example.com",
		Status:          models.BookingPending,
		RazorpayOrderID: "order_abc",
		Event:           &models.Event{ID: "evt1", Title: "Rooftop Social"},
	}
	store.On("GetBookingByOrderID", "order_abc").Return(bk, nil)
	store.On("MarkPaidByOrderID", "order_abc").Return(true, nil)
	store.On("MarkEmailSent", "bk1", mock.Anything).Return(true, nil)
	mailer.On("SendTicket", mock.Anything, mock.Anything).Return(nil)

	body := webhookBody("order_abc")
	rec := postWebhook(h, body, signBody(body, testWebhookSecret))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	mailer.AssertNumberOfCalls(t, "SendTicket", 1)
}

func TestWebhookReplaySendsNoSecondEmail(t *testing.T) {
	store := new(MockStore)
	mailer := new(MockMailer)
	h := newHandler(store, mailer)

	sent := time.Now()
	bk := &models.Booking{
		ID:              "bk1",
		Status:          models.BookingPaid,
		RazorpayOrderID: "order_abc",
		EmailSentAt:     &sent,
		Event:           &models.Event{ID: "evt1"},
	}
	store.On("GetBookingByOrderID", "order_abc").Return(bk, nil)
	store.On("MarkPaidByOrderID", "order_abc").Return(false, nil)

	body := webhookBody("order_abc")
	rec := postWebhook(h, body, signBody(body, testWebhookSecret))

	assert.Equal(t, http.StatusOK, rec.Code)
	mailer.AssertNotCalled(t, "SendTicket", mock.Anything, mock.Anything)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	store := new(MockStore)
	h := newHandler(store, new(MockMailer))

	body := webhookBody("order_abc")
	rec := postWebhook(h, body, signBody(body, "wrong_secret"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	store.AssertNotCalled(t, "GetBookingByOrderID", mock.Anything)
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	h := newHandler(new(MockStore), new(MockMailer))

	rec := postWebhook(h, webhookBody("order_abc"), "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	store := new(MockStore)
	h := newHandler(store, new(MockMailer))

	body := []byte(`{"event":"payment.failed","payload":{"order":{"entity":{"id":"order_abc"}}}}`)
	rec := postWebhook(h, body, signBody(body, testWebhookSecret))

	assert.Equal(t, http.StatusOK, rec.Code)
	store.AssertNotCalled(t, "MarkPaidByOrderID", mock.Anything)
}

func TestWebhookUnknownOrderStillAcknowledged(t *testing.T) {
	store := new(MockStore)
	h := newHandler(store, new(MockMailer))

	store.On("GetBookingByOrderID", "order_ghost").Return(nil, db.ErrNotFound)

	body := webhookBody("order_ghost")
	rec := postWebhook(h, body, signBody(body, testWebhookSecret))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateOrderRejectsMissingFields(t *testing.T) {
	h := newHandler(new(MockStore), new(MockMailer))

	body := []byte(`{"event_id":"evt1","customer_info":{"name":"Asha"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/create-order", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreateOrder(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendBookingEmailRequiresBookingID(t *testing.T) {
	h := newHandler(new(MockStore), new(MockMailer))

	req := httptest.NewRequest(http.MethodPost, "/api/send-booking-email", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	h.SendBookingEmail(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
