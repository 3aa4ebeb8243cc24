package create_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Groisin18/Excursions-bot-sub000/internal/api/handlers"
	"github.com/Groisin18/Excursions-bot-sub000/internal/api/middleware"
	createBooking "github.com/Groisin18/Excursions-bot-sub000/internal/usecase/create_booking"
	"github.com/Groisin18/Excursions-bot-sub000/pkg/logger"
)

type useCaseMock struct{ mock.Mock }

func (m *useCaseMock) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*createBooking.Response)
	return r, args.Error(1)
}

func (m *useCaseMock) Preview(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*createBooking.Response)
	return r, args.Error(1)
}

func newRequest(t *testing.T, path, body string, userID int64) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if userID > 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	return req
}

func TestHandle_Created(t *testing.T) {
	uc := new(useCaseMock)
	uc.On("Execute", mock.Anything, &createBooking.Request{
		SlotID:       11,
		HolderID:     5,
		BookedByID:   5,
		PassengerIDs: []int64{5, 6},
	}).Return(&createBooking.Response{
		BookingID:     100,
		SlotID:        11,
		ExcursionName: "Закат",
		StartAt:       time.Date(2026, 7, 2, 18, 0, 0, 0, time.UTC),
		PeopleCount:   2,
		Passengers: []createBooking.PassengerLine{
			{UserID: 5, FullName: "Анна", WeightKg: 60, Price: decimal.NewFromInt(1500)},
			{UserID: 6, FullName: "Миша", WeightKg: 30, DiscountPercent: 50, Price: decimal.NewFromInt(750)},
		},
		BaseAmount:        decimal.NewFromInt(3000),
		AgeDiscountAmount: decimal.NewFromInt(750),
		Total:             decimal.NewFromInt(2250),
		SeatsLeft:         3,
		Status:            "active",
		PaymentStatus:     "not_paid",
	}, nil)

	rec := httptest.NewRecorder()
	NewHandler(uc, logger.Nop{}).Handle(rec, newRequest(t, "/api/v1/bookings", `{"slotId":11,"passengerIds":[5,6]}`, 5))

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp BookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(100), resp.ID)
	assert.Equal(t, "2250.00", resp.Total)
	assert.Equal(t, "750.00", resp.Passengers[1].Price)
	assert.Equal(t, "2026-07-02T18:00:00Z", resp.StartAt)
	uc.AssertExpectations(t)
}

func TestHandle_MissingUser(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(new(useCaseMock), logger.Nop{}).Handle(rec, newRequest(t, "/api/v1/bookings", `{"slotId":11}`, 0))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandle_BadBody(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(new(useCaseMock), logger.Nop{}).Handle(rec, newRequest(t, "/api/v1/bookings", `{"slot":`, 5))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		msg    string
	}{
		{createBooking.ErrInvalidInput, http.StatusBadRequest, msgInvalidInput},
		{createBooking.ErrSlotNotFound, http.StatusNotFound, msgSlotNotFound},
		{createBooking.ErrTooLateToBook, http.StatusBadRequest, msgTooLateToBook},
		{createBooking.ErrPassengerNotAllowed, http.StatusForbidden, msgPassengerNotAllowed},
		{createBooking.ErrAlreadyBooked, http.StatusConflict, msgAlreadyBooked},
		{createBooking.ErrNotEnoughSeats, http.StatusConflict, msgNotEnoughSeats},
		{createBooking.ErrWeightExceeded, http.StatusConflict, msgWeightExceeded},
		{createBooking.ErrPromoExpired, http.StatusBadRequest, msgPromoExpired},
		{createBooking.ErrPromoExhausted, http.StatusConflict, msgPromoExhausted},
		{fmt.Errorf("%w: boom", createBooking.ErrInternal), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			uc := new(useCaseMock)
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := httptest.NewRecorder()
			NewHandler(uc, logger.Nop{}).Handle(rec, newRequest(t, "/api/v1/bookings", `{"slotId":11}`, 5))

			assert.Equal(t, tt.status, rec.Code)
			if tt.msg != "" {
				var body handlers.ErrorResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, tt.msg, body.Error)
			}
		})
	}
}

func TestHandlePreview(t *testing.T) {
	uc := new(useCaseMock)
	uc.On("Preview", mock.Anything, mock.MatchedBy(func(r *createBooking.Request) bool {
		return r.HolderID == 9 && r.BookedByID == 1 && *r.PromoCode == "SUMMER"
	})).Return(&createBooking.Response{SlotID: 11, Total: decimal.NewFromInt(900), SeatsLeft: 4}, nil)

	rec := httptest.NewRecorder()
	NewHandler(uc, logger.Nop{}).HandlePreview(rec,
		newRequest(t, "/api/v1/bookings/preview", `{"slotId":11,"holderId":9,"promoCode":"SUMMER"}`, 1))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp BookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Zero(t, resp.ID)
	assert.Equal(t, "900.00", resp.Total)
	assert.Empty(t, resp.CreatedAt)
}
