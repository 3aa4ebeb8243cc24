package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Groisin18/Excursions-bot-sub000/internal/capacity"
	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
	bookingRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/booking"
	excursionRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/excursion"
	slotRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/slot"
	userRepo "github.com/Groisin18/Excursions-bot-sub000/internal/infra/storage/user"
	"github.com/Groisin18/Excursions-bot-sub000/internal/pricing"
)

// Repositories зависимости use case от хранилища
type Repositories struct {
	Slots      SlotRepository
	Excursions ExcursionRepository
	Users      UserRepository
	Bookings   BookingRepository
	PromoCodes PromoCodeRepository
}

// UseCase use case для создания бронирования
type UseCase struct {
	slotRepo      SlotRepository
	excursionRepo ExcursionRepository
	userRepo      UserRepository
	bookingRepo   BookingRepository
	promoRepo     PromoCodeRepository
	calculator    *pricing.Calculator
	notifier      Notifier
	metrics       Metrics
	txManager     TransactionManager
	timeProvider  TimeProvider
	rules         Rules
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	repos Repositories,
	calculator *pricing.Calculator,
	notifier Notifier,
	metrics Metrics,
	txManager TransactionManager,
	rules Rules,
	logger Logger,
) *UseCase {
	if rules.DefaultWeightKg <= 0 {
		rules.DefaultWeightKg = domain.DefaultPassengerWeightKg
	}
	return &UseCase{
		slotRepo:      repos.Slots,
		excursionRepo: repos.Excursions,
		userRepo:      repos.Users,
		bookingRepo:   repos.Bookings,
		promoRepo:     repos.PromoCodes,
		calculator:    calculator,
		notifier:      notifier,
		metrics:       metrics,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		rules:         rules,
		logger:        logger,
	}
}

// draft проверенное, но еще не сохраненное бронирование
type draft struct {
	slot         *domain.Slot
	excursion    *domain.Excursion
	passengers   []resolvedPassenger
	availability capacity.Availability
	promo        *domain.PromoCode
	quote        pricing.Quote
	totalWeight  int
}

// Execute выполняет use case создания бронирования
// Использует сериализуемую транзакцию: проверка мест и вставка брони атомарны
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: slot=%d, holder=%d, bookedBy=%d, passengers=%v",
		req.SlotID, req.HolderID, req.BookedByID, req.PassengerIDs)

	if err := validateRequest(req, uc.rules.MaxPassengers); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	var (
		d      *draft
		result *domain.Booking
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error

		// 1-6. Проверки слота, пассажиров, мест и промокода
		d, err = uc.prepare(txCtx, req, now, true)
		if err != nil {
			return err
		}

		// 7. Сохраняем бронирование вместе с пассажирами
		bookedBy := req.BookedByID
		if bookedBy == 0 {
			bookedBy = req.HolderID
		}
		booking := &domain.Booking{
			SlotID:              d.slot.ID,
			ClientID:            req.HolderID,
			BookedByID:          bookedBy,
			PeopleCount:         len(d.passengers),
			TotalWeightKg:       d.totalWeight,
			BaseAmount:          d.quote.BaseAmount,
			AgeDiscountAmount:   d.quote.AgeDiscountAmount,
			PromoDiscountAmount: d.quote.PromoDiscountAmount,
			TotalPrice:          d.quote.Total,
			Status:              domain.BookingActive,
			PaymentStatus:       domain.PaymentNotPaid,
			Passengers:          make([]domain.BookingPassenger, len(d.passengers)),
		}
		// Бесплатная бронь сразу считается оплаченной
		if booking.TotalPrice.IsZero() {
			booking.PaymentStatus = domain.PaymentPaid
		}
		if d.promo != nil {
			booking.PromoCodeID = &d.promo.ID
		}
		for i, p := range d.passengers {
			line := d.quote.Passengers[i]
			booking.Passengers[i] = domain.BookingPassenger{
				UserID:          p.user.ID,
				AgeYears:        line.AgeYears,
				WeightKg:        p.weightKg,
				DiscountPercent: line.DiscountPercent,
				Price:           line.Price,
			}
		}

		result, err = uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrAlreadyBooked) {
				return ErrAlreadyBooked
			}
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("CreateBooking: slot=%d holder=%d: %v", req.SlotID, req.HolderID, err)
			uc.metrics.ObserveBooking("failed")
		} else {
			uc.logger.Warn("CreateBooking: slot=%d holder=%d rejected: %v", req.SlotID, req.HolderID, err)
			uc.metrics.ObserveBooking("rejected")
		}
		return nil, err
	}

	uc.metrics.ObserveBooking("created")
	uc.notifier.BookingCreated(ctx, result.ClientID, result.ID, d.excursion.Name, d.slot.StartAt, result.PeopleCount, result.TotalPrice)

	uc.logger.Info("CreateBooking: created booking id=%d, people=%d, total=%s",
		result.ID, result.PeopleCount, result.TotalPrice.StringFixed(2))

	resp := buildResponse(d)
	resp.BookingID = result.ID
	resp.SeatsLeft = d.availability.SeatsLeft - len(d.passengers)
	resp.Status = string(result.Status)
	resp.PaymentStatus = string(result.PaymentStatus)
	resp.CreatedAt = result.CreatedAt
	return resp, nil
}

// Preview считает стоимость бронирования без сохранения и без расхода промокода
// Выполняется без транзакции и блокировок: результат может устареть к моменту бронирования
func (uc *UseCase) Preview(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("PreviewBooking: slot=%d, holder=%d, passengers=%v", req.SlotID, req.HolderID, req.PassengerIDs)

	if err := validateRequest(req, uc.rules.MaxPassengers); err != nil {
		return nil, err
	}

	d, err := uc.prepare(ctx, req, uc.timeProvider.Now(), false)
	if err != nil {
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("PreviewBooking: slot=%d holder=%d: %v", req.SlotID, req.HolderID, err)
		}
		return nil, err
	}

	resp := buildResponse(d)
	resp.SeatsLeft = d.availability.SeatsLeft
	return resp, nil
}

// prepare выполняет шаги 1-6 и расчет цены. При consumePromo использование промокода засчитывается
func (uc *UseCase) prepare(ctx context.Context, req *Request, now time.Time, consumePromo bool) (*draft, error) {
	d := &draft{}

	// 1. Слот (в транзакции с блокировкой): запланирован и начинается не раньше now + notice
	slot, err := uc.slotRepo.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("%w: failed to get slot: %w", ErrInternal, err)
	}
	if slot.Status != domain.SlotScheduled {
		return nil, ErrSlotNotBookable
	}
	if !slot.IsBookable(now, uc.rules.MinBookingNotice) {
		return nil, ErrTooLateToBook
	}
	d.slot = slot

	// 2. Экскурсия должна быть в продаже
	excursion, err := uc.excursionRepo.GetByID(ctx, slot.ExcursionID)
	if err != nil {
		if errors.Is(err, excursionRepo.ErrExcursionNotFound) {
			return nil, ErrExcursionInactive
		}
		return nil, fmt.Errorf("%w: failed to get excursion: %w", ErrInternal, err)
	}
	if !excursion.IsActive {
		return nil, ErrExcursionInactive
	}
	d.excursion = excursion

	// 3. Пассажиры: держатель и его спутники
	if _, err := uc.userRepo.GetByID(ctx, req.HolderID); err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, ErrHolderNotFound
		}
		return nil, fmt.Errorf("%w: failed to get holder: %w", ErrInternal, err)
	}
	ids := passengerIDs(req)
	users, err := uc.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get passengers: %w", ErrInternal, err)
	}
	d.passengers, err = resolvePassengers(req.HolderID, ids, users, uc.rules.DefaultWeightKg)
	if err != nil {
		return nil, err
	}
	for _, p := range d.passengers {
		d.totalWeight += p.weightKg
	}

	// 4. Действующие брони слота (в транзакции с блокировкой)
	bookings, err := uc.bookingRepo.List(ctx, domain.BookingFilter{SlotID: &slot.ID, OnlyOccupying: true})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get slot bookings: %w", ErrInternal, err)
	}
	if err := checkAlreadyBooked(bookings, req.HolderID, d.passengers); err != nil {
		return nil, err
	}

	// 5. Места и вес
	d.availability = capacity.Calculate(slot, capacity.Occupy(bookings))
	if err := d.availability.CanFit(len(d.passengers), d.totalWeight); err != nil {
		return nil, mapCapacityError(err)
	}

	// 6. Промокод
	if req.PromoCode != nil && strings.TrimSpace(*req.PromoCode) != "" {
		code := domain.NormalizePromoCode(*req.PromoCode)
		promo, err := uc.promoRepo.GetByCode(ctx, code)
		if err != nil {
			return nil, mapPromoError(err)
		}
		if err := pricing.CheckPromo(promo, now); err != nil {
			return nil, mapPromoError(err)
		}
		if consumePromo {
			if err := uc.promoRepo.IncrementUsage(ctx, promo.ID); err != nil {
				return nil, mapPromoError(err)
			}
		}
		d.promo = promo
	}

	// Расчет цены: возраст на дату начала экскурсии
	passengers := make([]pricing.Passenger, len(d.passengers))
	for i, p := range d.passengers {
		passengers[i] = pricing.Passenger{UserID: p.user.ID, BirthDate: p.user.BirthDate}
	}
	d.quote = uc.calculator.Quote(excursion.BasePrice, passengers, d.promo, slot.StartAt)

	return d, nil
}

func buildResponse(d *draft) *Response {
	resp := &Response{
		SlotID:              d.slot.ID,
		ExcursionName:       d.excursion.Name,
		StartAt:             d.slot.StartAt,
		PeopleCount:         len(d.passengers),
		TotalWeightKg:       d.totalWeight,
		Passengers:          make([]PassengerLine, len(d.passengers)),
		BaseAmount:          d.quote.BaseAmount,
		AgeDiscountAmount:   d.quote.AgeDiscountAmount,
		PromoDiscountAmount: d.quote.PromoDiscountAmount,
		Total:               d.quote.Total,
	}
	if d.promo != nil {
		resp.PromoCode = &d.promo.Code
	}
	for i, p := range d.passengers {
		line := d.quote.Passengers[i]
		resp.Passengers[i] = PassengerLine{
			UserID:          p.user.ID,
			FullName:        p.user.FullName,
			AgeYears:        line.AgeYears,
			WeightKg:        p.weightKg,
			DiscountPercent: line.DiscountPercent,
			Price:           line.Price,
		}
	}
	return resp
}
