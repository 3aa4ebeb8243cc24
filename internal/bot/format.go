package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
	bookingsModels "github.com/Groisin18/Excursions-bot-sub000/internal/service/bookings/models"
	reportsModels "github.com/Groisin18/Excursions-bot-sub000/internal/service/reports/models"
	usersModels "github.com/Groisin18/Excursions-bot-sub000/internal/service/users/models"
	createBooking "github.com/Groisin18/Excursions-bot-sub000/internal/usecase/create_booking"
	getAvailableSlots "github.com/Groisin18/Excursions-bot-sub000/internal/usecase/get_available_slots"
)

const timeLayout = "02.01 15:04"

var bookingStatuses = map[string]string{
	string(domain.BookingActive):    "активна",
	string(domain.BookingCancelled): "отменена",
	string(domain.BookingCompleted): "состоялась",
	string(domain.BookingNoShow):    "неявка",
}

var paymentStatuses = map[string]string{
	string(domain.PaymentNotPaid):  "не оплачена",
	string(domain.PaymentPaid):     "оплачена",
	string(domain.PaymentRefunded): "возврат",
}

func formatSlots(slots []getAvailableSlots.Slot, loc *time.Location) string {
	var b strings.Builder
	b.WriteString("Свободные выходы:\n")
	for _, s := range slots {
		fmt.Fprintf(&b, "№%d %s, %s-%s, %s руб.",
			s.SlotID, s.ExcursionName,
			s.StartAt.In(loc).Format(timeLayout), s.EndAt.In(loc).Format("15:04"),
			s.Price.StringFixed(2))
		switch {
		case s.IsFull:
			b.WriteString(" мест нет")
		case s.WeightLimited:
			fmt.Fprintf(&b, " мест: %d, вес: до %d кг", s.SeatsLeft, s.WeightLeftKg)
		default:
			fmt.Fprintf(&b, " мест: %d", s.SeatsLeft)
		}
		b.WriteString("\n")
	}
	b.WriteString("Забронировать: /book номер")
	return b.String()
}

func formatQuote(q *createBooking.Response, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s, %s\n", q.ExcursionName, q.StartAt.In(loc).Format(timeLayout))
	for _, p := range q.Passengers {
		fmt.Fprintf(&b, "- %s: %s руб.", p.FullName, p.Price.StringFixed(2))
		if p.DiscountPercent > 0 {
			fmt.Fprintf(&b, " (скидка %d%%)", p.DiscountPercent)
		}
		b.WriteString("\n")
	}
	if q.PromoCode != nil {
		fmt.Fprintf(&b, "Промокод %s: -%s руб.\n", *q.PromoCode, q.PromoDiscountAmount.StringFixed(2))
	}
	fmt.Fprintf(&b, "Итого: %s руб. Свободно мест: %d", q.Total.StringFixed(2), q.SeatsLeft)
	return b.String()
}

func formatBookings(list []bookingsModels.BookingResponse) string {
	var b strings.Builder
	for i, bk := range list {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Бронь №%d, выход №%d, человек: %d, %s руб., %s, %s",
			bk.ID, bk.SlotID, bk.PeopleCount, bk.TotalPrice,
			label(bookingStatuses, bk.Status), label(paymentStatuses, bk.PaymentStatus))
	}
	return b.String()
}

func formatDependents(list []*usersModels.DependentResponse) string {
	var b strings.Builder
	b.WriteString("Ваши спутники:")
	for _, d := range list {
		fmt.Fprintf(&b, "\nID %d: %s", d.User.ID, d.User.FullName)
		if d.User.BirthDate != nil {
			fmt.Fprintf(&b, ", %s", *d.User.BirthDate)
		}
		if d.LinkToken != nil {
			fmt.Fprintf(&b, ", токен %s", *d.LinkToken)
		}
	}
	return b.String()
}

func formatRevenue(r *reportsModels.RevenueReport, period string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Выручка за %s\n", period)
	for _, e := range r.Excursions {
		fmt.Fprintf(&b, "%s: броней %d, человек %d, чистыми %s\n", e.ExcursionName, e.Bookings, e.People, e.Net)
	}
	fmt.Fprintf(&b, "Всего: поступило %s, возвраты %s, чистыми %s\n", r.Totals.Gross, r.Totals.Refunds, r.Totals.Net)
	fmt.Fprintf(&b, "Расходы %s, зарплаты %s, прибыль %s", r.Expenses, r.Salaries, r.Profit)
	return b.String()
}

func formatPayroll(r *reportsModels.PayrollReport, period string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Зарплаты капитанов за %s", period)
	if len(r.Captains) == 0 {
		b.WriteString("\nначислений нет")
	}
	for _, c := range r.Captains {
		fmt.Fprintf(&b, "\n%s: выходов %d, пассажиров %d, начислено %s, выплачено %s, к выплате %s",
			c.CaptainName, c.Slots, c.Passengers, c.Accrued, c.Paid, c.Outstanding)
	}
	return b.String()
}

func label(labels map[string]string, key string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	return key
}
