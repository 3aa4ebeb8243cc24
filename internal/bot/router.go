package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
	bookingsModels "github.com/Groisin18/Excursions-bot-sub000/internal/service/bookings/models"
	"github.com/Groisin18/Excursions-bot-sub000/internal/service/users"
	usersModels "github.com/Groisin18/Excursions-bot-sub000/internal/service/users/models"
	createBooking "github.com/Groisin18/Excursions-bot-sub000/internal/usecase/create_booking"
	getAvailableSlots "github.com/Groisin18/Excursions-bot-sub000/internal/usecase/get_available_slots"
)

// errUsage неверный формат аргументов команды; текст ошибки отправляется пользователю
type errUsage string

func (e errUsage) Error() string { return string(e) }

// Deps зависимости роутера команд
type Deps struct {
	Users          UserService
	Bookings       BookingService
	Reports        ReportService
	CreateBooking  CreateBookingUseCase
	AvailableSlots AvailableSlotsUseCase
	Metrics        Metrics
	Location       *time.Location
	Logger         Logger
}

type command struct {
	// needsUser команде нужен зарегистрированный пользователь
	needsUser bool
	adminOnly bool
	run       func(ctx context.Context, c *call) (string, error)
}

// call один вызов команды
type call struct {
	chatID string
	args   string
	user   *usersModels.UserResponse
}

// Router разбирает текст сообщения и выполняет команду
type Router struct {
	deps     Deps
	commands map[string]command
}

func NewRouter(deps Deps) *Router {
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	r := &Router{deps: deps}
	r.commands = map[string]command{
		"start":        {run: r.start},
		"help":         {run: r.start},
		"register":     {run: r.register},
		"link":         {run: r.link},
		"child":        {needsUser: true, run: r.child},
		"children":     {needsUser: true, run: r.children},
		"slots":        {needsUser: true, run: r.slots},
		"price":        {needsUser: true, run: r.price},
		"book":         {needsUser: true, run: r.book},
		"mybookings":   {needsUser: true, run: r.myBookings},
		"cancel":       {needsUser: true, run: r.cancel},
		"slotbookings": {needsUser: true, run: r.slotBookings},
		"report":       {needsUser: true, adminOnly: true, run: r.report},
		"payroll":      {needsUser: true, adminOnly: true, run: r.payroll},
	}
	return r
}

// Handle выполняет команду из текста сообщения и возвращает ответ.
// Пустой ответ означает, что сообщение не адресовано боту
func (r *Router) Handle(ctx context.Context, chatID, text string) string {
	name, args, ok := parseCommand(text)
	if !ok {
		return ""
	}

	cmd, found := r.commands[name]
	if !found {
		name = "unknown"
		cmd = command{run: r.start}
	}
	if r.deps.Metrics != nil {
		r.deps.Metrics.ObserveBotCommand(name)
	}

	c := &call{chatID: chatID, args: args}
	if cmd.needsUser {
		user, err := r.deps.Users.GetByChatID(ctx, chatID)
		if err != nil {
			return r.replyError(name, chatID, err)
		}
		if cmd.adminOnly && user.Role != string(domain.RoleAdmin) {
			return msgAdminOnly
		}
		c.user = user
	}

	reply, err := cmd.run(ctx, c)
	if err != nil {
		return r.replyError(name, chatID, err)
	}
	return reply
}

func (r *Router) replyError(name, chatID string, err error) string {
	var usage errUsage
	if errors.As(err, &usage) {
		return string(usage)
	}
	if reply, ok := errorReply(err); ok {
		r.deps.Logger.Info("bot /%s chat=%s: %v", name, chatID, err)
		return reply
	}
	r.deps.Logger.Error("bot /%s chat=%s: %v", name, chatID, err)
	return msgInternal
}

// parseCommand "/book 12 SUMMER" -> ("book", "12 SUMMER")
// Суффикс "@имя_бота" отбрасывается
func parseCommand(text string) (string, string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}

	name, args := text[1:], ""
	if i := strings.IndexFunc(name, unicode.IsSpace); i >= 0 {
		name, args = name[:i], name[i:]
	}
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(name), strings.TrimSpace(args), name != ""
}

func (r *Router) start(_ context.Context, _ *call) (string, error) {
	return msgGreeting + "\n\n" + msgHelp + msgAdminHelp, nil
}

func (r *Router) register(ctx context.Context, c *call) (string, error) {
	fields := splitFields(c.args)
	if len(fields) < 2 {
		return "", errUsage(msgUsageRegister)
	}

	req := &usersModels.RegisterRequest{ChatID: c.chatID, FullName: fields[0], Phone: fields[1]}
	var err error
	if req.BirthDate, req.WeightKg, err = optionalProfile(fields[2:]); err != nil {
		return "", errUsage(msgUsageRegister)
	}

	user, err := r.deps.Users.Register(ctx, req)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(msgRegistered, user.FullName), nil
}

func (r *Router) link(ctx context.Context, c *call) (string, error) {
	if c.args == "" {
		return "", errUsage(msgUsageLink)
	}
	user, err := r.deps.Users.LinkByToken(ctx, c.chatID, c.args)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(msgLinked, user.FullName), nil
}

func (r *Router) child(ctx context.Context, c *call) (string, error) {
	fields := splitFields(c.args)
	if len(fields) < 1 || fields[0] == "" {
		return "", errUsage(msgUsageChild)
	}

	req := &usersModels.RegisterDependentRequest{ProxyID: c.user.ID, FullName: fields[0]}
	var err error
	if req.BirthDate, req.WeightKg, err = optionalProfile(fields[1:]); err != nil {
		return "", errUsage(msgUsageChild)
	}

	dep, err := r.deps.Users.RegisterDependent(ctx, req)
	if err != nil {
		return "", err
	}
	token := "-"
	if dep.LinkToken != nil {
		token = *dep.LinkToken
	}
	return fmt.Sprintf(msgDependentAdded, dep.User.FullName, dep.User.ID, token), nil
}

func (r *Router) children(ctx context.Context, c *call) (string, error) {
	list, err := r.deps.Users.ListDependents(ctx, c.user.ID)
	if err != nil {
		return "", err
	}
	if len(list) == 0 {
		return msgNoDependents, nil
	}
	return formatDependents(list), nil
}

func (r *Router) slots(ctx context.Context, c *call) (string, error) {
	req := &getAvailableSlots.Request{UserID: c.user.ID}
	if c.args != "" {
		from, err := time.ParseInLocation(domain.DateFormat, c.args, r.deps.Location)
		if err != nil {
			return "", errUsage(msgUsageSlots)
		}
		req.From = from
	}

	resp, err := r.deps.AvailableSlots.Execute(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Slots) == 0 {
		return msgNoSlots, nil
	}
	return formatSlots(resp.Slots, r.deps.Location), nil
}

func (r *Router) price(ctx context.Context, c *call) (string, error) {
	req, err := parseBookingArgs(c.args, c.user.ID)
	if err != nil {
		return "", errUsage(msgUsagePrice)
	}
	quote, err := r.deps.CreateBooking.Preview(ctx, req)
	if err != nil {
		return "", err
	}
	return formatQuote(quote, r.deps.Location), nil
}

func (r *Router) book(ctx context.Context, c *call) (string, error) {
	req, err := parseBookingArgs(c.args, c.user.ID)
	if err != nil {
		return "", errUsage(msgUsageBook)
	}
	resp, err := r.deps.CreateBooking.Execute(ctx, req)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(msgBookingCreated, resp.BookingID, resp.Total.StringFixed(2), resp.SeatsLeft), nil
}

func (r *Router) myBookings(ctx context.Context, c *call) (string, error) {
	list, err := r.deps.Bookings.GetUserBookings(ctx, &bookingsModels.GetUserBookingsRequest{UserID: c.user.ID})
	if err != nil {
		return "", err
	}
	if len(list.Bookings) == 0 {
		return msgNoBookings, nil
	}
	return formatBookings(list.Bookings), nil
}

func (r *Router) cancel(ctx context.Context, c *call) (string, error) {
	idRaw, reason, _ := strings.Cut(c.args, " ")
	bookingID, err := strconv.ParseInt(idRaw, 10, 64)
	if err != nil || bookingID <= 0 {
		return "", errUsage(msgUsageCancel)
	}

	resp, err := r.deps.Bookings.Cancel(ctx, bookingID, &bookingsModels.CancelBookingRequest{
		UserID:             c.user.ID,
		CancellationReason: strings.TrimSpace(reason),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(msgBookingCanceled, resp.BookingID, resp.Refunded), nil
}

// slotBookings доступна администратору и капитану выхода; права проверяет сервис
func (r *Router) slotBookings(ctx context.Context, c *call) (string, error) {
	slotID, err := strconv.ParseInt(c.args, 10, 64)
	if err != nil || slotID <= 0 {
		return "", errUsage(msgUsageSlot)
	}
	list, err := r.deps.Bookings.GetSlotBookings(ctx, slotID, c.user.ID)
	if err != nil {
		return "", err
	}
	if len(list.Bookings) == 0 {
		return msgNoBookings, nil
	}
	return formatBookings(list.Bookings), nil
}

func (r *Router) report(ctx context.Context, c *call) (string, error) {
	from, to, err := r.parsePeriod(c.args)
	if err != nil {
		return "", err
	}
	rep, err := r.deps.Reports.Revenue(ctx, from, to)
	if err != nil {
		return "", err
	}
	return formatRevenue(rep, c.args), nil
}

func (r *Router) payroll(ctx context.Context, c *call) (string, error) {
	from, to, err := r.parsePeriod(c.args)
	if err != nil {
		return "", err
	}
	rep, err := r.deps.Reports.CaptainPayroll(ctx, from, to)
	if err != nil {
		return "", err
	}
	return formatPayroll(rep, c.args), nil
}

// parsePeriod "2026-07-01 2026-07-31" -> [1 июля, 1 августа)
func (r *Router) parsePeriod(args string) (time.Time, time.Time, error) {
	parts := strings.Fields(args)
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, errUsage(msgUsagePeriod)
	}
	from, err := time.ParseInLocation(domain.DateFormat, parts[0], r.deps.Location)
	if err != nil {
		return time.Time{}, time.Time{}, errUsage(msgUsagePeriod)
	}
	to, err := time.ParseInLocation(domain.DateFormat, parts[1], r.deps.Location)
	if err != nil {
		return time.Time{}, time.Time{}, errUsage(msgUsagePeriod)
	}
	return from, to.AddDate(0, 0, 1), nil
}

// parseBookingArgs "12 SUMMER 5 6" -> слот 12, промокод SUMMER, пассажиры 5 и 6
// Промокод необязателен: первое нечисловое слово после слота
func parseBookingArgs(args string, userID int64) (*createBooking.Request, error) {
	parts := strings.Fields(args)
	if len(parts) == 0 {
		return nil, errors.New("slot is required")
	}
	slotID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil, err
	}

	req := &createBooking.Request{SlotID: slotID, HolderID: userID, BookedByID: userID}
	for i, p := range parts[1:] {
		id, err := strconv.ParseInt(p, 10, 64)
		if err == nil {
			req.PassengerIDs = append(req.PassengerIDs, id)
			continue
		}
		if i != 0 {
			return nil, fmt.Errorf("unexpected %q", p)
		}
		code := p
		req.PromoCode = &code
	}
	return req, nil
}

// splitFields делит аргументы по ";"
func splitFields(args string) []string {
	if strings.TrimSpace(args) == "" {
		return nil
	}
	parts := strings.Split(args, ";")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// optionalProfile [дата рождения]; [вес]
func optionalProfile(fields []string) (*string, *int, error) {
	var (
		birth  *string
		weight *int
	)
	if len(fields) > 0 && fields[0] != "" {
		if _, err := time.Parse(domain.DateFormat, fields[0]); err != nil {
			return nil, nil, err
		}
		b := fields[0]
		birth = &b
	}
	if len(fields) > 1 && fields[1] != "" {
		w, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, nil, err
		}
		weight = &w
	}
	if len(fields) > 2 {
		return nil, nil, fmt.Errorf("%w: too many fields", users.ErrInvalidInput)
	}
	return birth, weight, nil
}
