package mark_no_show

import "context"

type BookingService interface {
	MarkNoShow(ctx context.Context, bookingID int64, adminID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
