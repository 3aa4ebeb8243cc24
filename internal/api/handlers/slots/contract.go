package slots

import (
	"context"
	"time"

	"github.com/Groisin18/Excursions-bot-sub000/internal/service/slots/models"
	createSlot "github.com/Groisin18/Excursions-bot-sub000/internal/usecase/create_slot"
)

type CreateSlotUseCase interface {
	Execute(ctx context.Context, req *createSlot.Request) (*createSlot.Response, error)
}

type SlotService interface {
	GetByID(ctx context.Context, id int64) (*models.SlotResponse, error)
	ListUpcoming(ctx context.Context, req *models.ListSlotsRequest) ([]*models.SlotResponse, error)
	ListByCaptain(ctx context.Context, captainID int64, from time.Time) ([]*models.SlotResponse, error)
	AssignCaptain(ctx context.Context, slotID int64, captainID *int64) (*models.SlotResponse, error)
	ChangeStatus(ctx context.Context, slotID int64, status string) (*models.ChangeStatusResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
