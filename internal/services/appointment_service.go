package services

import (
	"context"
	"fmt"

	"campusperks/internal/models"
	"campusperks/internal/repositories/interfaces"
	"campusperks/internal/utils"
	"campusperks/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AppointmentService manages supplier consultation slots. Booking is first
// come first served; the conditional update in the repository decides races.
type AppointmentService interface {
	CreateSlot(ctx context.Context, supplierID primitive.ObjectID, req *models.CreateSlotRequest) (*models.AppointmentSlot, error)
	ListAvailable(ctx context.Context, params *utils.PaginationParams) ([]*models.AppointmentSlot, int64, error)
	ListBySupplier(ctx context.Context, supplierID primitive.ObjectID, params *utils.PaginationParams) ([]*models.AppointmentSlot, int64, error)
	Book(ctx context.Context, userID, slotID primitive.ObjectID) (*models.AppointmentSlot, error)
	Cancel(ctx context.Context, userID, slotID primitive.ObjectID) error
}

type appointmentService struct {
	appointmentRepo interfaces.AppointmentRepository
	logger          *logger.Logger
}

func NewAppointmentService(appointmentRepo interfaces.AppointmentRepository, log *logger.Logger) AppointmentService {
	return &appointmentService{
		appointmentRepo: appointmentRepo,
		logger:          log,
	}
}

func (s *appointmentService) CreateSlot(ctx context.Context, supplierID primitive.ObjectID, req *models.CreateSlotRequest) (*models.AppointmentSlot, error) {
	if !req.EndsAt.After(req.StartsAt) {
		return nil, fmt.Errorf("slot must end after it starts")
	}

	slot := &models.AppointmentSlot{
		SupplierID: supplierID,
		Title:      req.Title,
		StartsAt:   req.StartsAt,
		EndsAt:     req.EndsAt,
		Status:     models.SlotStatusAvailable,
	}

	if err := s.appointmentRepo.Create(ctx, slot); err != nil {
		return nil, err
	}

	return slot, nil
}

func (s *appointmentService) ListAvailable(ctx context.Context, params *utils.PaginationParams) ([]*models.AppointmentSlot, int64, error) {
	return s.appointmentRepo.ListAvailable(ctx, params)
}

func (s *appointmentService) ListBySupplier(ctx context.Context, supplierID primitive.ObjectID, params *utils.PaginationParams) ([]*models.AppointmentSlot, int64, error) {
	return s.appointmentRepo.ListBySupplier(ctx, supplierID, params)
}

func (s *appointmentService) Book(ctx context.Context, userID, slotID primitive.ObjectID) (*models.AppointmentSlot, error) {
	slot, err := s.appointmentRepo.Book(ctx, slotID, userID)
	if err != nil {
		return nil, err
	}

	s.logger.WithUserID(userID).WithField("slot_id", slot.ID.Hex()).Info("Appointment slot booked")
	return slot, nil
}

func (s *appointmentService) Cancel(ctx context.Context, userID, slotID primitive.ObjectID) error {
	return s.appointmentRepo.CancelBooking(ctx, slotID, userID)
}
