package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusBooked    SlotStatus = "booked"
)

// AppointmentSlot is a supplier-defined time window a student can book.
// Booking is a conditional update on status so two students cannot take the
// same slot.
type AppointmentSlot struct {
	ID         primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	SupplierID primitive.ObjectID  `json:"supplier_id" bson:"supplier_id"`
	Title      string              `json:"title" bson:"title" validate:"required,max=150"`
	StartsAt   time.Time           `json:"starts_at" bson:"starts_at" validate:"required"`
	EndsAt     time.Time           `json:"ends_at" bson:"ends_at" validate:"required"`
	Status     SlotStatus          `json:"status" bson:"status" default:"available"`
	BookedBy   *primitive.ObjectID `json:"booked_by,omitempty" bson:"booked_by,omitempty"`
	BookedAt   *time.Time          `json:"booked_at,omitempty" bson:"booked_at,omitempty"`
	CreatedAt  time.Time           `json:"created_at" bson:"created_at"`
}

type CreateSlotRequest struct {
	Title    string    `json:"title" validate:"required,max=150"`
	StartsAt time.Time `json:"starts_at" validate:"required"`
	EndsAt   time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
}
