package models

import "time"

// OrderStatus represents all possible states of a fuel delivery order
type OrderStatus string

const (
	StatusPending            OrderStatus = "Pending"
	StatusAcceptedBySupplier OrderStatus = "Accepted_By_Supplier"
	StatusAssignedToDriver   OrderStatus = "Assigned_To_Driver"
	StatusInTransit          OrderStatus = "In_Transit"
	StatusDelivered          OrderStatus = "Delivered"
	StatusCancelled          OrderStatus = "Cancelled"
	StatusRejected           OrderStatus = "Rejected"
)

// AllStatuses lists every order state in lifecycle order
var AllStatuses = []OrderStatus{
	StatusPending,
	StatusAcceptedBySupplier,
	StatusAssignedToDriver,
	StatusInTransit,
	StatusDelivered,
	StatusCancelled,
	StatusRejected,
}

// Valid reports whether s is a known order state
func (s OrderStatus) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type FuelType string

const (
	FuelPetrol   FuelType = "Petrol"
	FuelDiesel   FuelType = "Diesel"
	FuelCNG      FuelType = "CNG"
	FuelElectric FuelType = "Electric"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentUPI    PaymentMethod = "upi"
	PaymentWallet PaymentMethod = "wallet"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// GeoPoint is an optional delivery coordinate
type GeoPoint struct {
	Latitude  *float64 `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty" bson:"longitude,omitempty"`
}

type Order struct {
	ID            string   `json:"_id" gorm:"primaryKey;size:36" bson:"_id"`
	UserID        string   `json:"user" gorm:"column:user_id;size:36;not null;index" bson:"user_id"`
	CustomerName  string   `json:"customerName" gorm:"not null" bson:"customer_name"`
	CustomerEmail string   `json:"customerEmail" gorm:"not null" bson:"customer_email"`
	CustomerPhone string   `json:"customerPhone" gorm:"not null" bson:"customer_phone"`
	FuelType      FuelType `json:"fuelType" gorm:"not null" bson:"fuel_type"`
	Quantity      float64  `json:"quantity" gorm:"not null" bson:"quantity"`
	PricePerLiter float64  `json:"pricePerLiter" gorm:"not null" bson:"price_per_liter"`
	TotalAmount   float64  `json:"totalAmount" gorm:"not null" bson:"total_amount"`

	DeliveryAddress string   `json:"deliveryAddress" gorm:"not null" bson:"delivery_address"`
	Location        GeoPoint `json:"location" gorm:"embedded;embeddedPrefix:location_" bson:"location"`
	SupplierName    string   `json:"supplierName,omitempty" bson:"supplier_name,omitempty"`
	SupplierArea    string   `json:"supplierArea,omitempty" bson:"supplier_area,omitempty"`

	Status     OrderStatus `json:"status" gorm:"not null;default:'Pending';index" bson:"status"`
	DriverID   *string     `json:"driver" gorm:"size:36;index" bson:"driver_id"`
	DriverName string      `json:"driverName,omitempty" bson:"driver_name,omitempty"`

	AcceptedBySupplierAt *time.Time `json:"acceptedBySupplierAt,omitempty" bson:"accepted_by_supplier_at,omitempty"`
	AssignedToDriverAt   *time.Time `json:"assignedToDriverAt,omitempty" bson:"assigned_to_driver_at,omitempty"`
	DeliveredAt          *time.Time `json:"deliveredAt,omitempty" bson:"delivered_at,omitempty"`

	Notes         string        `json:"notes,omitempty" bson:"notes,omitempty"`
	PaymentMethod PaymentMethod `json:"paymentMethod" gorm:"not null;default:'cash'" bson:"payment_method"`
	PaymentStatus PaymentStatus `json:"paymentStatus" gorm:"not null;default:'pending'" bson:"payment_status"`

	// Version is bumped on every status write; writers compare-and-swap on it
	Version int64 `json:"version" gorm:"not null;default:1" bson:"version"`

	StatusHistory []OrderStatusHistory `json:"statusHistory,omitempty" gorm:"-" bson:"-"`
	CreatedAt     time.Time            `json:"createdAt" gorm:"index" bson:"created_at"`
	UpdatedAt     time.Time            `json:"updatedAt" bson:"updated_at"`
}

// OrderStatusHistory tracks every status change
type OrderStatusHistory struct {
	ID         string      `json:"_id" gorm:"primaryKey;size:36" bson:"_id"`
	OrderID    string      `json:"orderId" gorm:"size:36;not null;index" bson:"order_id"`
	FromStatus OrderStatus `json:"fromStatus,omitempty" bson:"from_status,omitempty"`
	ToStatus   OrderStatus `json:"toStatus" gorm:"not null" bson:"to_status"`
	ChangedBy  string      `json:"changedBy,omitempty" gorm:"size:36" bson:"changed_by,omitempty"` // user ID who triggered the transition
	Note       string      `json:"note,omitempty" bson:"note,omitempty"`
	CreatedAt  time.Time   `json:"createdAt" bson:"created_at"`
}

func (OrderStatusHistory) TableName() string {
	return "order_status_history"
}
