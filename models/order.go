package models

import (
	"fmt"
	"time"
)

const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusPreparing = "PREPARING"
	OrderStatusOnTheWay  = "OUT_FOR_DELIVERY"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

const (
	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
)

// Order is one line of a storefront checkout: a single menu item at its
// extended price (unit price x quantity).
type Order struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	MenuItemID    uint      `gorm:"not null;index" json:"menuItemId"`
	MenuItem      MenuItem  `gorm:"foreignKey:MenuItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"menuItem"`
	UserName      string    `gorm:"type:varchar(255);not null;index" json:"userName"`
	UserEmail     string    `gorm:"type:varchar(255);index" json:"userEmail"`
	Price         float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Address       string    `gorm:"type:varchar(512)" json:"address"`
	PhoneNumber   string    `gorm:"type:varchar(30)" json:"phoneNumber"`
	PaymentMethod string    `gorm:"type:varchar(30)" json:"paymentMethod"`
	DeliveryNotes string    `gorm:"type:text" json:"deliveryNotes"`
	Status        string    `gorm:"type:varchar(30);not null;default:'PENDING'" json:"status"`
	PaymentStatus string    `gorm:"type:varchar(30);not null;default:'PENDING'" json:"paymentStatus"`
	OrderDate     time.Time `json:"orderDate"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

var validOrderStatuses = map[string]bool{
	OrderStatusPending:   true,
	OrderStatusConfirmed: true,
	OrderStatusPreparing: true,
	OrderStatusOnTheWay:  true,
	OrderStatusDelivered: true,
	OrderStatusCancelled: true,
}

func IsValidOrderStatus(status string) bool {
	return validOrderStatuses[status]
}

// Reference is the short identifier printed on confirmations.
func (o *Order) Reference() string {
	return fmt.Sprintf("FH-%06d", o.ID)
}
