package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yeremiapane/foodiehub/kds"
	"github.com/yeremiapane/foodiehub/models"
	"github.com/yeremiapane/foodiehub/utils"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrInvalidStatus    = errors.New("invalid order status")
	ErrInvalidOrder     = errors.New("invalid order")
)

// MenuItemRef is the {"id": n} reference the order API takes.
type MenuItemRef struct {
	ID uint `json:"id"`
}

// OrderRequest is the create-order payload, one per cart line.
type OrderRequest struct {
	MenuItem      MenuItemRef `json:"menuItem"`
	UserName      string      `json:"userName"`
	UserEmail     string      `json:"userEmail"`
	Price         float64     `json:"price"`
	Address       string      `json:"address"`
	PhoneNumber   string      `json:"phoneNumber"`
	PaymentMethod string      `json:"paymentMethod"`
	DeliveryNotes string      `json:"deliveryNotes"`
}

// OrderService persists orders. It also serves as the in-process order
// history and submitter when no remote order API is configured.
type OrderService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db, now: time.Now}
}

func (s *OrderService) Create(ctx context.Context, req OrderRequest) (*models.Order, error) {
	if strings.TrimSpace(req.UserName) == "" {
		return nil, fmt.Errorf("%w: userName is required", ErrInvalidOrder)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidOrder)
	}

	db := s.db.WithContext(ctx)

	var item models.MenuItem
	if err := db.First(&item, req.MenuItem.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrMenuItemNotFound, req.MenuItem.ID)
		}
		return nil, err
	}

	order := models.Order{
		MenuItemID:    item.ID,
		UserName:      req.UserName,
		UserEmail:     req.UserEmail,
		Price:         req.Price,
		Address:       req.Address,
		PhoneNumber:   req.PhoneNumber,
		PaymentMethod: req.PaymentMethod,
		DeliveryNotes: req.DeliveryNotes,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		OrderDate:     s.now(),
	}
	if err := db.Create(&order).Error; err != nil {
		return nil, err
	}
	order.MenuItem = item

	utils.InfoLogger.Printf("Order %s created for %s (menu item %d)", order.Reference(), order.UserName, item.ID)
	kds.BroadcastOrderCreated(order)
	return &order, nil
}

// SubmitOrder creates an order and returns its id.
func (s *OrderService) SubmitOrder(ctx context.Context, req OrderRequest) (uint, error) {
	order, err := s.Create(ctx, req)
	if err != nil {
		return 0, err
	}
	return order.ID, nil
}

// CountOrders is the number of orders placed under userName.
func (s *OrderService) CountOrders(ctx context.Context, userName string) (int, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Order{}).Where("user_name = ?", userName).Count(&n).Error
	return int(n), err
}

func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("MenuItem").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	return s.find(ctx, nil)
}

func (s *OrderService) ListByUser(ctx context.Context, userName string) ([]models.Order, error) {
	return s.find(ctx, map[string]interface{}{"user_name": userName})
}

func (s *OrderService) ListByEmail(ctx context.Context, email string) ([]models.Order, error) {
	return s.find(ctx, map[string]interface{}{"user_email": email})
}

func (s *OrderService) ListByStatus(ctx context.Context, status string) ([]models.Order, error) {
	status = strings.ToUpper(status)
	if !models.IsValidOrderStatus(status) {
		return nil, ErrInvalidStatus
	}
	return s.find(ctx, map[string]interface{}{"status": status})
}

func (s *OrderService) ListByMenuItem(ctx context.Context, menuItemID uint) ([]models.Order, error) {
	return s.find(ctx, map[string]interface{}{"menu_item_id": menuItemID})
}

func (s *OrderService) find(ctx context.Context, where map[string]interface{}) ([]models.Order, error) {
	orders := []models.Order{}
	q := s.db.WithContext(ctx).Preload("MenuItem").Order("id desc")
	if where != nil {
		q = q.Where(where)
	}
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Update replaces the delivery details of an order.
func (s *OrderService) Update(ctx context.Context, id uint, req OrderRequest) (*models.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"address":        req.Address,
		"phone_number":   req.PhoneNumber,
		"payment_method": req.PaymentMethod,
		"delivery_notes": req.DeliveryNotes,
	}
	if err := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
		return nil, err
	}

	order, err = s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	kds.BroadcastOrderUpdate(*order)
	return order, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if !models.IsValidOrderStatus(status) {
		return nil, ErrInvalidStatus
	}

	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"status": status}
	if status == models.OrderStatusDelivered && order.PaymentMethod == "cod" {
		updates["payment_status"] = models.PaymentStatusPaid
	}
	if err := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
		return nil, err
	}

	order, err = s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.Printf("Order %s status -> %s", order.Reference(), status)
	kds.BroadcastOrderUpdate(*order)
	return order, nil
}

func (s *OrderService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Order{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	kds.BroadcastOrderDeleted(id)
	return nil
}
