package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/foodiehub/clients"
	"github.com/yeremiapane/foodiehub/database"
	"github.com/yeremiapane/foodiehub/events"
	"github.com/yeremiapane/foodiehub/models"
	"github.com/yeremiapane/foodiehub/notify"
	"github.com/yeremiapane/foodiehub/pricing"
	"github.com/yeremiapane/foodiehub/router"
	"github.com/yeremiapane/foodiehub/services"
	"github.com/yeremiapane/foodiehub/storage"
	"github.com/yeremiapane/foodiehub/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type recordingBroker struct {
	mu   sync.Mutex
	msgs []amqp.Publishing
}

func (b *recordingBroker) Publish(ctx context.Context, queue string, msg amqp.Publishing) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = append(b.msgs, msg)
	return nil
}

type recordingSender struct {
	mu   sync.Mutex
	sent []*mail.SGMailV3
}

func (s *recordingSender) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, email)
	return &rest.Response{StatusCode: http.StatusAccepted}, nil
}

func openDB(t *testing.T, name string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.Seed(db, "", ""))
	return db
}

// TestEndToEndIntegration runs a storefront whose orders go to a separate
// order service over HTTP:
// 1. start a session and fill the cart
// 2. apply a coupon and check the totals
// 3. checkout, then find the orders on the order service
// 4. the order.placed event and confirmation email went out
// 5. the kitchen moves the order to DELIVERED
func TestEndToEndIntegration(t *testing.T) {
	kitchenDB := openDB(t, "kitchen")
	kitchenOrders := services.NewOrderService(kitchenDB)
	kitchen := httptest.NewServer(router.SetupRouter(router.Options{
		DB:       kitchenDB,
		Sessions: services.NewSessionManager(storage.NewMemoryProvider(), kitchenOrders),
		Checkout: services.NewCheckoutService(kitchenOrders, pricing.NewCalculator(pricing.DefaultRules)),
		Orders:   kitchenOrders,
	}))
	defer kitchen.Close()

	storeDB := openDB(t, "storefront")
	api := clients.NewOrderAPIClient(kitchen.URL)
	sessions := services.NewSessionManager(storage.NewGormProvider(storeDB), api)
	checkout := services.NewCheckoutService(api, pricing.NewCalculator(pricing.DefaultRules))
	broker := &recordingBroker{}
	sender := &recordingSender{}
	checkout.Events = events.NewPublisher(broker, "foodiehub.orders")
	checkout.Notifier = notify.NewEmailNotifierWithSender(sender, "orders@foodiehub.local")

	store := router.SetupRouter(router.Options{
		DB:       storeDB,
		Sessions: sessions,
		Checkout: checkout,
		Orders:   services.NewOrderService(storeDB),
	})

	// 1. session + cart
	var started struct {
		Token string `json:"token"`
	}
	call(t, store, http.MethodPost, "/api/session", "", gin.H{"name": "priya", "email": "priya@example.com"}, http.StatusOK, &started)
	token := started.Token

	var quinoa, salad models.MenuItem
	require.NoError(t, storeDB.Where("name = ?", "Quinoa Power Bowl").First(&quinoa).Error)
	require.NoError(t, storeDB.Where("name = ?", "Greek Salad").First(&salad).Error)
	call(t, store, http.MethodPost, "/api/cart/items", token, gin.H{"menuItemId": quinoa.ID}, http.StatusOK, nil)
	call(t, store, http.MethodPost, "/api/cart/items", token, gin.H{"menuItemId": salad.ID}, http.StatusOK, nil)

	// 2. coupon: 20% of 508 veg = 101.6, free delivery above 500, 5% tax
	var applied struct {
		Totals pricing.Totals `json:"totals"`
	}
	call(t, store, http.MethodPost, "/api/coupons/VEGGIE20/apply", token, nil, http.StatusOK, &applied)
	assert.Equal(t, 508.0, applied.Totals.Subtotal)
	assert.Equal(t, 0.0, applied.Totals.DeliveryFee)
	assert.Equal(t, 25.4, applied.Totals.Tax)
	assert.Equal(t, 101.6, applied.Totals.Discount)
	assert.Equal(t, 431.8, applied.Totals.Total)

	// 3. checkout
	call(t, store, http.MethodPost, "/api/checkout/prepare", token, nil, http.StatusOK, nil)
	var summary services.OrderSummary
	call(t, store, http.MethodPost, "/api/checkout", token, gin.H{
		"phone":         "9123456780",
		"address":       "44 Brigade Road",
		"paymentMethod": "cod",
	}, http.StatusCreated, &summary)
	require.Len(t, summary.OrderIDs, 2)

	var remote []models.Order
	require.NoError(t, kitchenDB.Where("user_name = ?", "priya").Order("id").Find(&remote).Error)
	require.Len(t, remote, 2)
	var storedLocally int64
	storeDB.Model(&models.Order{}).Count(&storedLocally)
	assert.Zero(t, storedLocally)

	n, err := api.CountOrders(context.Background(), "priya")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// 4. side effects
	require.Len(t, broker.msgs, 1)
	var event events.OrderPlaced
	require.NoError(t, json.Unmarshal(broker.msgs[0].Body, &event))
	assert.Equal(t, summary.CheckoutID, event.CheckoutID)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "priya@example.com", sender.sent[0].Personalizations[0].To[0].Address)

	// 5. kitchen side
	kitchenToken, err := utils.GenerateToken(1, models.RoleStaff)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPatch, fmt.Sprintf("%s/admin/orders/%d/status", kitchen.URL, remote[0].ID), bytes.NewBufferString(`{"status":"DELIVERED"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+kitchenToken)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var delivered models.Order
	require.NoError(t, kitchenDB.First(&delivered, remote[0].ID).Error)
	assert.Equal(t, models.PaymentStatusPaid, delivered.PaymentStatus)
}

func call(t *testing.T, r http.Handler, method, path, token string, body interface{}, wantCode int, out interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Session-Token", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, wantCode, w.Code, "%s %s: %s", method, path, w.Body.String())

	if out != nil {
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
}
