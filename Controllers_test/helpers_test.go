package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/foodiehub/database"
	"github.com/yeremiapane/foodiehub/middlewares"
	"github.com/yeremiapane/foodiehub/models"
	"github.com/yeremiapane/foodiehub/pricing"
	"github.com/yeremiapane/foodiehub/router"
	"github.com/yeremiapane/foodiehub/services"
	"github.com/yeremiapane/foodiehub/storage"
	"github.com/yeremiapane/foodiehub/utils"
)

type testApp struct {
	DB       *gorm.DB
	Router   *gin.Engine
	Sessions *services.SessionManager
	Orders   *services.OrderService
}

func setupApp(t *testing.T) *testApp {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.Seed(db, "", ""))

	orders := services.NewOrderService(db)
	sessions := services.NewSessionManager(storage.NewGormProvider(db), orders)
	checkout := services.NewCheckoutService(orders, pricing.NewCalculator(pricing.DefaultRules))

	r := router.SetupRouter(router.Options{
		DB:                db,
		Sessions:          sessions,
		Checkout:          checkout,
		Orders:            orders,
		StorefrontLimiter: middlewares.NewRateLimiter(1000, 1),
	})
	return &testApp{DB: db, Router: r, Sessions: sessions, Orders: orders}
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do sends a JSON request; headers are name/value pairs.
func (a *testApp) do(t *testing.T, method, path string, body interface{}, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

// startSession opens a storefront session and returns its token header.
func (a *testApp) startSession(t *testing.T, name, email string) []string {
	t.Helper()
	w, env := a.do(t, http.MethodPost, "/api/session", gin.H{"name": name, "email": email})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return []string{middlewares.SessionHeader, data.Token}
}

// adminHeader creates a back-office user and signs a token for it.
func (a *testApp) adminHeader(t *testing.T, role string) []string {
	t.Helper()
	user := models.User{Name: role, Email: role + "@foodiehub.local", Password: "x", Role: role}
	require.NoError(t, a.DB.Create(&user).Error)
	token, err := utils.GenerateToken(user.ID, user.Role)
	require.NoError(t, err)
	return []string{"Authorization", "Bearer " + token}
}

func (a *testApp) menuItem(t *testing.T, name string) models.MenuItem {
	t.Helper()
	var item models.MenuItem
	require.NoError(t, a.DB.Where("name = ?", name).First(&item).Error)
	return item
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v), string(env.Data))
}
