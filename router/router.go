package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/foodiehub/controllers"
	"github.com/yeremiapane/foodiehub/middlewares"
	"github.com/yeremiapane/foodiehub/models"
	"github.com/yeremiapane/foodiehub/services"
	"gorm.io/gorm"
)

type Options struct {
	DB       *gorm.DB
	Sessions *services.SessionManager
	Checkout *services.CheckoutService
	Orders   *services.OrderService

	// AllowedOrigin is the storefront SPA origin for CORS; empty reflects
	// the request Origin.
	AllowedOrigin string
	// StorefrontLimiter throttles /api; nil disables it.
	StorefrontLimiter *middlewares.RateLimiter
}

func SetupRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(opts.AllowedOrigin))
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(opts.DB)
	restaurantCtrl := controllers.NewRestaurantController(opts.DB)
	menuCtrl := controllers.NewMenuController(opts.DB)
	orderCtrl := controllers.NewOrderController(opts.Orders)
	adminCtrl := controllers.NewAdminController(opts.DB)
	sessionCtrl := controllers.NewSessionController(opts.Sessions)
	cartCtrl := controllers.NewCartController(opts.DB, opts.Checkout)
	couponCtrl := controllers.NewCouponController(opts.Checkout)
	checkoutCtrl := controllers.NewCheckoutController(opts.Checkout)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Rate limiter untuk login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter().RateLimit())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	api := r.Group("/api")
	if opts.StorefrontLimiter != nil {
		api.Use(opts.StorefrontLimiter.RateLimit())
	}

	// -- CATALOG (tanpa session) --
	api.GET("/restaurants", restaurantCtrl.GetAllRestaurants)
	api.GET("/restaurants/:restaurant_id", restaurantCtrl.GetRestaurantByID)
	api.GET("/restaurants/:restaurant_id/menu", restaurantCtrl.GetRestaurantMenu)
	api.GET("/menu-items/:menu_id", menuCtrl.GetMenuItemByID)
	api.GET("/offers", couponCtrl.GetOffers)

	// Order API dipakai checkout storefront (juga sebagai layanan remote)
	api.POST("/orders", orderCtrl.CreateOrder)
	api.GET("/orders/user/:user_name", orderCtrl.GetOrdersByUser)

	api.POST("/session", sessionCtrl.StartSession)

	// -- STOREFRONT SESSION --
	store := api.Group("/")
	store.Use(middlewares.SessionMiddleware(opts.Sessions))
	{
		store.GET("/cart", cartCtrl.GetCart)
		store.DELETE("/cart", cartCtrl.ClearCart)
		store.GET("/cart/totals", cartCtrl.GetTotals)
		store.POST("/cart/items", cartCtrl.AddItem)
		store.POST("/cart/replace", cartCtrl.ReplaceCart)
		store.PATCH("/cart/items/:item_id", cartCtrl.UpdateQuantity)
		store.DELETE("/cart/items/:item_id", cartCtrl.RemoveItem)

		store.GET("/coupons", couponCtrl.GetCoupons)
		store.POST("/coupons", couponCtrl.SaveCoupon)
		store.DELETE("/coupons/:code", couponCtrl.RemoveCoupon)
		store.POST("/coupons/:code/apply", couponCtrl.ApplyCoupon)

		store.POST("/checkout/prepare", checkoutCtrl.Prepare)
		store.POST("/checkout", checkoutCtrl.PlaceOrder)
		store.GET("/checkout/summary", checkoutCtrl.GetSummary)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	r.GET("/admin/ws", middlewares.WebSocketAuthMiddleware(), controllers.KDSHandler)

	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)

	staff := auth.Group("/")
	staff.Use(middlewares.RequireRole(models.RoleStaff))
	{
		staff.GET("/orders", orderCtrl.GetAllOrders)
		staff.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		staff.GET("/orders/email/:email", orderCtrl.GetOrdersByEmail)
		staff.GET("/orders/status/:status", orderCtrl.GetOrdersByStatus)
		staff.GET("/orders/menu-item/:menu_id", orderCtrl.GetOrdersByMenuItem)
		staff.PUT("/orders/:order_id", orderCtrl.UpdateOrder)
		staff.PATCH("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)
	}

	admin := auth.Group("/")
	admin.Use(middlewares.RequireRole(models.RoleAdmin))
	{
		admin.GET("/dashboard", adminCtrl.GetDashboardStats)
		admin.GET("/users", userCtrl.GetAllUsers)

		admin.POST("/restaurants", restaurantCtrl.CreateRestaurant)
		admin.PUT("/restaurants/:restaurant_id", restaurantCtrl.UpdateRestaurant)
		admin.DELETE("/restaurants/:restaurant_id", restaurantCtrl.DeleteRestaurant)

		admin.POST("/menu-items", menuCtrl.CreateMenuItem)
		admin.PUT("/menu-items/:menu_id", menuCtrl.UpdateMenuItem)
		admin.DELETE("/menu-items/:menu_id", menuCtrl.DeleteMenuItem)

		admin.DELETE("/orders/:order_id", orderCtrl.DeleteOrder)
	}

	return r
}
