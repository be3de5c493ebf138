package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SachinNic1502/lapkart-backend/api/controllers"
	"github.com/SachinNic1502/lapkart-backend/api/middleware"
	addresssvc "github.com/SachinNic1502/lapkart-backend/internal/address"
	authsvc "github.com/SachinNic1502/lapkart-backend/internal/auth"
	cartsvc "github.com/SachinNic1502/lapkart-backend/internal/cart"
	emisvc "github.com/SachinNic1502/lapkart-backend/internal/emi"
	ordersvc "github.com/SachinNic1502/lapkart-backend/internal/orders"
	paymentsvc "github.com/SachinNic1502/lapkart-backend/internal/payments"
	productsvc "github.com/SachinNic1502/lapkart-backend/internal/products"
	usersvc "github.com/SachinNic1502/lapkart-backend/internal/users"
	"github.com/SachinNic1502/lapkart-backend/pkg/auth/session"
	"github.com/SachinNic1502/lapkart-backend/pkg/config"
	"github.com/SachinNic1502/lapkart-backend/pkg/db"
	"github.com/SachinNic1502/lapkart-backend/pkg/enums"
	"github.com/SachinNic1502/lapkart-backend/pkg/logger"
	"github.com/SachinNic1502/lapkart-backend/pkg/metrics"
	"github.com/SachinNic1502/lapkart-backend/pkg/redis"
)

// Params collects everything the router mounts.
type Params struct {
	Config  *config.Config
	Logger  *logger.Logger
	Metrics *metrics.HTTPMetrics

	DBPinger    db.Pinger
	RedisPinger redis.Pinger

	SessionChecker session.AccessSessionChecker

	AuthService     authsvc.Service
	RegisterService authsvc.RegisterService
	UsersService    usersvc.Service
	ProductService  productsvc.Service
	CartService     cartsvc.Service
	AddressService  addresssvc.Service
	EmiService      emisvc.Service
	OrderService    ordersvc.Service
	PaymentService  paymentsvc.Service
}

func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if p.Metrics != nil {
		r.Use(p.Metrics.Middleware())
		r.Method(http.MethodGet, "/metrics", p.Metrics.Handler())
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DBPinger, p.RedisPinger))
	})

	authed := middleware.Auth(cfg.JWT, p.SessionChecker, logg)
	adminOnly := middleware.RequireRole(string(enums.UserRoleAdmin), logg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", controllers.AuthRegister(p.RegisterService, logg))
			r.Post("/login", controllers.AuthLogin(p.AuthService, logg))
			r.Post("/refresh", controllers.AuthRefresh(p.AuthService, logg))
			r.With(authed).Post("/logout", controllers.AuthLogout(p.AuthService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(p.ProductService, logg))
			r.Get("/{productId}", controllers.ProductDetail(p.ProductService, logg))
			r.With(authed, adminOnly).Post("/", controllers.ProductCreate(p.ProductService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(authed)

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", controllers.UserProfile(p.UsersService, logg))
				r.Put("/me", controllers.UserUpdateProfile(p.UsersService, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(p.CartService, logg))
				r.Post("/", controllers.CartAdd(p.CartService, logg))
				r.Delete("/", controllers.CartClear(p.CartService, logg))
				r.Delete("/{productId}", controllers.CartRemove(p.CartService, logg))
			})

			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", controllers.AddressList(p.AddressService, logg))
				r.Post("/", controllers.AddressCreate(p.AddressService, logg))
				r.Get("/{addressId}", controllers.AddressDetail(p.AddressService, logg))
				r.Put("/{addressId}", controllers.AddressUpdate(p.AddressService, logg))
				r.Delete("/{addressId}", controllers.AddressDelete(p.AddressService, logg))
			})

			r.Route("/emi", func(r chi.Router) {
				r.Post("/calculate-emi", controllers.EmiCalculate(p.EmiService, logg))
				r.Post("/plans", controllers.EmiPlanCreate(p.OrderService, logg))
				r.Get("/plans", controllers.EmiPlans(p.EmiService, logg))
				r.Post("/pay-emi", controllers.EmiPayInstallment(p.EmiService, logg))
				r.Get("/active", controllers.EmiActive(p.EmiService, logg))
				r.Get("/paid", controllers.EmiPaid(p.EmiService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/add", controllers.OrderCreate(p.OrderService, logg))
				r.Get("/", controllers.OrderList(p.OrderService, logg))
				r.Get("/{orderId}", controllers.OrderDetail(p.OrderService, logg))
				r.Put("/{orderId}", controllers.OrderUpdateStatus(p.OrderService, logg))
				r.Post("/{orderId}/cancel", controllers.OrderCancel(p.OrderService, logg))
			})

			r.Route("/payments", func(r chi.Router) {
				r.Post("/create-order", controllers.PaymentCreateOrder(p.PaymentService, logg))
				r.Post("/capture", controllers.PaymentCapture(p.PaymentService, logg))
				r.Get("/", controllers.PaymentList(p.PaymentService, logg))
				r.Get("/{paymentId}", controllers.PaymentDetail(p.PaymentService, logg))
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(adminOnly)
				r.Get("/orders", controllers.AdminOrderList(p.OrderService, logg))
			})
		})
	})

	return r
}
