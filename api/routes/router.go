package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kardzapp/kardz-backend/api/controllers"
	"github.com/kardzapp/kardz-backend/api/middleware"
	auctionsvc "github.com/kardzapp/kardz-backend/internal/auction"
	categorysvc "github.com/kardzapp/kardz-backend/internal/categories"
	checkoutsvc "github.com/kardzapp/kardz-backend/internal/checkout"
	eventsvc "github.com/kardzapp/kardz-backend/internal/events"
	ordersvc "github.com/kardzapp/kardz-backend/internal/orders"
	productsvc "github.com/kardzapp/kardz-backend/internal/products"
	usersvc "github.com/kardzapp/kardz-backend/internal/users"
	"github.com/kardzapp/kardz-backend/pkg/config"
	"github.com/kardzapp/kardz-backend/pkg/db"
	"github.com/kardzapp/kardz-backend/pkg/db/models"
	"github.com/kardzapp/kardz-backend/pkg/enums"
	"github.com/kardzapp/kardz-backend/pkg/logger"
	"github.com/kardzapp/kardz-backend/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Users      usersvc.Service
	Products   productsvc.Service
	Categories categorysvc.Service
	Auction    auctionsvc.Service
	Checkout   checkoutsvc.Service
	Orders     ordersvc.Service
	Events     eventsvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	identity := middleware.Identity(identityLookup{svcs.Users}, logg)

	r.Route("/api", func(r chi.Router) {
		r.Use(identity)
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/health", func(r chi.Router) {
			r.Get("/", controllers.HealthLive(cfg))
			r.Get("/ready", controllers.HealthReady(cfg, dbP, redisClient, logg))
		})

		// Public surface.
		r.Get("/data", controllers.InitialData(svcs.Products, svcs.Categories, svcs.Events, logg))
		r.Get("/products/{productID}", controllers.GetProduct(svcs.Products, logg))
		r.Get("/categories", controllers.ListCategories(svcs.Categories, logg))
		r.Get("/events/{eventID}", controllers.GetEvent(svcs.Events, logg))
		r.Post("/login", controllers.Login(svcs.Users, logg))

		// Authenticated surface.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireActor(logg))

			r.Put("/user/profile", controllers.UpdateProfile(svcs.Users, logg))

			r.Post("/products", controllers.CreateProduct(svcs.Products, logg))
			r.Put("/products/{productID}", controllers.UpdateProduct(svcs.Products, logg))
			r.Delete("/products/{productID}", controllers.DeleteProduct(svcs.Products, logg))
			r.Patch("/products/{productID}/toggle-visibility", controllers.ToggleProductVisibility(svcs.Products, logg))
			r.Get("/my-products", controllers.MyProducts(svcs.Products, logg))
			r.Post("/products/{productID}/bid", controllers.PlaceBid(svcs.Auction, logg))

			r.Get("/orders", controllers.ListOrders(svcs.Orders, logg))
			r.Get("/orders/{orderID}", controllers.GetOrder(svcs.Orders, logg))
			r.Post("/checkout", controllers.Checkout(svcs.Checkout, logg))
			r.Post("/bit-checkout", controllers.BitCheckout(svcs.Checkout, logg))

			r.Post("/events/{eventID}/register", controllers.RegisterForEvent(svcs.Events, logg))
			r.Delete("/events/{eventID}/register", controllers.UnregisterFromEvent(svcs.Events, logg))

			// Management surface.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireManagement(logg))
				r.Post("/events", controllers.CreateEvent(svcs.Events, logg))
				r.Get("/my-events", controllers.MyEvents(svcs.Events, logg))
			})
			r.Put("/events/{eventID}", controllers.UpdateEvent(svcs.Events, logg))
			r.Delete("/events/{eventID}", controllers.DeleteEvent(svcs.Events, logg))

			// Admin surface.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleAdmin, logg))

				r.Post("/categories", controllers.CreateCategory(svcs.Categories, logg))
				r.Put("/categories/{categoryID}", controllers.UpdateCategory(svcs.Categories, logg))
				r.Delete("/categories/{categoryID}", controllers.DeleteCategory(svcs.Categories, logg))

				r.Get("/admin/products", controllers.AdminListProducts(svcs.Products, logg))
				r.Get("/admin/users", controllers.AdminListUsers(svcs.Users, logg))
				r.Put("/admin/users/{userID}/role", controllers.AdminUpdateUserRole(svcs.Users, logg))
				r.Post("/admin/backup", controllers.AdminBackup(cfg, logg))
			})
		})
	})

	return r
}

// identityLookup adapts the user service to the identity middleware.
type identityLookup struct {
	users usersvc.Service
}

func (l identityLookup) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return l.users.GetByID(ctx, id)
}
