package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/quickone/marketplace-api/internal/chat"
	"github.com/quickone/marketplace-api/internal/config"
	"github.com/quickone/marketplace-api/internal/handlers"
	infraRepo "github.com/quickone/marketplace-api/internal/infra/repository"
	"github.com/quickone/marketplace-api/internal/middleware"
	"github.com/quickone/marketplace-api/internal/notify"
	"github.com/quickone/marketplace-api/internal/payment"
	"github.com/quickone/marketplace-api/internal/storage"
	ucBooking "github.com/quickone/marketplace-api/internal/usecase/booking"
	ucNegotiation "github.com/quickone/marketplace-api/internal/usecase/negotiation"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	hub *chat.Hub,
	gateway payment.Gateway,
	uploader storage.Uploader,
	dispatcher *notify.Dispatcher,
) {

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)

	// ======================================================
	// 🧠 USE CASES — BOOKINGS
	// ======================================================
	createBookingUC := ucBooking.NewCreateBooking(
		bookingRepo,
		dispatcher,
	)

	updateBookingStatusUC := ucBooking.NewUpdateBookingStatus(
		bookingRepo,
		dispatcher,
	)

	getBookingUC := ucBooking.NewGetBooking(
		bookingRepo,
	)

	listBookingsUC := ucBooking.NewListBookings(
		bookingRepo,
	)

	// ======================================================
	// 🧠 USE CASES — NEGOTIATION
	// ======================================================
	proposeOfferUC := ucNegotiation.NewProposeOffer(
		bookingRepo,
		dispatcher,
	)

	respondOfferUC := ucNegotiation.NewRespondOffer(
		bookingRepo,
		dispatcher,
	)

	listOffersUC := ucNegotiation.NewListOffers(
		bookingRepo,
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	serviceHandler := handlers.NewServiceHandler(db)

	bookingHandler := handlers.NewBookingHandler(
		createBookingUC,
		updateBookingStatusUC,
		getBookingUC,
		listBookingsUC,
	)

	offerHandler := handlers.NewOfferHandler(
		proposeOfferUC,
		respondOfferUC,
		listOffersUC,
	)

	chatHandler := handlers.NewChatHandler(bookingRepo, hub)
	paymentHandler := handlers.NewPaymentHandler(bookingRepo, gateway, dispatcher)
	notificationHandler := handlers.NewNotificationHandler(db)
	uploadHandler := handlers.NewUploadHandler(db, uploader)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		api.GET("/services", serviceHandler.List)
		api.GET("/services/:id", serviceHandler.Get)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.POST("/me/photo", uploadHandler.ProfilePhoto)

			secured.POST("/services", serviceHandler.Create)

			secured.POST("/bookings", bookingHandler.Create)
			secured.GET("/bookings", bookingHandler.List)
			secured.GET("/bookings/:id", bookingHandler.Get)
			secured.PATCH("/bookings/:id/status", bookingHandler.UpdateStatus)

			secured.POST("/bookings/:id/offers", offerHandler.Propose)
			secured.GET("/bookings/:id/offers", offerHandler.List)
			secured.POST("/offers/:offerId/respond", offerHandler.Respond)

			secured.GET("/bookings/:id/messages", chatHandler.History)
			secured.GET("/ws/chat/:id", chatHandler.Websocket)

			secured.POST("/bookings/:id/payment/initialize", paymentHandler.Initialize)
			secured.GET("/payments/verify/:reference", paymentHandler.Verify)

			secured.GET("/notifications", notificationHandler.List)
			secured.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
		}
	}
}
