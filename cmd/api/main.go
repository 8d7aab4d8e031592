package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"studiorent/internal/database"
	"studiorent/internal/middleware"
	"studiorent/internal/modules/auth"
	"studiorent/internal/modules/booking"
	"studiorent/internal/modules/calendar"
	"studiorent/internal/modules/customer"
	"studiorent/internal/modules/deferred"
	"studiorent/internal/modules/pricing"
	"studiorent/internal/pkg/clock"
	jwtsvc "studiorent/internal/pkg/jwt"
	"studiorent/internal/repository"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is empty")
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	refundRepo := repository.NewRefundRepository(db)
	deferredRepo := repository.NewDeferredActionRepository(db)
	utmRepo := repository.NewUtmCodeRepository(db)

	j := jwtsvc.New(secret, 24*time.Hour)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	bookingService := booking.NewService(
		bookingRepo,
		roomRepo,
		customer.NewService(userRepo),
		pricing.NewService(roomRepo),
		calendar.NewService(bookingRepo),
		deferred.NewScheduler(deferredRepo),
		refundRepo,
		utmRepo,
		clock.Real{},
	)
	bookingHandler := booking.NewHandler(bookingService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterRoutes(v1)

		staff := v1.Group("/")
		staff.Use(middleware.RequireAuth(j), middleware.StaffOnly())

		bookingHandler.RegisterRoutes(v1, staff)
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
