package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/rocimuc/artist-vote/internal/config"
	"github.com/rocimuc/artist-vote/internal/database"
	"github.com/rocimuc/artist-vote/internal/handler"
	"github.com/rocimuc/artist-vote/internal/media"
	"github.com/rocimuc/artist-vote/internal/middleware"
	"github.com/rocimuc/artist-vote/internal/payment"
	"github.com/rocimuc/artist-vote/internal/queue"
	"github.com/rocimuc/artist-vote/internal/repository"
	"github.com/rocimuc/artist-vote/internal/router"
)

// seedAdmin creates the staff account named by ADMIN_EMAIL/ADMIN_PASSWORD
// so a fresh deployment has a working admin login. A no-op when the
// variables are unset; an already existing account is left untouched.
func seedAdmin(users *repository.UserRepo, bcryptCost int) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}
	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "Administrator"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	id, err := users.Create(ctx, name, email, password, true, bcryptCost)
	if err == repository.ErrEmailExists {
		return nil
	}
	if err != nil {
		return err
	}
	log.Printf("seeded admin user %s (id=%d)", email, id)
	return nil
}

func main() {
	// Local development reads .env; in deployment the variables come from
	// the environment and the file is simply absent.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()
	if err := database.CreateSchema(db); err != nil {
		log.Fatalf("schema creation failed: %v", err)
	}

	// Redis backs response caching and rate limiting. A nil client simply
	// disables both; the API stays fully functional without it.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, caching and rate limiting disabled")
	}

	artists := repository.NewArtistRepo(db)
	payments := repository.NewPaymentRepo(db)
	manualVotes := repository.NewManualVoteRepo(db)
	users := repository.NewUserRepo(db)
	messages := repository.NewMessageRepo(db)
	analytics := repository.NewAnalyticsRepo(db)

	if err := seedAdmin(users, cfg.BcryptCost); err != nil {
		log.Fatalf("admin bootstrap failed: %v", err)
	}

	var provider payment.Provider
	switch cfg.PaymentProvider {
	case "accountpe":
		provider, err = payment.NewAccountPe()
	case "campay":
		provider, err = payment.NewCamPay()
	default:
		log.Fatalf("unknown payment provider %q", cfg.PaymentProvider)
	}
	if err != nil {
		log.Fatalf("payment provider setup failed: %v", err)
	}

	uploader, err := media.NewHTTPUploader()
	if err != nil {
		log.Fatalf("media uploader setup failed: %v", err)
	}

	artistH := handler.NewArtistHandler(cfg, artists, uploader)
	paymentH := handler.NewPaymentHandler(cfg, artists, payments, provider)
	adminH := handler.NewAdminHandler(cfg, users, artists, payments, manualVotes, analytics)
	analyticsH := handler.NewAnalyticsHandler(analytics)
	messageH := handler.NewMessageHandler(messages)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
	}))

	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	rateMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterPublic(e, artistH, messageH, cacheMW, rateMW)
	router.RegisterArtist(e, artistH, cfg.JWTSecret)
	router.RegisterPayments(e, paymentH)
	router.RegisterAdmin(e, adminH, analyticsH, messageH, cfg.JWTSecret)

	// The vote event consumer runs in-process; it reconnects on broker
	// failures and never takes the API down with it.
	go func() {
		if err := queue.StartVoteConsumer(); err != nil {
			log.Printf("vote consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, provider=%s)", addr, cfg.Env, provider.Name())
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
