package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gymhub/cleanup"
	"gymhub/database"
	"gymhub/handlers"
	"gymhub/lifecycle"
	"gymhub/mailer"
	"gymhub/media"
	"gymhub/motivation"
	"gymhub/notify"
	"gymhub/push"
	"gymhub/routes"
	"gymhub/scheduler"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("🚀 Starting GymHub Backend Server...")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	if os.Getenv("JWT_SECRET") == "" || os.Getenv("MONGODB_URI") == "" {
		log.Fatal("❌ JWT_SECRET and MONGODB_URI must be set")
	}

	// ===== CONNECT TO MONGODB WITH RETRY =====
	log.Println("🔌 Connecting to MongoDB...")

	var dbErr error
	for i := 1; i <= 3; i++ {
		if err := database.ConnectMongo(); err != nil {
			dbErr = err
			log.Printf("❌ MongoDB connection attempt %d failed: %v", i, err)
			time.Sleep(2 * time.Second)
			continue
		}
		dbErr = nil
		break
	}
	if dbErr != nil {
		log.Fatal("❌ Failed to connect to MongoDB:", dbErr)
	}
	defer func() {
		if err := database.DisconnectMongo(); err != nil {
			log.Printf("❌ MongoDB disconnect error: %v", err)
		}
	}()

	idxCtx, idxCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureIndexes(idxCtx); err != nil {
		idxCancel()
		log.Fatal("❌ Failed to ensure indexes:", err)
	}
	idxCancel()

	// ===== SERVICES =====
	mediaStore, err := media.NewCloudinary(os.Getenv("CLOUDINARY_URL"))
	if err != nil {
		log.Fatal("❌ Cloudinary configuration error:", err)
	}

	pushCfg, err := push.LoadConfig()
	if err != nil {
		log.Fatal("❌ VAPID configuration error:", err)
	}
	pushSvc := push.New(pushCfg, push.NewMongoSubscriptionStore(database.Users))

	ledger := lifecycle.NewLedger(lifecycle.NewMongoEntryStore(database.ExpiredMedia))

	notifier := notify.NewService(
		notify.NewMongoUserFinder(database.Users),
		notify.NewMongoNotificationStore(database.Notifications),
		pushSvc,
	)

	motivationSvc := motivation.NewService(
		motivation.NewMongoMessageStore(database.MotivationMessages),
		motivation.NewMongoNotificationFinder(database.Notifications),
		motivation.NewMongoEngagementStore(database.Engagements),
		notifier,
	)

	coordinator := cleanup.NewCoordinator(
		cleanup.NewMongoLedgerStore(database.ExpiredMedia),
		mediaStore,
		cleanup.NewMongoPostStore(database.Posts),
		ledger,
	)

	handlers.Configure(handlers.Deps{
		Media:      mediaStore,
		Ledger:     ledger,
		Notifier:   notifier,
		Motivation: motivationSvc,
		Push:       pushSvc,
		Mailer:     mailer.NewFromEnv(),
	})

	// ===== SCHEDULED JOBS =====
	cronJobs, err := scheduler.New(coordinator, motivationSvc)
	if err != nil {
		log.Fatal("❌ Failed to register scheduled jobs:", err)
	}
	cronJobs.Start()
	defer cronJobs.Stop()

	// ===== GIN MODE =====
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
		log.Println("⚙️ Running in RELEASE mode")
	} else {
		gin.SetMode(gin.DebugMode)
		log.Println("⚙️ Running in DEBUG mode")
	}

	router := routes.SetupRouter()

	// ===== SERVER CONFIG =====
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Server running on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Server error:", err)
		}
	}()

	log.Println("✅ Server is ready and accepting connections")

	// ===== GRACEFUL SHUTDOWN =====
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("❌ Forced shutdown:", err)
	}

	log.Println("👋 Server stopped gracefully")
}
