package main

import (
	"log"
	"net/http"
	"os"

	"ecocycle-backend/internal/database"
	"ecocycle-backend/internal/handlers"
	"ecocycle-backend/internal/middleware"
	"ecocycle-backend/internal/services"
	"ecocycle-backend/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("🚀 ECOCYCLE BACKEND SERVER STARTING")
	log.Println("═══════════════════════════════════════════════════════════════════")

	// Load .env file
	log.Println("📂 Loading environment variables...")
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables from system")
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// Get database URL
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("❌ FATAL ERROR: DATABASE_URL environment variable is required")
	}

	// Connect to database
	log.Println("🔌 Connecting to database...")
	db, err := database.Connect(dbURL)
	if err != nil {
		log.Println("❌ FATAL ERROR: Database connection failed")
		log.Fatal(err)
	}
	defer db.Close()
	log.Println("✅ Database connection established")

	// Run migrations
	log.Println("🔄 Running database migrations...")
	if err := database.Migrate(db); err != nil {
		log.Println("❌ FATAL ERROR: Database migrations failed")
		log.Fatal(err)
	}
	log.Println("✅ Database migrations completed")

	// Seed database
	log.Println("🌱 Seeding database with initial data...")
	if err := database.SeedUsers(db); err != nil {
		log.Println("❌ FATAL ERROR: User seeding failed")
		log.Fatal(err)
	}
	log.Println("✅ Users seeded successfully")

	if err := database.SeedCollectionZones(db); err != nil {
		log.Println("❌ FATAL ERROR: Collection zone seeding failed")
		log.Fatal(err)
	}
	log.Println("✅ Collection zones seeded successfully")

	// Initialize Firebase Cloud Messaging
	// Supports both file path and base64-encoded credentials (for cloud deployments)
	var fcmService *services.FCMService
	fcmCredsBase64 := os.Getenv("FIREBASE_CREDENTIALS_BASE64")

	if fcmCredsBase64 != "" {
		fcmService, err = services.NewFCMServiceFromBase64(fcmCredsBase64)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from base64: %v (push notifications disabled)", err)
			fcmService = nil
		} else {
			log.Println("✅ Firebase Cloud Messaging initialized from base64 credentials")
		}
	} else {
		fcmCredentialsFile := os.Getenv("FIREBASE_CREDENTIALS_FILE")
		if fcmCredentialsFile == "" {
			fcmCredentialsFile = "./firebase-service-account.json"
		}

		fcmService, err = services.NewFCMService(fcmCredentialsFile)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from file: %v (push notifications disabled)", err)
			fcmService = nil
		} else {
			log.Println("✅ Firebase Cloud Messaging initialized from file")
		}
	}

	// Initialize WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()
	log.Println("✅ WebSocket hub started")

	// Uploaded complaint images are served back as static files
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		log.Fatalf("❌ FATAL ERROR: cannot create upload directory %s: %v", uploadDir, err)
	}

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check (also the reachability probe for offline agents)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Authentication routes (no auth required)
	r.Post("/api/auth/register", handlers.Register(db))
	r.Post("/api/auth/login", handlers.Login(db))

	// WebSocket endpoint (authentication handled in handler via query param)
	r.Get("/ws", websocket.HandleWebSocket(wsHub))

	// Uploaded images
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Collection zones are public reference data
		r.Get("/collection-zones", handlers.GetCollectionZones(db))
		r.Get("/collection-zones/{id}", handlers.GetCollectionZone(db))

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)

			r.Get("/auth/user", handlers.GetCurrentUser(db))

			// Waste collections
			r.Get("/waste-collections", handlers.GetWasteCollections(db))
			r.Get("/waste-collections/{id}", handlers.GetWasteCollection(db))
			r.Post("/waste-collections", handlers.CreateWasteCollection(db, wsHub))

			// Transactions
			r.Get("/transactions", handlers.GetTransactions(db))
			r.Get("/transactions/{id}", handlers.GetTransaction(db))
			r.Post("/transactions", handlers.CreateTransaction(db))
			r.Patch("/transactions/{id}/status", handlers.UpdateTransactionStatus(db, wsHub))

			// Complaints
			r.Get("/complaints", handlers.GetComplaints(db))
			r.Get("/complaints/{id}", handlers.GetComplaint(db))
			r.Post("/complaints", handlers.CreateComplaint(db, wsHub))

			// Image hosting for complaint photos
			r.Post("/uploads/images", handlers.UploadImage())

			// Entrepreneur features
			r.Get("/analytics/waste-summary", handlers.GetWasteSummary(db))
			r.Post("/business-plans", handlers.SaveBusinessPlan())

			// FCM token registration
			r.Post("/notifications/fcm-token", handlers.RegisterFCMToken(db))
		})

		// Admin endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)
			r.Use(middleware.RequireRole("admin"))

			r.Post("/collection-zones", handlers.CreateCollectionZone(db))
			r.Patch("/complaints/{id}/status", handlers.UpdateComplaintStatus(db, fcmService))
		})
	})

	// Get port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
		log.Printf("⚠️  PORT not set, using default: %s", port)
	}

	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("✅ ALL INITIALIZATION COMPLETE")
	log.Printf("🚀 Server starting on http://localhost:%s", port)
	log.Println("🔌 Ready to accept requests!")
	log.Println("═══════════════════════════════════════════════════════════════════")

	// Start server
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal(err)
	}
}
