package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"TalentForm-backend/internal/auth"
	"TalentForm-backend/internal/controller/file"
	"TalentForm-backend/internal/database"
)

// Server holds the port the server runs on plus the shared backends the route
// handlers need.
type Server struct {
	port int

	DB        *database.DBinstanceStruct
	Storage   file.StorageClient
	Blacklist auth.JwtBlacklistStore
}

// NewServer constructs a new http.Server wired to the database, the optional
// cloud storage backend, and the token blacklist.
func NewServer() *http.Server {
	port, _ := strconv.Atoi(os.Getenv("PORT"))

	db, err := database.GetMainDB()
	if err != nil {
		log.Fatalf("Database failed to initialize: %s", err)
	}

	var storage file.StorageClient
	if bucket := os.Getenv("GCS_BUCKET_NAME"); bucket != "" {
		client, err := file.NewCloudStorageClient(bucket)
		if err != nil {
			log.Fatalf("Cloud storage failed to initialize: %s", err)
		}
		storage = client
	} else {
		log.Println("GCS_BUCKET_NAME not set, storing uploads in the database")
	}

	s := &Server{
		port:      port,
		DB:        db,
		Storage:   storage,
		Blacklist: auth.NewInMemoryBlacklistStore(),
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
