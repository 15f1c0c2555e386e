package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string

	// Completion service (Gemini)
	APIKeys     []string // probed in order, first valid wins
	GeminiModel string
	GeminiURL   string

	// Enrichment collaborators
	NominatimURL string
	GenderizeURL string

	// Notification email
	SenderEmail   string
	ReceiverEmail string
	AppPassword   string
	SMTPHost      string
	SMTPPort      string

	Port string
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
		log.Println("Attempting to load from parent directory...")
		err = godotenv.Load("../../.env")
		if err != nil {
			log.Println("Warning: Could not load .env file, using environment variables")
		}
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.5-flash-lite" // default model
	}

	geminiURL := os.Getenv("GEMINI_URL")
	if geminiURL == "" {
		geminiURL = "https://generativelanguage.googleapis.com/v1beta/models/" + model + ":generateContent"
	}

	nominatimURL := os.Getenv("NOMINATIM_URL")
	if nominatimURL == "" {
		nominatimURL = "https://nominatim.openstreetmap.org/search"
	}

	genderizeURL := os.Getenv("GENDERIZE_URL")
	if genderizeURL == "" {
		genderizeURL = "https://api.genderize.io"
	}

	smtpHost := os.Getenv("SMTP_HOST")
	if smtpHost == "" {
		smtpHost = "smtp.gmail.com"
	}

	smtpPort := os.Getenv("SMTP_PORT")
	if smtpPort == "" {
		smtpPort = "587"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	var keys []string
	for _, name := range []string{"API_KEY1", "API_KEY2"} {
		if v := os.Getenv(name); v != "" {
			keys = append(keys, v)
		}
	}

	return &Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		APIKeys:       keys,
		GeminiModel:   model,
		GeminiURL:     geminiURL,
		NominatimURL:  nominatimURL,
		GenderizeURL:  genderizeURL,
		SenderEmail:   os.Getenv("SENDER_EMAIL"),
		ReceiverEmail: os.Getenv("RECEIVER_EMAIL"),
		AppPassword:   os.Getenv("APP_PASSWORD"),
		SMTPHost:      smtpHost,
		SMTPPort:      smtpPort,
		Port:          port,
	}
}
