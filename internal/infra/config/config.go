// internal/infra/config/config.go
package config

import "os"

// Config holds environment-resolved settings for the whole application.
type Config struct {
	Port string

	// GCP / Firebase
	FirestoreProjectID       string
	FirebaseProjectID        string
	FirestoreCredentialsFile string
	GCPCreds                 string

	// Menu source (the dev proxy or the upstream directly) and image CDN.
	MenuBaseURL string
	CDNBaseURL  string
	MenuLat     string
	MenuLng     string

	// CORS
	AllowedOrigin string

	// Order confirmation mail. When the API key env is empty but the secret
	// name is set, the key is resolved from Secret Manager at boot.
	SendGridAPIKey     string
	SendGridSecretName string
	OrderEmailFrom     string
}

// Load reads environment variables and returns the Config.
func Load() *Config {
	defaultProject := getenvDefault("GCP_PROJECT_ID", "quickbite-dev")

	return &Config{
		Port: getenvDefault("PORT", "8080"),

		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirebaseProjectID:        getenvDefault("FIREBASE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		GCPCreds:                 os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),

		MenuBaseURL: getenvDefault("MENU_BASE_URL", "http://localhost:4000/swiggy"),
		CDNBaseURL:  getenvDefault("CDN_BASE_URL", "https://media-assets.swiggy.com/swiggy/image/upload/fl_lossy,f_auto,q_auto,w_660/"),
		MenuLat:     os.Getenv("MENU_LAT"),
		MenuLng:     os.Getenv("MENU_LNG"),

		AllowedOrigin: getenvDefault("ALLOWED_ORIGIN", "*"),

		SendGridAPIKey:     os.Getenv("SENDGRID_API_KEY"),
		SendGridSecretName: os.Getenv("SENDGRID_SECRET_NAME"),
		OrderEmailFrom:     os.Getenv("ORDER_EMAIL_FROM"),
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
