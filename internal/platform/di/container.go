// internal/platform/di/container.go
package di

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	httpin "quickbite/internal/adapters/in/http"
	fsrepo "quickbite/internal/adapters/out/firestore"
	"quickbite/internal/adapters/out/mail"
	"quickbite/internal/adapters/out/swiggy"
	usecase "quickbite/internal/application/usecase"
	appcfg "quickbite/internal/infra/config"
	firestoreinfra "quickbite/internal/infra/firestore"
)

// Container is the bundle of dependency objects used from main.go.
// It exists to keep main.go as thin as possible.
//
// Firestore is strict (boot fails without it). Firebase Auth, Secret Manager
// and SendGrid are best-effort (warn + continue): without Auth the /me surface
// returns 401, without mail the order confirmation is skipped.
type Container struct {
	Config *appcfg.Config

	// Clients (owned; Close-managed)
	Firestore     *firestoreinfra.ClientWrapper
	FirebaseApp   *firebase.App
	FirebaseAuth  *firebaseauth.Client
	SecretManager *secretmanager.Client

	// Application layer
	Sessions  *usecase.SessionRegistry
	OrderUC   *usecase.OrderUsecase
	CatalogUC *usecase.CatalogUsecase
}

// NewContainer initializes external clients and wires repositories, usecases
// and session state together.
func NewContainer(ctx context.Context, cfg *appcfg.Config) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("di: config is nil")
	}

	projectID := strings.TrimSpace(cfg.FirestoreProjectID)
	if projectID == "" {
		return nil, errors.New("di: project id is empty (set FIRESTORE_PROJECT_ID or GCP_PROJECT_ID)")
	}

	// Credentials file (optional; mainly for local dev). Empty means ADC.
	credFile := strings.TrimSpace(cfg.FirestoreCredentialsFile)
	if credFile == "" {
		credFile = strings.TrimSpace(cfg.GCPCreds)
	}
	var clientOpts []option.ClientOption
	if credFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credFile))
		log.Printf("[di] Using credentials file for GCP clients")
	} else {
		log.Printf("[di] Using Application Default Credentials")
	}

	c := &Container{Config: cfg}

	// 1) Firestore (strict)
	fsClient, err := firestoreinfra.NewClient(ctx, projectID, credFile)
	if err != nil {
		return nil, fmt.Errorf("di: firestore init failed (project=%s): %w", projectID, err)
	}
	c.Firestore = fsClient

	// 2) Firebase App / Auth (best-effort)
	{
		fbCfg := &firebase.Config{ProjectID: strings.TrimSpace(cfg.FirebaseProjectID)}
		app, err := firebase.NewApp(ctx, fbCfg, clientOpts...)
		if err != nil {
			log.Printf("[di] WARN: firebase app init failed: %v (authenticated routes will reject)", err)
		} else {
			c.FirebaseApp = app
			authClient, err := app.Auth(ctx)
			if err != nil {
				log.Printf("[di] WARN: firebase auth init failed: %v (authenticated routes will reject)", err)
			} else {
				c.FirebaseAuth = authClient
				log.Printf("✅ Firebase Auth initialized (project: %s)", fbCfg.ProjectID)
			}
		}
	}

	// 3) Secret Manager (best-effort; only needed when the SendGrid key
	//    lives in a secret instead of the environment)
	{
		sm, err := secretmanager.NewClient(ctx, clientOpts...)
		if err != nil {
			log.Printf("[di] WARN: secretmanager.NewClient failed: %v", err)
			sm = nil
		}
		c.SecretManager = sm
	}

	// 4) Repositories (Firestore-backed) and the menu source
	cartStore := fsrepo.NewCartStoreFS(fsClient.Client)
	orderRepo := fsrepo.NewOrderRepositoryFS(fsClient.Client)
	restaurantRepo := fsrepo.NewRestaurantRepositoryFS(fsClient.Client)
	menuSource := swiggy.NewMenuClient(cfg.MenuBaseURL, cfg.CDNBaseURL, cfg.MenuLat, cfg.MenuLng)

	// 5) Usecases + per-user cart sessions
	c.Sessions = usecase.NewSessionRegistry(cartStore)
	c.CatalogUC = usecase.NewCatalogUsecase(restaurantRepo, menuSource)

	orderUC := usecase.NewOrderUsecase(orderRepo)
	if sender, from := c.buildOrderMailer(ctx); sender != nil {
		orderUC = orderUC.WithMail(sender, from)
	}
	c.OrderUC = orderUC

	return c, nil
}

// buildOrderMailer resolves the SendGrid API key (env first, then Secret
// Manager) and returns the configured sender, or nil when mail is disabled.
func (c *Container) buildOrderMailer(ctx context.Context) (usecase.EmailSender, string) {
	cfg := c.Config

	from := strings.TrimSpace(cfg.OrderEmailFrom)
	if from == "" {
		log.Printf("[di] order confirmation mail disabled (ORDER_EMAIL_FROM empty)")
		return nil, ""
	}

	apiKey := strings.TrimSpace(cfg.SendGridAPIKey)
	if apiKey == "" {
		secretName := strings.TrimSpace(cfg.SendGridSecretName)
		if secretName == "" || c.SecretManager == nil {
			log.Printf("[di] order confirmation mail disabled (no SendGrid key available)")
			return nil, ""
		}
		key, err := c.accessSecret(ctx, secretName)
		if err != nil {
			log.Printf("[di] WARN: failed to resolve SendGrid key from Secret Manager: %v", err)
			return nil, ""
		}
		apiKey = key
	}

	log.Printf("[di] order confirmation mail enabled from=%s", from)
	return mail.NewSendGridClient(apiKey), from
}

// accessSecret reads the latest version of a secret in the configured project.
func (c *Container) accessSecret(ctx context.Context, secretID string) (string, error) {
	if c == nil || c.SecretManager == nil {
		return "", errors.New("di: secret manager client is not configured")
	}
	name := "projects/" + strings.TrimSpace(c.Config.FirestoreProjectID) +
		"/secrets/" + secretID + "/versions/latest"
	resp, err := c.SecretManager.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("di: AccessSecretVersion failed (%s): %w", name, err)
	}
	if resp == nil || resp.Payload == nil {
		return "", fmt.Errorf("di: empty secret payload (%s)", name)
	}
	return strings.TrimSpace(string(resp.Payload.Data)), nil
}

// RouterDeps exposes the handler dependencies for the HTTP router.
func (c *Container) RouterDeps() httpin.RouterDeps {
	return httpin.RouterDeps{
		FirebaseAuth: c.FirebaseAuth,
		Sessions:     c.Sessions,
		OrderUC:      c.OrderUC,
		CatalogUC:    c.CatalogUC,
	}
}

// Close releases owned clients. Safe to call on a partially built container.
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.Sessions != nil {
		c.Sessions.CloseAll()
	}
	if c.SecretManager != nil {
		_ = c.SecretManager.Close()
	}
	if c.Firestore != nil {
		_ = c.Firestore.Close()
	}
}
