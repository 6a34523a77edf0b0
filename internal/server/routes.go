package server

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"saveit/internal/config"
	"saveit/internal/db"
	"saveit/internal/email"
	"saveit/internal/handlers"
	"saveit/internal/handlers/api"
	"saveit/internal/importer"
	"saveit/internal/middleware"
	"saveit/internal/sharing"
)

// RegisterRoutes registers all application routes. yamlCfg may be nil.
func (s *Server) RegisterRoutes(ctx context.Context, database *db.DB, yamlCfg *config.YAMLConfig) error {
	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(database)

	// Initialize handlers
	probeHandler := handlers.NewProbeHandler(database)
	linkHandler := api.NewLinkHandler(database)
	folderHandler := api.NewFolderHandler(database)
	groupHandler := api.NewGroupHandler(database)
	sharedHandler := api.NewSharedHandler(
		s.Cfg,
		sharing.NewResolver(database),
		importer.New(database, database, database),
		sharing.NewPlatforms(yamlCfg),
		email.NewNotifier(s.Cfg),
		database,
	)

	// Probes and metrics
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Auth routes
	if s.Cfg.OIDCIssuer != "" {
		authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg, database)
		if err != nil {
			return err
		}
		s.App.Get("/auth/login", authHandler.Login)
		s.App.Get("/auth/callback", authHandler.Callback)
		s.App.Get("/auth/logout", authHandler.Logout)
	} else if s.Cfg.IsDev() {
		log.Println("OIDC_ISSUER not set; sign-in is disabled")
	} else {
		return errors.New("OIDC_ISSUER is required outside development")
	}

	apiGroup := s.App.Group("/api")

	// Public: anyone with a share link can view it
	apiGroup.Get("/shared", authMiddleware.OptionalAuth, sharedHandler.Get)

	// Saving and sharing require a signed-in user
	apiGroup.Post("/shared/save", authMiddleware.RequireAuth, sharedHandler.Save)
	apiGroup.Post("/share", authMiddleware.RequireAuth, sharedHandler.ShareLink)
	apiGroup.Post("/share/email", authMiddleware.RequireAuth, sharedHandler.ShareEmail)

	// Links
	apiGroup.Get("/links", authMiddleware.RequireAuth, linkHandler.List)
	apiGroup.Get("/links/stats", authMiddleware.RequireAuth, linkHandler.Stats)
	apiGroup.Post("/links", authMiddleware.RequireAuth, linkHandler.Create)
	apiGroup.Put("/links/:id", authMiddleware.RequireAuth, linkHandler.Update)
	apiGroup.Delete("/links/:id", authMiddleware.RequireAuth, linkHandler.Delete)

	// Folders
	apiGroup.Get("/folders", authMiddleware.RequireAuth, folderHandler.List)
	apiGroup.Post("/folders", authMiddleware.RequireAuth, folderHandler.Create)
	apiGroup.Get("/folders/:id", authMiddleware.RequireAuth, folderHandler.Get)
	apiGroup.Put("/folders/:id", authMiddleware.RequireAuth, folderHandler.Update)
	apiGroup.Delete("/folders/:id", authMiddleware.RequireAuth, folderHandler.Delete)

	// Recipient groups for email sharing
	apiGroup.Get("/groups", authMiddleware.RequireAuth, groupHandler.List)
	apiGroup.Post("/groups", authMiddleware.RequireAuth, groupHandler.Create)
	apiGroup.Get("/groups/:id", authMiddleware.RequireAuth, groupHandler.Get)
	apiGroup.Put("/groups/:id", authMiddleware.RequireAuth, groupHandler.Update)
	apiGroup.Delete("/groups/:id", authMiddleware.RequireAuth, groupHandler.Delete)

	return nil
}
