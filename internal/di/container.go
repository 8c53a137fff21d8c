// Package di provides dependency injection configuration for the mokjang server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/mokjangapp/mokjang-server/internal/auth"
	"github.com/mokjangapp/mokjang-server/internal/config"
	"github.com/mokjangapp/mokjang-server/internal/di/providers"
	"github.com/mokjangapp/mokjang-server/internal/logger"
	"github.com/mokjangapp/mokjang-server/internal/media/photos"
	"github.com/mokjangapp/mokjang-server/internal/roster"
	"github.com/mokjangapp/mokjang-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Storage layer
	do.Provide(injector, providers.ProvidePhotoStorage)

	// Roster computation
	do.Provide(injector, providers.ProvideTaxonomyResolver)
	do.Provide(injector, providers.ProvideRosterPipeline)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideMemberService)
	do.Provide(injector, providers.ProvideFamilyService)
	do.Provide(injector, providers.ProvideMemoService)
	do.Provide(injector, providers.ProvideRoleService)
	do.Provide(injector, providers.ProvideTaxonomyService)
	do.Provide(injector, providers.ProvideChowonService)
	do.Provide(injector, providers.ProvideRosterService)
	do.Provide(injector, providers.ProvideAssignmentService)
	do.Provide(injector, providers.ProvidePhotoService)

	// Workers
	do.Provide(injector, providers.ProvideSessionCleanupJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*photos.Storage](injector)
	_ = do.MustInvoke[*roster.Resolver](injector)
	_ = do.MustInvoke[*roster.Pipeline](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.SessionService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.MemberService](injector)
	_ = do.MustInvoke[*service.FamilyService](injector)
	_ = do.MustInvoke[*service.MemoService](injector)
	_ = do.MustInvoke[*service.RoleService](injector)
	_ = do.MustInvoke[*service.TaxonomyService](injector)
	_ = do.MustInvoke[*service.ChowonService](injector)
	_ = do.MustInvoke[*service.RosterService](injector)
	_ = do.MustInvoke[*service.AssignmentService](injector)
	_ = do.MustInvoke[*service.PhotoService](injector)

	// Workers
	_ = do.MustInvoke[*providers.SessionCleanupJob](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
