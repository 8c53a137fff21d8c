package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/mokjangapp/mokjang-server/internal/auth"
	"github.com/mokjangapp/mokjang-server/internal/logger"
	"github.com/mokjangapp/mokjang-server/internal/media/photos"
	"github.com/mokjangapp/mokjang-server/internal/roster"
	"github.com/mokjangapp/mokjang-server/internal/service"
)

// ProvideTaxonomyResolver provides the shared filter resolver.
func ProvideTaxonomyResolver(i do.Injector) (*roster.Resolver, error) {
	return roster.NewResolver(roster.DefaultFallbackKeywords()), nil
}

// ProvideRosterPipeline provides the roster computation pipeline.
func ProvideRosterPipeline(i do.Injector) (*roster.Pipeline, error) {
	resolver := do.MustInvoke[*roster.Resolver](i)
	return roster.NewPipeline(resolver), nil
}

// ProvideSessionService provides the session management service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, sessionService, log.Logger), nil
}

// ProvideMemberService provides the member service.
func ProvideMemberService(i do.Injector) (*service.MemberService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMemberService(storeHandle.Store, log.Logger), nil
}

// ProvideFamilyService provides the family service.
func ProvideFamilyService(i do.Injector) (*service.FamilyService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewFamilyService(storeHandle.Store, log.Logger), nil
}

// ProvideMemoService provides the memo log service.
func ProvideMemoService(i do.Injector) (*service.MemoService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMemoService(storeHandle.Store, log.Logger), nil
}

// ProvideRoleService provides the church role service.
func ProvideRoleService(i do.Injector) (*service.RoleService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewRoleService(storeHandle.Store, log.Logger), nil
}

// ProvideTaxonomyService provides the filter taxonomy service.
func ProvideTaxonomyService(i do.Injector) (*service.TaxonomyService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	resolver := do.MustInvoke[*roster.Resolver](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTaxonomyService(storeHandle.Store, resolver, log.Logger), nil
}

// ProvideChowonService provides the chowon service.
func ProvideChowonService(i do.Injector) (*service.ChowonService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewChowonService(storeHandle.Store, log.Logger), nil
}

// ProvideRosterService provides the roster dashboard service.
func ProvideRosterService(i do.Injector) (*service.RosterService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	pipeline := do.MustInvoke[*roster.Pipeline](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewRosterService(storeHandle.Store, pipeline, log.Logger), nil
}

// ProvideAssignmentService provides the org-chart assignment service
// with its board preloaded from the store.
func ProvideAssignmentService(i do.Injector) (*service.AssignmentService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewAssignmentService(storeHandle.Store, log)
	if err := svc.Reload(context.Background()); err != nil {
		log.Warn("Initial org-chart load failed", "error", err)
	}
	return svc, nil
}

// ProvidePhotoService provides the member photo service.
func ProvidePhotoService(i do.Injector) (*service.PhotoService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	storage := do.MustInvoke[*photos.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPhotoService(storeHandle.Store, storage, log.Logger), nil
}
