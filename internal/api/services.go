package api

import (
	"github.com/mokjangapp/mokjang-server/internal/media/photos"
	"github.com/mokjangapp/mokjang-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth       *service.AuthService
	Session    *service.SessionService
	Member     *service.MemberService
	Family     *service.FamilyService
	Memo       *service.MemoService
	Role       *service.RoleService
	Taxonomy   *service.TaxonomyService
	Chowon     *service.ChowonService
	Roster     *service.RosterService
	Assignment *service.AssignmentService
	Photo      *service.PhotoService
}

// StorageServices groups file storage handlers used by the API server.
type StorageServices struct {
	Photos *photos.Storage // Member profile photos
}
