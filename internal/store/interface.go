// Package store defines the persistence interface for the mokjang server.
package store

import (
	"context"

	"github.com/mokjangapp/mokjang-server/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error

	// Members
	CreateMember(ctx context.Context, m *domain.Member) error
	GetMember(ctx context.Context, id string) (*domain.Member, error)
	ListMembers(ctx context.Context) ([]*domain.Member, error)
	ListMembersByFamily(ctx context.Context, familyID string) ([]*domain.Member, error)
	UpdateMember(ctx context.Context, m *domain.Member) error
	UpdateMemberMokjang(ctx context.Context, id, mokjang string) error
	UpdateMemberMemo(ctx context.Context, id, memo string) error
	UpdateMemberTags(ctx context.Context, id string, tags []string) error
	UpdateMemberPhoto(ctx context.Context, id, photoPath, blurHash string) error
	DeleteMember(ctx context.Context, id string) error

	// Families
	CreateFamily(ctx context.Context, f *domain.Family) error
	GetFamily(ctx context.Context, id string) (*domain.Family, error)
	ListFamilies(ctx context.Context) ([]*domain.Family, error)
	UpdateFamily(ctx context.Context, f *domain.Family) error
	DeleteFamily(ctx context.Context, id string) error

	// Roles
	CreateRole(ctx context.Context, r *domain.Role) error
	GetRole(ctx context.Context, id string) (*domain.Role, error)
	ListRoles(ctx context.Context) ([]*domain.Role, error)
	UpdateRole(ctx context.Context, r *domain.Role) error
	DeleteRole(ctx context.Context, id string) error

	// Taxonomies
	CreateParentList(ctx context.Context, p *domain.ParentList) error
	GetParentList(ctx context.Context, id string) (*domain.ParentList, error)
	ListParentLists(ctx context.Context) ([]*domain.ParentList, error)
	UpdateParentList(ctx context.Context, p *domain.ParentList) error
	DeleteParentList(ctx context.Context, id string) error

	CreateChildList(ctx context.Context, c *domain.ChildList) error
	GetChildList(ctx context.Context, id string) (*domain.ChildList, error)
	ListChildLists(ctx context.Context) ([]*domain.ChildList, error)
	ListChildrenByParent(ctx context.Context, parentID string) ([]*domain.ChildList, error)
	UpdateChildList(ctx context.Context, c *domain.ChildList) error
	UpdateChildChowon(ctx context.Context, childID, chowonID string) error
	ReorderChildLists(ctx context.Context, parentID string, orderedIDs []string) error
	DeleteChildList(ctx context.Context, id string) error
	DeleteChildrenByParent(ctx context.Context, parentID string) error

	// Chowon groups
	CreateChowon(ctx context.Context, c *domain.Chowon) error
	GetChowon(ctx context.Context, id string) (*domain.Chowon, error)
	ListChowons(ctx context.Context) ([]*domain.Chowon, error)
	UpdateChowon(ctx context.Context, c *domain.Chowon) error
	DeleteChowon(ctx context.Context, id string) error

	// Users
	CreateUser(ctx context.Context, u *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	CountUsers(ctx context.Context) (int, error)
	UpdateUser(ctx context.Context, u *domain.User) error
	DeleteUser(ctx context.Context, id string) error

	// Auth sessions
	CreateSession(ctx context.Context, s *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, s *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteAllUserSessions(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)
}
