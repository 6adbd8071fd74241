package client

import (
	"context"

	"github.com/dmitrijs2005/acadex/internal/client/models"
)

// Client is the contract with the school-management backend used by the
// login flow.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	FetchRoles(ctx context.Context) ([]models.RoleOption, error)
	SearchUser(ctx context.Context, contact string, roleID int) ([]models.InstitutionCandidate, error)
	LoadMembers(ctx context.Context, req LoadMembersRequest) ([]models.MemberCandidate, error)
}

// LoadMembersRequest selects the institution and role whose members are
// listed for a contact.
type LoadMembersRequest struct {
	InstitutionCode string
	RoleID          int
	Contact         string
}
