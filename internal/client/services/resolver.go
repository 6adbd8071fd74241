package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/acadex/internal/client/client"
	"github.com/dmitrijs2005/acadex/internal/client/models"
	"github.com/dmitrijs2005/acadex/internal/logging"
	"github.com/dmitrijs2005/acadex/internal/metrics"
	"github.com/google/uuid"
)

const (
	stepRoles       = "roles"
	stepSearchUser  = "search_user"
	stepLoadMembers = "load_members"
)

// Draft is the in-progress state of one login attempt. It is never
// persisted.
type Draft struct {
	Contact      string
	RoleID       int
	Institutions []models.InstitutionCandidate
	Institution  *models.InstitutionCandidate
	Members      []models.MemberCandidate
	Member       *models.MemberCandidate
}

func (d Draft) clone() Draft {
	out := d
	out.Institutions = slices.Clone(d.Institutions)
	out.Members = slices.Clone(d.Members)
	if d.Institution != nil {
		inst := *d.Institution
		out.Institution = &inst
	}
	if d.Member != nil {
		m := *d.Member
		out.Member = &m
	}
	return out
}

// AccountLogin receives the account a completed login attempt produced.
type AccountLogin interface {
	Login(ctx context.Context, account models.Account) error
}

// Resolver walks a contact through role, institution and member selection.
// Each network step keeps the draft unchanged on failure so it can be
// retried; changing an earlier answer discards everything after it.
type Resolver struct {
	client  client.Client
	log     logging.Logger
	metrics metrics.Recorder
	now     func() time.Time
	newID   func() string

	// step serializes network steps; mu guards the draft.
	step sync.Mutex
	mu   sync.Mutex
	gen  uint64
	d    Draft
}

type ResolverOption func(*Resolver)

func WithResolverMetrics(r metrics.Recorder) ResolverOption {
	return func(res *Resolver) { res.metrics = r }
}

// WithClock overrides time.Now and the account id generator.
func WithClock(now func() time.Time, newID func() string) ResolverOption {
	return func(res *Resolver) {
		if now != nil {
			res.now = now
		}
		if newID != nil {
			res.newID = newID
		}
	}
}

func NewResolver(c client.Client, log logging.Logger, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		client:  c,
		log:     log,
		metrics: metrics.Nop{},
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Draft returns a copy of the current login attempt.
func (r *Resolver) Draft() Draft {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.d.clone()
}

// Reset abandons the current login attempt. A network step still in
// flight will not write its result.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	r.d = Draft{}
}

// ResetDraft lets the session manager discard the draft on account changes.
func (r *Resolver) ResetDraft() { r.Reset() }

func (r *Resolver) FetchRoles(ctx context.Context) ([]models.RoleOption, error) {
	start := time.Now()
	roles, err := r.client.FetchRoles(ctx)
	r.metrics.RecordResolverRequest(stepRoles, time.Since(start), err)
	if err != nil {
		r.log.Warn(ctx, "fetch roles failed", "error", err)
		return nil, fmt.Errorf("fetch roles: %w", err)
	}
	return roles, nil
}

// SearchUser validates the contact and role, then asks the backend which
// institutions know the contact under that role.
func (r *Resolver) SearchUser(ctx context.Context, contact string, roleID int) ([]models.InstitutionCandidate, error) {
	contact = strings.TrimSpace(contact)
	if err := validateSearchUser(searchUserInput{Contact: contact, RoleID: roleID}); err != nil {
		return nil, err
	}

	r.step.Lock()
	defer r.step.Unlock()
	gen := r.generation()

	start := time.Now()
	insts, err := r.client.SearchUser(ctx, contact, roleID)
	r.metrics.RecordResolverRequest(stepSearchUser, time.Since(start), err)
	if err != nil {
		r.log.Warn(ctx, "search user failed", "role_id", roleID, "error", err)
		return nil, fmt.Errorf("search user: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		return nil, fmt.Errorf("search user: %w", ErrStepOutOfOrder)
	}
	r.d = Draft{
		Contact:      contact,
		RoleID:       roleID,
		Institutions: slices.Clone(insts),
	}
	return insts, nil
}

// SelectInstitution picks one of the institutions SearchUser returned by its
// institution code. Management ids may be shared by several schools.
func (r *Resolver) SelectInstitution(institutionCode string) (models.InstitutionCandidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.d.Contact == "" {
		return models.InstitutionCandidate{}, fmt.Errorf("select institution: %w", ErrStepOutOfOrder)
	}
	i := slices.IndexFunc(r.d.Institutions, func(c models.InstitutionCandidate) bool {
		return c.InstitutionCode == institutionCode
	})
	if i < 0 {
		return models.InstitutionCandidate{}, newValidationError("institutionCode", "select a school")
	}

	inst := r.d.Institutions[i]
	r.gen++
	r.d.Institution = &inst
	r.d.Members = nil
	r.d.Member = nil
	return inst, nil
}

// LoadMembers lists the members the contact may log in as at the selected
// institution.
func (r *Resolver) LoadMembers(ctx context.Context) ([]models.MemberCandidate, error) {
	r.step.Lock()
	defer r.step.Unlock()

	r.mu.Lock()
	if r.d.Institution == nil {
		r.mu.Unlock()
		return nil, fmt.Errorf("load members: %w", ErrStepOutOfOrder)
	}
	req := client.LoadMembersRequest{
		InstitutionCode: r.d.Institution.InstitutionCode,
		RoleID:          r.d.RoleID,
		Contact:         r.d.Contact,
	}
	gen := r.gen
	r.mu.Unlock()

	start := time.Now()
	members, err := r.client.LoadMembers(ctx, req)
	r.metrics.RecordResolverRequest(stepLoadMembers, time.Since(start), err)
	if err != nil {
		r.log.Warn(ctx, "load members failed", "institution", req.InstitutionCode, "error", err)
		return nil, fmt.Errorf("load members: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		return nil, fmt.Errorf("load members: %w", ErrStepOutOfOrder)
	}
	r.d.Members = slices.Clone(members)
	r.d.Member = nil
	return members, nil
}

// SelectMember picks one of the members LoadMembers returned.
func (r *Resolver) SelectMember(memberID int) (models.MemberCandidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.d.Institution == nil || r.d.Members == nil {
		return models.MemberCandidate{}, fmt.Errorf("select member: %w", ErrStepOutOfOrder)
	}
	i := slices.IndexFunc(r.d.Members, func(m models.MemberCandidate) bool {
		return m.MemberID == memberID
	})
	if i < 0 {
		return models.MemberCandidate{}, newValidationError("memberId", "select a user")
	}

	m := r.d.Members[i]
	r.d.Member = &m
	return m, nil
}

// Complete turns the selected member into an account, hands it to sessions
// and clears the draft once the login has been saved.
func (r *Resolver) Complete(ctx context.Context, sessions AccountLogin) (models.Account, error) {
	r.step.Lock()
	defer r.step.Unlock()

	r.mu.Lock()
	if r.d.Member == nil {
		r.mu.Unlock()
		return models.Account{}, fmt.Errorf("complete login: %w", ErrStepOutOfOrder)
	}
	acc := models.NewAccount(r.newID(), *r.d.Member, r.now().UTC())
	gen := r.gen
	r.mu.Unlock()

	if err := sessions.Login(ctx, acc); err != nil {
		return models.Account{}, fmt.Errorf("complete login: %w", err)
	}

	r.mu.Lock()
	if r.gen == gen {
		r.gen++
		r.d = Draft{}
	}
	r.mu.Unlock()

	r.log.Info(ctx, "login completed", "account_id", acc.ID, "member_id", acc.MemberID, "institution", acc.InstitutionCode)
	return acc, nil
}

func (r *Resolver) generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen
}
