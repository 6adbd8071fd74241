package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/acadex/internal/client/client"
	"github.com/dmitrijs2005/acadex/internal/client/models"
	"github.com/dmitrijs2005/acadex/internal/client/services"
)

var errCanceled = errors.New("login canceled")

// Login walks the user through role, contact, institution and member
// selection and signs the chosen member in. An empty answer at any prompt
// abandons the attempt. A failed backend call asks the same step again.
func (a *App) Login(ctx context.Context) error {
	err := a.login(ctx)
	switch {
	case err == nil:
		u, _ := a.sessions.User()
		a.printf("Signed in as %s\n", u)
	case errors.Is(err, errCanceled):
		a.resolver.Reset()
		a.printf("Login canceled.\n")
	default:
		a.resolver.Reset()
		a.printf("Login failed: %s\n", describeError(err))
	}
	return err
}

func (a *App) login(ctx context.Context) error {
	roles, err := a.resolver.FetchRoles(ctx)
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		return errors.New("no roles available")
	}

	var institutions []models.InstitutionCandidate
	for {
		role, err := a.pickRole(roles)
		if err != nil {
			return err
		}
		contact, err := GetSimpleText(a.reader, "-Enter email or mobile number", a.out)
		if err != nil {
			return err
		}
		if contact == "" {
			return errCanceled
		}

		institutions, err = a.resolver.SearchUser(ctx, contact, role.RoleID)
		if err == nil {
			break
		}
		if !retryable(err) {
			return err
		}
		a.printf("%s\n", describeError(err))
	}
	if len(institutions) == 0 {
		return errors.New("no institutions found for this contact")
	}

	var members []models.MemberCandidate
	for {
		inst, err := a.pickInstitution(institutions)
		if err != nil {
			return err
		}
		if _, err := a.resolver.SelectInstitution(inst.InstitutionCode); err != nil {
			return err
		}

		members, err = a.resolver.LoadMembers(ctx)
		if err == nil && len(members) > 0 {
			break
		}
		if err != nil && !retryable(err) {
			return err
		}
		if err != nil {
			a.printf("%s\n", describeError(err))
		} else {
			a.printf("No members found in %s.\n", inst.InstitutionName)
		}
	}

	m, err := a.pickMember(members)
	if err != nil {
		return err
	}
	if _, err := a.resolver.SelectMember(m.MemberID); err != nil {
		return err
	}

	_, err = a.resolver.Complete(ctx, a.sessions)
	return err
}

func (a *App) pickRole(roles []models.RoleOption) (models.RoleOption, error) {
	opts := make([]string, len(roles))
	for i, r := range roles {
		opts[i] = r.RoleName
	}
	i, err := a.choose("-Select your role", opts)
	if err != nil {
		return models.RoleOption{}, err
	}
	return roles[i], nil
}

func (a *App) pickInstitution(insts []models.InstitutionCandidate) (models.InstitutionCandidate, error) {
	opts := make([]string, len(insts))
	for i, inst := range insts {
		opts[i] = fmt.Sprintf("%s (%s)", inst.InstitutionName, inst.InstitutionCode)
	}
	i, err := a.choose("-Select an institution", opts)
	if err != nil {
		return models.InstitutionCandidate{}, err
	}
	return insts[i], nil
}

func (a *App) pickMember(members []models.MemberCandidate) (models.MemberCandidate, error) {
	opts := make([]string, len(members))
	for i, m := range members {
		opts[i] = m.MemberName
	}
	i, err := a.choose("-Select a member", opts)
	if err != nil {
		return models.MemberCandidate{}, err
	}
	return members[i], nil
}

func (a *App) choose(prompt string, opts []string) (int, error) {
	i, err := GetChoice(a.reader, prompt, opts, a.out)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		return 0, errCanceled
	}
	return i, nil
}

// retryable reports whether the same step can simply be asked again.
func retryable(err error) bool {
	return errors.Is(err, services.ErrValidation) ||
		errors.Is(err, client.ErrTransaction) ||
		errors.Is(err, client.ErrUnavailable)
}

func describeError(err error) string {
	var te *client.TransactionError
	switch {
	case errors.As(err, &te) && te.Message != "":
		return te.Message
	case errors.Is(err, client.ErrUnavailable):
		return "Server unavailable, please try again later."
	case errors.Is(err, client.ErrUnauthorized):
		return "Access denied."
	default:
		return err.Error()
	}
}
