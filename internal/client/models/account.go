package models

import (
	"fmt"
	"time"
)

// Account is one previously completed login kept on the device. The JSON
// field names are the persisted format of the savedUsers key.
type Account struct {
	ID              string    `json:"id"`
	InstitutionCode string    `json:"institutionCode"`
	RoleID          int       `json:"roleId"`
	MemberID        int       `json:"memberId"`
	Category        int       `json:"category"`
	MemberName      string    `json:"memberName"`
	MobileNo        string    `json:"mobileNo"`
	PhotoPath       string    `json:"photoPath"`
	IsActive        int       `json:"isActive"`
	LoginTime       time.Time `json:"loginTime"`
}

// AccountKey identifies the member behind an account. At most one saved
// account exists per key.
type AccountKey struct {
	MemberID        int
	InstitutionCode string
}

func (a Account) Key() AccountKey {
	return AccountKey{MemberID: a.MemberID, InstitutionCode: a.InstitutionCode}
}

// Role returns the account's role from the well-known catalogue.
func (a Account) Role() Role {
	return Role(a.RoleID)
}

func (a Account) String() string {
	return fmt.Sprintf("%s (%s, %s)", a.MemberName, a.Role(), a.InstitutionCode)
}

// NewAccount turns the member chosen in the last login step into an account
// with the given id and login time.
func NewAccount(id string, m MemberCandidate, loginTime time.Time) Account {
	return Account{
		ID:              id,
		InstitutionCode: m.InstitutionCode,
		RoleID:          m.RoleID,
		MemberID:        m.MemberID,
		Category:        m.Category,
		MemberName:      m.MemberName,
		MobileNo:        m.MobileNo,
		PhotoPath:       m.PhotoPath,
		IsActive:        m.IsActive,
		LoginTime:       loginTime,
	}
}

// FindAccount returns the index of the account with id, or -1.
func FindAccount(accounts []Account, id string) int {
	for i, a := range accounts {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// FindAccountByKey returns the index of the account with key, or -1.
func FindAccountByKey(accounts []Account, key AccountKey) int {
	for i, a := range accounts {
		if a.Key() == key {
			return i
		}
	}
	return -1
}
