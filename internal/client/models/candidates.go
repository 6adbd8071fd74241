package models

// RoleOption is one entry of the role list offered on the login form.
type RoleOption struct {
	RoleID   int    `json:"roleId"`
	RoleName string `json:"roleName"`
	IsAdmin  bool   `json:"isAdmin"`
}

// InstitutionCandidate is an institution (management) at which a member
// with the searched contact exists.
type InstitutionCandidate struct {
	ManagementID      int    `json:"managementId"`
	ManagementName    string `json:"managementName"`
	InstitutionCode   string `json:"institutionCode"`
	InstitutionName   string `json:"institutionName"`
	InstitutionLogoSm string `json:"institutionLogosm"`
}

// MemberCandidate is a member record eligible to log in at the selected
// institution. One contact may map to several members, e.g. siblings
// sharing a parent's phone number.
type MemberCandidate struct {
	InstitutionCode string `json:"institutionCode"`
	RoleID          int    `json:"roleId"`
	MemberID        int    `json:"memberId"`
	Category        int    `json:"category"`
	MemberName      string `json:"memberName"`
	MobileNo        string `json:"mobileNo"`
	PhotoPath       string `json:"photoPath"`
	IsActive        int    `json:"isActive"`
}
