package services

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const contactTag = "contact"

var (
	emailPattern = regexp.MustCompile(`^[0-9a-zA-Z._%+-]+@[0-9a-zA-Z.-]+\.[a-zA-Z]{2,4}$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10,}$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()

	// Report JSON names, the same ones the backend uses.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation(contactTag, contactValidation)
	return v
}

func contactValidation(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	s = strings.TrimSpace(s)
	return emailPattern.MatchString(s) || phonePattern.MatchString(s)
}

type searchUserInput struct {
	Contact string `json:"mobileNo" validate:"required,contact"`
	RoleID  int    `json:"roleId" validate:"gt=0"`
}

// ValidateContact checks that contact is an email address or a phone number
// of at least ten digits, ignoring surrounding whitespace.
func ValidateContact(contact string) error {
	return validateSearchUser(searchUserInput{Contact: contact, RoleID: 1})
}

func validateSearchUser(in searchUserInput) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case contactTag:
		return "enter a valid email or mobile number"
	case "gt":
		return "select a role"
	default:
		return "invalid value"
	}
}
