package service

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/honeynil/bankfront/internal/models"
	pkgerrors "github.com/honeynil/bankfront/pkg/errors"
)

// ValidationError lists the rejected form fields with the message to show
// next to each one.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("%v: %s", pkgerrors.ErrInvalidInput, strings.Join(keys, ", "))
}

func (e *ValidationError) Unwrap() error {
	return pkgerrors.ErrInvalidInput
}

type profileForm struct {
	Name   string `json:"name" validate:"required"`
	Phone  string `json:"phone" validate:"il_phone"`
	IDNum  string `json:"idNum" validate:"il_id"`
	Secret string `json:"secret" validate:"min=4"`
}

type accountForm struct {
	BankNumber    string `json:"bankNumber" validate:"bank_number"`
	BranchNumber  string `json:"branchNumber" validate:"branch_number"`
	AccountNumber string `json:"accountNumber" validate:"account_number"`
	AccountOwner  string `json:"accountOwner" validate:"required"`
}

var fieldMessages = map[string]string{
	"name":          "יש להזין שם מלא",
	"phone":         "טלפון לא תקין",
	"idNum":         "תעודת זהות לא תקינה",
	"secret":        "קוד סודי קצר מדי",
	"bankNumber":    "מספר בנק לא תקין",
	"branchNumber":  "מספר סניף לא תקין",
	"accountNumber": "מספר חשבון לא תקין",
	"accountOwner":  "יש להזין שם בעל חשבון",
}

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	patterns := map[string]*regexp.Regexp{
		"il_phone":       regexp.MustCompile(`^0\d{8,9}$`),
		"il_id":          regexp.MustCompile(`^\d{9}$`),
		"bank_number":    regexp.MustCompile(`^\d{2,3}$`),
		"branch_number":  regexp.MustCompile(`^\d{1,3}$`),
		"account_number": regexp.MustCompile(`^\d{5,12}$`),
	}
	for tag, re := range patterns {
		re := re
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		})
		if err != nil {
			panic(fmt.Sprintf("register validation %s: %v", tag, err))
		}
	}
	return v
}

// ValidateUser checks the registration or profile form. Bank account fields
// are only required when registering.
func ValidateUser(u models.User, register bool) error {
	fields := map[string]string{}
	collect(fields, formValidator.Struct(profileForm{
		Name:   strings.TrimSpace(u.Name),
		Phone:  u.Phone,
		IDNum:  u.IDNum,
		Secret: u.Secret,
	}))
	if register {
		acc := models.BankAccount{}
		if u.Account != nil {
			acc = *u.Account
		}
		collect(fields, formValidator.Struct(accountForm{
			BankNumber:    acc.BankNumber,
			BranchNumber:  acc.BranchNumber,
			AccountNumber: acc.AccountNumber,
			AccountOwner:  strings.TrimSpace(acc.AccountOwner),
		}))
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func collect(fields map[string]string, err error) {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return
	}
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessages[fe.Field()]
	}
}

// checkCredentials is the login form check: all three fields present.
func checkCredentials(u models.User) error {
	if strings.TrimSpace(u.Phone) == "" || strings.TrimSpace(u.IDNum) == "" || u.Secret == "" {
		return pkgerrors.ErrMissingCredentials
	}
	return nil
}
