package dto

import (
	"github.com/go-playground/validator/v10"

	"github.com/AbdellahBM/orema-camp/internal/models"
	"github.com/AbdellahBM/orema-camp/pkg/phone"
)

// NewValidator returns a validator with the registration form rules registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("moroccan_phone", func(fl validator.FieldLevel) bool {
		return phone.Valid(fl.Field().String())
	})
	_ = v.RegisterValidation("niveau_scolaire", oneOf(models.NiveauScolaireOptions))
	_ = v.RegisterValidation("org_status", oneOf(models.OrgStatusOptions))
	_ = v.RegisterValidation("tristate", func(fl validator.FieldLevel) bool {
		_, err := models.ParseTriState(fl.Field().String())
		return err == nil
	})
	return v
}

func oneOf(options []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, o := range options {
			if o == value {
				return true
			}
		}
		return false
	}
}
