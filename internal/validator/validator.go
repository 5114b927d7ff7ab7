// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// invoiceNumberRegex matches the INV-{year}-{sequence} format.
var invoiceNumberRegex = regexp.MustCompile(`^INV-\d{4}-\d{3}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("project_status", validateProjectStatus)
		_ = v.RegisterValidation("invoice_number", validateInvoiceNumber)
	}
}

func validateProjectStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "active", "completed", "invoiced":
		return true
	}
	return false
}

func validateInvoiceNumber(fl validator.FieldLevel) bool {
	return invoiceNumberRegex.MatchString(fl.Field().String())
}
