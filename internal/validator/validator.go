// Package validator registers the custom rules used by request binding and
// by schema field validation.
package validator

import (
	"fmt"
	"net"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"inventory/internal/schema"
)

// fieldValidate checks single values against schema formats.
var fieldValidate = newFieldValidator()

func newFieldValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("dotted_quad", validateDottedQuad)
	return v
}

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("dotted_quad", validateDottedQuad)
		_ = v.RegisterValidation("sort_order", validateSortOrder)
		_ = v.RegisterValidation("power_action", validatePowerAction)
		_ = v.RegisterValidation("change_status", validateChangeStatus)
	}
}

// validateDottedQuad accepts only the four-octet decimal form, rejecting the
// IPv4-mapped IPv6 spellings net.ParseIP would also take.
func validateDottedQuad(fl validator.FieldLevel) bool {
	return IsDottedQuad(fl.Field().String())
}

func validateSortOrder(fl validator.FieldLevel) bool {
	switch strings.ToLower(fl.Field().String()) {
	case "asc", "desc":
		return true
	}
	return false
}

func validatePowerAction(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "start", "shutdown", "reboot":
		return true
	}
	return false
}

func validateChangeStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "success", "failed":
		return true
	}
	return false
}

// IsDottedQuad reports whether s is an IPv4 address in a.b.c.d form.
func IsDottedQuad(s string) bool {
	if strings.Count(s, ".") != 3 || strings.ContainsAny(s, ":") {
		return false
	}
	ip := net.ParseIP(s)
	return ip != nil && ip.To4() != nil
}

// IPv4Number returns the address as an unsigned 32-bit value so addresses
// order numerically.
func IPv4Number(s string) (int64, bool) {
	if !IsDottedQuad(s) {
		return 0, false
	}
	ip := net.ParseIP(s).To4()
	return int64(ip[0])<<24 | int64(ip[1])<<16 | int64(ip[2])<<8 | int64(ip[3]), true
}

// CheckFormat validates v against a schema format and returns a
// user-facing message, or "" when v is acceptable.
func CheckFormat(format schema.Format, v string) string {
	switch format {
	case schema.FormatIPv4:
		if err := fieldValidate.Var(v, "required,dotted_quad"); err != nil {
			return fmt.Sprintf("'%s' is not a valid IPv4 address", v)
		}
	}
	return ""
}

// CheckOption validates a select value against its options.
func CheckOption(f schema.Field, v string) string {
	if err := fieldValidate.Var(v, "oneof="+strings.Join(f.Options, " ")); err != nil {
		return fmt.Sprintf("'%s' is not a valid option (allowed: %s)", v, strings.Join(f.Options, ", "))
	}
	return ""
}
