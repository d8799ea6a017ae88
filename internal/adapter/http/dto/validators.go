package dto

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"helpdesk-webhooks/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("webex_resource", validateWebexResource)
		_ = v.RegisterValidation("webex_event", validateWebexEvent)
		_ = v.RegisterValidation("user_role", validateUserRole)
	}
}

func validateWebexResource(fl validator.FieldLevel) bool {
	return domain.Resource(fl.Field().String()).IsValid()
}

func validateWebexEvent(fl validator.FieldLevel) bool {
	return domain.Event(fl.Field().String()).IsValid()
}

func validateUserRole(fl validator.FieldLevel) bool {
	return domain.Role(fl.Field().String()).IsValid()
}

// dateOnly is the YYYY-MM-DD form accepted for log date filters.
const dateOnly = "2006-01-02"

// ParseDateBound parses an RFC3339 timestamp or a plain date. A plain date
// used as an upper bound covers the whole day.
func ParseDateBound(s string, upper bool) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	d, err := time.Parse(dateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: use YYYY-MM-DD or RFC3339", s)
	}
	if upper {
		d = d.Add(24*time.Hour - time.Nanosecond)
	}
	return &d, nil
}

// SanitizeStruct trims surrounding whitespace from every exported string
// field (including *string) of a struct pointer. Fields tagged
// `sanitize:"-"` (secrets, passwords) are left byte-for-byte intact.
func SanitizeStruct(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return
	}
	sanitizeFields(rv.Elem())
}

func sanitizeFields(rv reflect.Value) {
	rt := rv.Type()
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanSet() || rt.Field(i).Tag.Get("sanitize") == "-" {
			continue
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(sanitize(f.String()))
		case reflect.Ptr:
			if f.IsNil() {
				continue
			}
			elem := f.Elem()
			if elem.Kind() == reflect.String {
				elem.SetString(sanitize(elem.String()))
			}
		}
	}
}

func sanitize(s string) string {
	return strings.TrimSpace(s)
}
