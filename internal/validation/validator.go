package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"

	"rebate_audit/internal/models"
)

// New returns a validator that reports fields by their flag/query name.
func New() *validatorv10.Validate {
	v := validatorv10.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	v.RegisterValidation("auditdate", auditDate)
	return v
}

// auditDate accepts a calendar date or a full timestamp in the stored layout.
func auditDate(fl validatorv10.FieldLevel) bool {
	value := fl.Field().String()
	for _, layout := range []string{models.DateLayout, models.TimestampLayout} {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}

// ReportParams checks the values a caller is about to bind into the audit
// query and turns validator output into one readable error.
func ReportParams(v *validatorv10.Validate, p models.ReportParams) error {
	err := v.Struct(p)
	if err == nil {
		return nil
	}

	var verrs validatorv10.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "auditdate":
			msgs = append(msgs, fmt.Sprintf("%s must be a date in YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS form, got %q", fe.Field(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("invalid report parameters: %s", strings.Join(msgs, "; "))
}
