package schedule

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"deskwise/internal/features/report"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// timeOfDayPattern is a strict 24 hour HH:mm with both digits required.
var timeOfDayPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return timeOfDayPattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidationError lists every problem found with a schedule. It matches
// ErrInvalidSchedule under errors.Is.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidSchedule, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidSchedule
}

// validateSchedule checks the struct tags, the frequency specific fields and
// the embedded report query.
func validateSchedule(s *ReportSchedule, reports report.ReportService) error {
	var problems []string

	if err := validate.Struct(s); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
		}
		for _, fe := range verrs {
			problems = append(problems, formatFieldError(fe))
		}
	}

	if s.Frequency == FrequencyWeekly && s.DayOfWeek == nil {
		problems = append(problems, "day_of_week is required for weekly schedules")
	}
	if len(s.Formats) == 0 {
		problems = append(problems, "at least one format is required")
	}

	for _, p := range reports.ValidateQuery(s.Query) {
		problems = append(problems, "query: "+p)
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "hhmm":
		return fmt.Sprintf("%s must use the HH:mm format", field)
	case "timezone":
		return fmt.Sprintf("%s must be an IANA time zone", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
