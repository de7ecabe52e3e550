package validations

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	domainAutomation "github.com/qualens/qualens/domains/automation"
	pkgError "github.com/qualens/qualens/pkg/error"
)

func ValidateCreateSchedule(request domainAutomation.CreateScheduleRequest) error {
	err := validation.ValidateStruct(&request,
		validation.Field(&request.ConnectionID, validation.Required),
		validation.Field(&request.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&request.Kind, validation.Required, validation.In("profiling", "validation", "anomaly_scan")),
		validation.Field(&request.Cron, validation.Required, validation.By(cronExpression)),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}
	return nil
}

func ValidateUpdateSchedule(id string, request domainAutomation.UpdateScheduleRequest) error {
	if id == "" {
		return pkgError.ValidationError("schedule id is required")
	}
	err := validation.ValidateStruct(&request,
		validation.Field(&request.Name, validation.Length(1, 120)),
		validation.Field(&request.Cron, validation.By(cronExpressionOptional)),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}
	return nil
}

// cronExpression checks field count only; the backend scheduler owns full
// cron parsing.
func cronExpression(value any) error {
	expr, _ := value.(string)
	fields := strings.Fields(expr)
	if len(fields) != 5 && len(fields) != 6 {
		return pkgError.ValidationError("must be a 5- or 6-field cron expression")
	}
	return nil
}

func cronExpressionOptional(value any) error {
	expr, _ := value.(string)
	if expr == "" {
		return nil
	}
	return cronExpression(value)
}
