package validations

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	domainValidation "github.com/qualens/qualens/domains/validation"
	pkgError "github.com/qualens/qualens/pkg/error"
)

var ruleTypes = []any{"not_null", "unique", "range", "regex", "freshness", "row_count"}

var severities = []any{"info", "warning", "critical"}

func ValidateCreateRule(request domainValidation.CreateRuleRequest) error {
	err := validation.ValidateStruct(&request,
		validation.Field(&request.ConnectionID, validation.Required),
		validation.Field(&request.TableName, validation.Required),
		validation.Field(&request.RuleType, validation.Required, validation.In(ruleTypes...)),
		validation.Field(&request.Severity, validation.Required, validation.In(severities...)),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}
	if needsColumn(request.RuleType) && request.ColumnName == "" {
		return pkgError.ValidationError("column_name: required for rule type " + request.RuleType)
	}
	return nil
}

func ValidateUpdateRule(id string, request domainValidation.UpdateRuleRequest) error {
	if id == "" {
		return pkgError.ValidationError("rule id is required")
	}
	err := validation.ValidateStruct(&request,
		validation.Field(&request.Severity, validation.In(severities...)),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}
	return nil
}

// needsColumn reports whether a rule type targets a single column rather
// than the whole table.
func needsColumn(ruleType string) bool {
	switch ruleType {
	case "not_null", "unique", "range", "regex":
		return true
	}
	return false
}
