package validations

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainAutomation "github.com/qualens/qualens/domains/automation"
	domainConnection "github.com/qualens/qualens/domains/connection"
	domainValidation "github.com/qualens/qualens/domains/validation"
	pkgError "github.com/qualens/qualens/pkg/error"
)

func TestValidateCreateConnection(t *testing.T) {
	valid := domainConnection.CreateRequest{
		Name:     "prod warehouse",
		Type:     "postgres",
		Host:     "db.internal",
		Port:     5432,
		Database: "warehouse",
		Username: "qualens",
	}
	assert.NoError(t, ValidateCreateConnection(valid))

	missingHost := valid
	missingHost.Host = ""
	err := ValidateCreateConnection(missingHost)
	assert.Error(t, err)
	var ve pkgError.ValidationError
	assert.ErrorAs(t, err, &ve)

	sqlite := domainConnection.CreateRequest{Name: "local", Type: "sqlite", Database: "/tmp/x.db"}
	assert.NoError(t, ValidateCreateConnection(sqlite), "sqlite needs no host")

	badType := valid
	badType.Type = "oracle"
	assert.Error(t, ValidateCreateConnection(badType))
}

func TestValidateCreateRule(t *testing.T) {
	valid := domainValidation.CreateRuleRequest{
		ConnectionID: "c1",
		TableName:    "orders",
		ColumnName:   "customer_id",
		RuleType:     "not_null",
		Severity:     "critical",
	}
	assert.NoError(t, ValidateCreateRule(valid))

	noColumn := valid
	noColumn.ColumnName = ""
	assert.Error(t, ValidateCreateRule(noColumn), "column rules need a column")

	rowCount := valid
	rowCount.RuleType = "row_count"
	rowCount.ColumnName = ""
	assert.NoError(t, ValidateCreateRule(rowCount), "table rules do not")
}

func TestValidateCreateSchedule(t *testing.T) {
	valid := domainAutomation.CreateScheduleRequest{
		ConnectionID: "c1",
		Name:         "nightly profiling",
		Kind:         "profiling",
		Cron:         "0 2 * * *",
	}
	assert.NoError(t, ValidateCreateSchedule(valid))

	badCron := valid
	badCron.Cron = "whenever"
	assert.Error(t, ValidateCreateSchedule(badCron))
}
