package validations

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	domainConnection "github.com/qualens/qualens/domains/connection"
	pkgError "github.com/qualens/qualens/pkg/error"
)

func ValidateCreateConnection(request domainConnection.CreateRequest) error {
	err := validation.ValidateStruct(&request,
		validation.Field(&request.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&request.Type, validation.Required, validation.In("postgres", "sqlite")),
		validation.Field(&request.Database, validation.Required),
		validation.Field(&request.Host, validation.When(request.Type == "postgres", validation.Required)),
		validation.Field(&request.Port, validation.When(request.Type == "postgres", validation.Min(1), validation.Max(65535))),
		validation.Field(&request.SSLMode, validation.In("", "disable", "require", "verify-ca", "verify-full")),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}
	return nil
}

func ValidateUpdateConnection(id string, request domainConnection.UpdateRequest) error {
	if id == "" {
		return pkgError.ValidationError("connection id is required")
	}
	err := validation.ValidateStruct(&request,
		validation.Field(&request.Name, validation.Length(1, 120)),
		validation.Field(&request.Port, validation.Min(0), validation.Max(65535)),
		validation.Field(&request.SSLMode, validation.In("", "disable", "require", "verify-ca", "verify-full")),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}
	return nil
}
