package domain

import (
	"fmt"

	appErrors "onboard/internal/errors"
)

func invalidRoleError(role string) error {
	return appErrors.New(appErrors.CodeInvalidRole, fmt.Sprintf("invalid role: %s", role), nil)
}

func invalidEmploymentTypeError(kind string) error {
	return appErrors.New(appErrors.CodeInvalidEmpType, fmt.Sprintf("invalid employment type: %s", kind), nil)
}

func invalidEmployeeError(reason string, err error) error {
	return appErrors.New(appErrors.CodeValidation, reason, err)
}
