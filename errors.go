package accountflow

import (
	"errors"
	"sort"
	"strings"

	"github.com/pvdveen/accountflow/internal/rest"
)

// ErrorCode is the server's domain-error code. The taxonomy lives at the
// API boundary; these aliases re-expose it on the public surface.
type ErrorCode = rest.ErrorCode

const (
	// CodeAccountAlreadyExists is an exported alias of the boundary error code.
	CodeAccountAlreadyExists = rest.CodeAccountAlreadyExists
	// CodeInvalidCredentials is an exported alias of the boundary error code.
	CodeInvalidCredentials = rest.CodeInvalidCredentials
	// CodeInvalidTOTPCode is an exported alias of the boundary error code.
	CodeInvalidTOTPCode = rest.CodeInvalidTOTPCode
	// CodeWrongPassword is an exported alias of the boundary error code.
	CodeWrongPassword = rest.CodeWrongPassword
	// CodePasswordConditions is an exported alias of the boundary error code.
	CodePasswordConditions = rest.CodePasswordConditions
	// CodeCouldNotResetPassword is an exported alias of the boundary error code.
	CodeCouldNotResetPassword = rest.CodeCouldNotResetPassword
	// CodeTokenExpired is an exported alias of the boundary error code.
	CodeTokenExpired = rest.CodeTokenExpired
	// CodeCouldNotVerifyEmail is an exported alias of the boundary error code.
	CodeCouldNotVerifyEmail = rest.CodeCouldNotVerifyEmail
	// CodeRequiresAdmin is an exported alias of the boundary error code.
	CodeRequiresAdmin = rest.CodeRequiresAdmin
	// CodeTwoFactorAlreadyEnabled is an exported alias of the boundary error code.
	CodeTwoFactorAlreadyEnabled = rest.CodeTwoFactorAlreadyEnabled
	// CodeIncorrectTOTPCode is an exported alias of the boundary error code.
	CodeIncorrectTOTPCode = rest.CodeIncorrectTOTPCode
	// CodeTwoFactorAlreadyDisabled is an exported alias of the boundary error code.
	CodeTwoFactorAlreadyDisabled = rest.CodeTwoFactorAlreadyDisabled
	// CodeUserNotFound is an exported alias of the boundary error code.
	CodeUserNotFound = rest.CodeUserNotFound
	// CodeUnknown is an exported alias of the boundary error code.
	CodeUnknown = rest.CodeUnknown
)

const (
	// KeyUnknownError is the fallback message key for unmapped codes.
	KeyUnknownError = rest.KeyUnknownError
	// KeyNetworkError is the reserved message key for transport failures.
	KeyNetworkError = rest.KeyNetworkError
)

// MessageKey resolves a domain-error code to its symbolic message key,
// falling back to KeyUnknownError for codes outside the table.
func MessageKey(code ErrorCode) string {
	return rest.MessageKey(code)
}

var (
	// ErrBuilderUsed is returned when Build is called twice on one Builder.
	ErrBuilderUsed = errors.New("accountflow: builder already used")
	// ErrNoSecondFactorPending is returned when a second-factor code is
	// submitted while the login flow is not at the two-factor stage.
	ErrNoSecondFactorPending = errors.New("accountflow: no second-factor step pending")
	// ErrFlowCompleted is returned when a completed flow receives another
	// submission.
	ErrFlowCompleted = errors.New("accountflow: flow already completed")
)

// FieldErrors carries local validation failures, field name to symbolic
// message key. Validation happens before submission and never reaches
// the network or the form's submission state.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "accountflow: invalid fields: " + strings.Join(fields, ", ")
}
