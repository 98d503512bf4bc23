package apperr

var (
	ErrUsernameRequired = InvalidArg("username is required")
	ErrContentRequired  = InvalidArg("message content is required")
	ErrInvalidCategory  = InvalidArg("category must be one of: dare, confession, fun, request, other")

	ErrUsernameTaken     = AlreadyExists("username is already registered")
	ErrRecipientNotFound = NotFound("recipient not found")
)

func ErrStorage(cause error) error {
	return Wrap(CodeInternal, "storage failure", cause)
}
