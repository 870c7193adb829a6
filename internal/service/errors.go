package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid       = errors.New("Invalid parameters")
	ErrAuthRequired       = errors.New("Authentication required")
	ErrUserNotFound       = errors.New("User not found")
	ErrUserExist          = errors.New("User already exists")
	ErrPasswordIncorrect  = errors.New("Invalid credentials")
	ErrCurrentPassword    = errors.New("Current password is incorrect")
	ErrPasswordTooShort   = errors.New("Password must be at least 6 characters")
	ErrMissingFields      = errors.New("Please provide all required fields")
	ErrToolNotFound       = errors.New("Tool not found")
	ErrForbidden          = errors.New("Not authorized to modify this tool")
	ErrInvalidRating      = errors.New("Invalid rating value")
	ErrEmptyComment       = errors.New("Comment cannot be empty")
	ErrInvalidAction      = errors.New("Invalid action")
	ErrFileNotSupported   = errors.New("Unsupported file type")
	ErrFileTooLarge       = errors.New("File is too large")
	ErrPreviewUnavailable = errors.New("Unable to fetch link preview")
	UnExpectedError       = errors.New("Something went wrong, please try again later")
)

// ErrorMap 业务错误到状态码，同时命中多个时取靠前的一项
var ErrorMap = []struct {
	Err  error
	Code int
}{
	{ErrAuthRequired, Unauthorized},
	{ErrPasswordIncorrect, Unauthorized},
	{ErrForbidden, Forbidden},
	{ErrUserNotFound, NotFound},
	{ErrToolNotFound, NotFound},
	{ErrParamInvalid, BadRequest},
	{ErrUserExist, BadRequest},
	{ErrCurrentPassword, BadRequest},
	{ErrPasswordTooShort, BadRequest},
	{ErrMissingFields, BadRequest},
	{ErrInvalidRating, BadRequest},
	{ErrEmptyComment, BadRequest},
	{ErrInvalidAction, BadRequest},
	{ErrFileNotSupported, BadRequest},
	{ErrFileTooLarge, BadRequest},
	{ErrPreviewUnavailable, BadRequest},
	{UnExpectedError, InternalServerError},
}

// ErrorCode 按 errors.Is 查找业务码，包装过的错误同样命中
func ErrorCode(err error) (int, error, bool) {
	for _, entry := range ErrorMap {
		if errors.Is(err, entry.Err) {
			return entry.Code, entry.Err, true
		}
	}
	return InternalServerError, UnExpectedError, false
}
