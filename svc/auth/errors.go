package auth

import "errors"

var (
	// ErrEmailAlreadyExists is returned when registering with a taken email.
	ErrEmailAlreadyExists = errors.New("email already exists")
	// ErrPhoneAlreadyExists is returned when registering with a taken phone number.
	ErrPhoneAlreadyExists = errors.New("phone number already exists")
	// ErrInvalidCredentials is returned for any login failure. Unknown email and
	// wrong password are indistinguishable to callers.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAuthentication is returned for any token verification failure. The
	// specific reason is logged, never surfaced.
	ErrAuthentication = errors.New("authentication failed")
	// ErrUserNotFound is returned when a user lookup finds nothing.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCurrentPassword is returned when a password change supplies the
	// wrong current password.
	ErrInvalidCurrentPassword = errors.New("current password is incorrect")
	// ErrPasswordMismatch is returned when the new password and its confirmation
	// differ.
	ErrPasswordMismatch = errors.New("passwords do not match")
)
