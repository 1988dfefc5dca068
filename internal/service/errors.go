package service

import "errors"

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrRowNotFound        = errors.New("row not found")
	ErrSlugTitleRequired  = errors.New("slug and title required")
	ErrNoProducts         = errors.New("select at least one product")
	ErrDuplicateColor     = errors.New("color already exists")
	ErrRowDataInvalid     = errors.New("row data invalid")
	ErrTooManyRows        = errors.New("too many rows")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid session")
	ErrCaptchaRequired    = errors.New("captcha required")
	ErrCaptchaInvalid     = errors.New("captcha invalid")
	ErrCaptchaDisabled    = errors.New("captcha disabled")
	ErrArchiveDirMissing  = errors.New("export archive dir not configured")
)
