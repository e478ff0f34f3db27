package kid

import "errors"

var (
	ErrKidNotFound          = errors.New("kid not found")
	ErrSlugTaken            = errors.New("slug taken")
	ErrInvalidSlug          = errors.New("invalid slug")
	ErrInvalidDay           = errors.New("invalid allowance day")
	ErrInvalidAllowance     = errors.New("invalid allowance amount")
	ErrNameRequired         = errors.New("name is required")
	ErrInvalidEmail         = errors.New("invalid email")
	ErrShareNotFound        = errors.New("share not found")
	ErrSlugGenerationFailed = errors.New("slug generation failed")
)
