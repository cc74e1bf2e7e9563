package constants

// エラーメッセージ
const (
	ErrListingNotFound  = "Listing not found"
	ErrUserNotFound     = "User not found"
	ErrUnexpected       = "Unexpected error"
	ErrInvalidID        = "Invalid id"
	ErrInvalidInput     = "Invalid input"
	ErrDeleteOtherOwner = "you can not delete any other owner's listing"
	ErrUpdateOtherOwner = "you can not update any other owner's listing"
)

// ミラータスク
const (
	MirrorDelaySeconds = 2
)
