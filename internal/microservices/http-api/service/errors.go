package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Kind classifies a domain error for the HTTP layer.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindNotFound
	KindUnauthorized
	KindForbidden
)

// Error is a classified domain error. Sentinels are compared with errors.Is.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func validationf(format string, args ...any) *Error {
	return newError(KindValidation, fmt.Sprintf(format, args...))
}

var (
	// auth gate
	ErrUnauthenticated    = newError(KindUnauthorized, "not authorized, no token provided")
	ErrInvalidToken       = newError(KindUnauthorized, "not authorized, invalid token")
	ErrUserNotFound       = newError(KindUnauthorized, "user not found")
	ErrAccountDisabled    = newError(KindUnauthorized, "account has been disabled")
	ErrForbidden          = newError(KindForbidden, "not allowed to access this resource")
	ErrInvalidCredentials = newError(KindUnauthorized, "invalid username or password")
	ErrWrongPassword      = newError(KindUnauthorized, "current password is incorrect")
	ErrInvalidResetToken  = newError(KindValidation, "reset token is invalid or has expired")
	ErrEmailNotFound      = newError(KindNotFound, "no account with that email")

	// users
	ErrNameInUse         = newError(KindConflict, "username already exists")
	ErrEmailInUse        = newError(KindConflict, "email already exists")
	ErrAccountNotFound   = newError(KindNotFound, "user not found")
	ErrAlreadyFavorite   = newError(KindConflict, "book is already in favorites")
	ErrNotFavorite       = newError(KindValidation, "book is not in favorites")
	ErrAlreadyBookmarked = newError(KindConflict, "book is already bookmarked")
	ErrNotBookmarked     = newError(KindValidation, "book is not bookmarked")
	ErrHistoryNotFound   = newError(KindNotFound, "book is not in reading history")

	// books and genres
	ErrBookNotFound  = newError(KindNotFound, "book not found")
	ErrISBNInUse     = newError(KindConflict, "isbn already exists")
	ErrGenreNotFound = newError(KindNotFound, "genre not found")
	ErrGenreInUse    = newError(KindConflict, "genre already exists")
	ErrInvalidGenre  = newError(KindValidation, "genre name must contain letters or digits")

	// reviews
	ErrReviewNotFound  = newError(KindNotFound, "review not found")
	ErrAlreadyReviewed = newError(KindConflict, "you have already reviewed this book")
	ErrNotReviewOwner  = newError(KindForbidden, "not allowed to modify this review")

	// donations
	ErrDonationNotFound  = newError(KindNotFound, "donation not found")
	ErrInvalidMethod     = newError(KindValidation, "method must be one of scratch_card, momo, atm, paypal")
	ErrAmountTooLow      = newError(KindValidation, "minimum donation amount is 1000")
	ErrScratchCardFields = newError(KindValidation, "card_type, serial and code are required for scratch card donations")
	ErrInvalidCardType   = newError(KindValidation, "card_type must be one of viettel, vinaphone, mobifone")

	// feedback
	ErrFeedbackNotFound = newError(KindNotFound, "feedback not found")
	ErrEmptyContent     = newError(KindValidation, "content is required")
)

// notFound maps gorm.ErrRecordNotFound to the given domain error.
func notFound(err error, domain *Error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain
	}
	return err
}
