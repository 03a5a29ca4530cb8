package models

import (
	"errors"

	"github.com/farellandr/fastfriends/internal/geo"
)

var (
	// Membership errors
	ErrAlreadyMember    = errors.New("already a member")
	ErrNotMember        = errors.New("not a member")
	ErrMemberIsOwner    = errors.New("member is owner")
	ErrAlreadyCheckedIn = errors.New("already checked in")
	ErrEventFull        = errors.New("event is full")

	// Check-in and cancellation window errors
	ErrTooEarly        = errors.New("too early to check in")
	ErrTooLate         = errors.New("too late to check in")
	ErrTooFar          = errors.New("too far away to check in")
	ErrTooLateToCancel = errors.New("too late to cancel event")

	// General errors
	ErrInvalidInput      = errors.New("invalid input")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrInvalidCoordinate = geo.ErrInvalidCoordinate
	ErrNoConversionRate  = errors.New("no conversion rate available")
)
