package domain

import "errors"

// Common errors
var (
	ErrInvalidID = errors.New("invalid id: must be a 24 character hex string")

	ErrUserNotFound         = errors.New("user not found")
	ErrAdminNotFound        = errors.New("admin not found")
	ErrBranchNotFound       = errors.New("branch not found")
	ErrTrainerNotFound      = errors.New("trainer not found")
	ErrMembershipNotFound   = errors.New("membership not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrNoResults is returned by list operations when the empty-list-as-not-found
	// policy is enabled and a filtered query matches nothing.
	ErrNoResults = errors.New("no matching records found")
)

// Validation errors
var (
	ErrInvalidDuration = errors.New("duration must be one of 1, 3, 6, 12")
	ErrInvalidRate     = errors.New("rate must be between 1 and 5")
	ErrEmptyComment    = errors.New("comment is required")
)

// Conflict errors: a state guard or uniqueness constraint blocked the mutation.
var (
	ErrDuplicateUserName  = errors.New("user name already exists")
	ErrDuplicatePhone     = errors.New("phone number already exists")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrDuplicateAdminName = errors.New("admin username already exists")

	ErrMembershipLocked      = errors.New("membership is active and cannot be updated")
	ErrMembershipUnsettled   = errors.New("membership is active or paid and cannot be deleted")
	ErrSubscriptionLocked    = errors.New("subscription is active and cannot be updated")
	ErrSubscriptionUnsettled = errors.New("subscription is active or paid and cannot be deleted")

	ErrBranchHasActiveContracts = errors.New("branch has active memberships or subscriptions and cannot change status")
	ErrBranchReferenced         = errors.New("branch is referenced by memberships or subscriptions and cannot be deleted")

	ErrAlreadyRated     = errors.New("subscription has already been rated")
	ErrTrainerFirstTime = errors.New("trainer has not completed first login and cannot be activated")
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrNotActivated       = errors.New("account is not activated")
	ErrNoActiveMembership = errors.New("user has no active paid membership")

	// ErrEmailNotSent covers delivery failures that leave an account unusable
	// until the caller retries the whole operation.
	ErrEmailNotSent = errors.New("email not sent, please try again")
)

// IsNotFound reports whether err belongs to the not-found class of the error
// taxonomy, including the configurable empty-list policy.
func IsNotFound(err error) bool {
	for _, target := range []error{
		ErrUserNotFound, ErrAdminNotFound, ErrBranchNotFound, ErrTrainerNotFound,
		ErrMembershipNotFound, ErrSubscriptionNotFound, ErrNoResults, ErrNoActiveMembership,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsConflict reports whether err is a guard violation or duplicate-field error.
func IsConflict(err error) bool {
	for _, target := range []error{
		ErrDuplicateUserName, ErrDuplicatePhone, ErrDuplicateEmail, ErrDuplicateAdminName,
		ErrMembershipLocked, ErrMembershipUnsettled, ErrSubscriptionLocked, ErrSubscriptionUnsettled,
		ErrBranchHasActiveContracts, ErrBranchReferenced, ErrAlreadyRated, ErrTrainerFirstTime,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsInvalidInput reports whether err is a request-validation failure.
func IsInvalidInput(err error) bool {
	for _, target := range []error{
		ErrInvalidID, ErrInvalidDuration, ErrInvalidRate, ErrEmptyComment, ErrInvalidCredentials, ErrNotActivated,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
