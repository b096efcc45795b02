package domain

// ListOptions carries pagination and sorting for list queries.
// SortBy is a "field asc|desc" expression; empty means the caller's default.
type ListOptions struct {
	Page   int64
	Size   int64
	SortBy string
}

// UserSearch holds case-insensitive partial-match filters for user lookup.
// Zero-valued fields are ignored.
type UserSearch struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
}

// TrainerSearch holds case-insensitive partial-match filters for trainer
// lookup. Experience filters on exact years when positive.
type TrainerSearch struct {
	UserName       string
	Specialization string
	PhoneNumber    string
	Experience     int
}
