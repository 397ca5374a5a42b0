package record

import (
	"strings"
	"time"
)

// Record is the unit entity held by a Registry.
type Record struct {
	// ID is the unique key. It never changes after creation.
	ID int64 `json:"id"`
	// Name is the display name, matched by SearchByName.
	Name string `json:"name"`
	// Email is the contact address.
	Email string `json:"email"`
	// CreatedAt is stamped once by New.
	CreatedAt time.Time `json:"created_at"`
}

// New creates a record stamped with the current UTC time.
func New(id int64, name, email string) *Record {
	return &Record{
		ID:        id,
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
}

// GenerateID derives an id from the current time in nanoseconds.
// Two calls within the same clock tick collide; it is meant for demos.
func GenerateID() int64 {
	return time.Now().UnixNano()
}

// IsValidEmail reports whether s contains both '@' and '.'.
// This is a shape check only and accepts many invalid addresses.
func IsValidEmail(s string) bool {
	return strings.Contains(s, "@") && strings.Contains(s, ".")
}

// Update describes a partial change to a record.
// A nil field is left untouched; a non-nil field is applied as given.
type Update struct {
	Name  *string
	Email *string
}

// SetName returns a copy of u that sets Name.
func (u Update) SetName(name string) Update {
	u.Name = &name
	return u
}

// SetEmail returns a copy of u that sets Email.
func (u Update) SetEmail(email string) Update {
	u.Email = &email
	return u
}

// IsEmpty reports whether u changes nothing.
func (u Update) IsEmpty() bool {
	return u.Name == nil && u.Email == nil
}

// apply writes the provided fields into r and returns their names.
func (u Update) apply(r *Record) []string {
	var fields []string
	if u.Name != nil {
		r.Name = *u.Name
		fields = append(fields, "name")
	}
	if u.Email != nil {
		r.Email = *u.Email
		fields = append(fields, "email")
	}
	return fields
}
