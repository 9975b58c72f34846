// ABOUTME: User entity with optional body measurements.
// ABOUTME: Provides constructor, builders, and the user info summary line.
package models

import (
	"fmt"
	"strconv"
)

// User is a tracked person.
type User struct {
	Username string   `mapstructure:"username" validate:"required"`
	Age      int      `mapstructure:"age" validate:"gte=0"`
	Height   *float64 `mapstructure:"height" validate:"omitempty,gt=0"`
	Weight   *float64 `mapstructure:"weight" validate:"omitempty,gt=0"`
}

var _ Entity = (*User)(nil)

// NewUser creates a User without measurements.
func NewUser(username string, age int) *User {
	return &User{Username: username, Age: age}
}

// WithHeight sets the height.
func (u *User) WithHeight(height float64) *User {
	u.Height = &height
	return u
}

// WithWeight sets the weight.
func (u *User) WithWeight(weight float64) *User {
	u.Weight = &weight
	return u
}

func (u *User) Kind() Kind { return KindUser }

func (u *User) DisplayName() string { return u.Username }

// Summary returns "User: <name>, Age: <age>, Height: <h|N/A>, Weight: <w|N/A>".
func (u *User) Summary() string {
	return fmt.Sprintf("User: %s, Age: %d, Height: %s, Weight: %s",
		u.Username, u.Age, formatOptional(u.Height), formatOptional(u.Weight))
}

// Data returns the record payload. Unset measurements are omitted.
func (u *User) Data() map[string]any {
	data := map[string]any{
		"username": u.Username,
		"age":      u.Age,
	}
	if u.Height != nil {
		data["height"] = *u.Height
	}
	if u.Weight != nil {
		data["weight"] = *u.Weight
	}
	return data
}

func formatOptional(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
