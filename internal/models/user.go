package models

import "strings"

const UserTypeManager = "manager"

type User struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	UserType  string `json:"user_type"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsManager reports whether the user may organize events.
func (u *User) IsManager() bool {
	return strings.EqualFold(u.UserType, UserTypeManager)
}
