package domain

// User is an account holder able to sign in and edit records.
type User struct {
	Base
	Email        string
	PasswordHash string
	Name         string
	Contact      string
	Address      string
}

// ToJSON projects the user for transport. The password hash is never included.
func (u *User) ToJSON() map[string]any {
	return merge(map[string]any{
		"id":      u.ID,
		"email":   u.Email,
		"name":    u.Name,
		"contact": u.Contact,
		"address": u.Address,
	}, u)
}
