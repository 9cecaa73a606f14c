package models

import "time"

// User represents an account holder. Password is a bcrypt hash and never
// serialized. Preference columns are flattened; the profile endpoint
// nests them back into the shape clients expect.
type User struct {
	Base
	Username    string     `gorm:"uniqueIndex;not null" json:"username"`
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	// Preferences
	Currency    string `gorm:"default:USD" json:"-"`
	Theme       string `gorm:"default:light" json:"-"`
	NotifyEmail bool   `gorm:"default:true" json:"-"`
	NotifyPush  bool   `gorm:"default:false" json:"-"`
}

// Preferences is the nested preference document exposed over the API.
type Preferences struct {
	Currency      string            `json:"currency"`
	Theme         string            `json:"theme"`
	Notifications NotificationPrefs `json:"notifications"`
}

// NotificationPrefs holds per-channel notification switches.
type NotificationPrefs struct {
	Email bool `json:"email"`
	Push  bool `json:"push"`
}

// GetPreferences nests the flattened preference columns.
func (u *User) GetPreferences() Preferences {
	return Preferences{
		Currency: u.Currency,
		Theme:    u.Theme,
		Notifications: NotificationPrefs{
			Email: u.NotifyEmail,
			Push:  u.NotifyPush,
		},
	}
}
