package models

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	Base
	Name         string   `json:"name" gorm:"not null"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string   `json:"-" gorm:"not null"`
	Role         UserRole `json:"role" gorm:"not null;default:'user'"`
	Phone        string   `json:"phone"`
	Address      Address  `json:"address" gorm:"embedded;embeddedPrefix:address_"`
}

// Address is a delivery location. Orders copy it by value.
type Address struct {
	Street string `json:"street" bson:"street"`
	City   string `json:"city" bson:"city"`
	Phone  string `json:"phone" bson:"phone"`
}
