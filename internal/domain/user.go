package domain

// User Model
type User struct {
	ID       uint    `gorm:"primaryKey" json:"id"`                                   // Primary key
	Username string  `gorm:"size:25;uniqueIndex;not null" json:"username"`           // Unique username
	Email    string  `gorm:"size:80;uniqueIndex;not null" json:"email"`              // Unique email
	Password string  `gorm:"not null" json:"-"`                                      // Hashed password, never serialized
	IsActive bool    `gorm:"not null" json:"is_active"`                              // Account is active
	IsStaff  bool    `gorm:"not null" json:"is_staff"`                               // Staff can manage every order
	Orders   []Order `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"` // One-to-many relationship with Order
}
