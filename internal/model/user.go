package model

import "time"

// User role constants
const (
	RolePatient      = "patient"
	RoleProfessional = "professional"
)

// User represents a registered patient or professional.
// Patient-only fields and professional-only fields are nullable; which
// set is populated depends on Role.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	City         string    `json:"city" db:"city"`
	Lat          float64   `json:"lat" db:"lat"`
	Lon          float64   `json:"lon" db:"lon"`
	Bio          *string   `json:"bio" db:"bio"`
	Email        *string   `json:"email" db:"email"`
	Address      *string   `json:"address" db:"address"`
	Age          *int      `json:"age" db:"age"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	// Patient fields
	ClinicalHistory *string `json:"clinical_history,omitempty" db:"clinical_history"`

	// Professional fields
	Qualification      *string  `json:"qualification,omitempty" db:"qualification"`
	YearsExperience    *int     `json:"years_experience,omitempty" db:"years_experience"`
	HourlyRate         *float64 `json:"hourly_rate,omitempty" db:"hourly_rate"`
	DetailedExperience *string  `json:"detailed_experience,omitempty" db:"detailed_experience"`
}

// IsProfessional reports whether the user may browse and claim requests.
func (u *User) IsProfessional() bool {
	return u.Role == RoleProfessional
}

// RegisterRequest represents registration parameters
type RegisterRequest struct {
	Username        string  `json:"username" binding:"required"`
	Password        string  `json:"password" binding:"required,min=4"`
	Role            string  `json:"role" binding:"required,role"`
	City            string  `json:"city" binding:"required"`
	Bio             string  `json:"bio"`
	Qualification   string  `json:"qualification"`
	YearsExperience int     `json:"years_experience" binding:"omitempty,gte=0"`
	HourlyRate      float64 `json:"hourly_rate" binding:"omitempty,gte=0"`
}

// UpdateProfileRequest represents profile update parameters.
// NewPassword left empty keeps the stored credential untouched.
type UpdateProfileRequest struct {
	NewPassword string  `json:"new_password"`
	Bio         *string `json:"bio"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Address     *string `json:"address"`
	Age         *int    `json:"age" binding:"omitempty,gte=0"`

	// Patient fields
	ClinicalHistory *string `json:"clinical_history"`

	// Professional fields
	Qualification      *string  `json:"qualification"`
	YearsExperience    *int     `json:"years_experience" binding:"omitempty,gte=0"`
	HourlyRate         *float64 `json:"hourly_rate" binding:"omitempty,gte=0"`
	DetailedExperience *string  `json:"detailed_experience"`
}

// ProfessionalListing is the public projection of a professional used by
// the landing directory.
type ProfessionalListing struct {
	ID              int64    `json:"id" db:"id"`
	Username        string   `json:"username" db:"username"`
	City            string   `json:"city" db:"city"`
	Bio             *string  `json:"bio" db:"bio"`
	Lat             float64  `json:"lat" db:"lat"`
	Lon             float64  `json:"lon" db:"lon"`
	Qualification   *string  `json:"qualification" db:"qualification"`
	YearsExperience *int     `json:"years_experience" db:"years_experience"`
	HourlyRate      *float64 `json:"hourly_rate" db:"hourly_rate"`
}
