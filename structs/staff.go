package structs

import "time"

// StaffProfile is a staff member's identity, skills and availability.
type StaffProfile struct {
	Email        string     `bson:"_id" json:"email"`
	Name         string     `bson:"name" json:"name"`
	Password     string     `bson:"password" json:"-"`
	Skills       []string   `bson:"skills" json:"skills"`
	Availability *DateRange `bson:"availability,omitempty" json:"availability,omitempty"`
	IsVerified   bool       `bson:"is_verified" json:"isVerified"`
	OTP          string     `bson:"otp,omitempty" json:"-"`
	OTPExpiresAt time.Time  `bson:"otp_expires_at,omitempty" json:"-"`
	CreatedAt    time.Time  `bson:"created_at" json:"createdAt"`
}

// Manager is an account allowed to post tasks and decide requests.
type Manager struct {
	Email    string `bson:"_id" json:"email"`
	Name     string `bson:"name" json:"name"`
	Password string `bson:"password" json:"-"`
}

// Roles carried in access tokens.
const (
	RoleStaff   = "staff"
	RoleManager = "manager"
)

// RegisterBody is the staff registration payload.
type RegisterBody struct {
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required"`
	Skills   []string `json:"skills" binding:"required,min=1,dive,required"`
}

// VerifyBody is the OTP verification payload.
type VerifyBody struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

// LoginBody is the login payload for staff and managers.
type LoginBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AvailabilityBody is the staff availability update payload.
type AvailabilityBody struct {
	StartDate string `json:"startDate" binding:"required,date"`
	EndDate   string `json:"endDate" binding:"required,date"`
}

// AccessToken is returned by the login endpoints.
type AccessToken struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email"`
	Role    string `json:"role"`
}
