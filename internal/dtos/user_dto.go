package dtos

// RegisterRequest is accepted as JSON or as a multipart form carrying the
// optional resume and profilePhoto files.
type RegisterRequest struct {
	Name     string   `json:"name" form:"name" binding:"required,min=3,max=30"`
	Email    string   `json:"email" form:"email" binding:"required,email"`
	Phone    string   `json:"phone" form:"phone" binding:"required"`
	Password string   `json:"password" form:"password" binding:"required,min=8,max=32"`
	Role     string   `json:"role" form:"role" binding:"required,oneof=Applicant Employer"`
	Bio      string   `json:"bio" form:"bio"`
	Niches   []string `json:"niches" form:"niches"`
	Skills   []string `json:"skills" form:"skills"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
	Role     string `json:"role" form:"role" binding:"required,oneof=Applicant Employer"`
}

type UpdateProfileRequest struct {
	Name   string   `json:"name" form:"name" binding:"required,min=3,max=30"`
	Email  string   `json:"email" form:"email" binding:"required,email"`
	Phone  string   `json:"phone" form:"phone" binding:"required"`
	Bio    string   `json:"bio" form:"bio"`
	Niches []string `json:"niches" form:"niches"`
	Skills []string `json:"skills" form:"skills"`
}

type UpdatePasswordRequest struct {
	OldPassword     string `json:"oldPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8,max=32"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}
