package dtos

// AddCompanyRequest is accepted as JSON or as a multipart form with an
// optional logo file.
type AddCompanyRequest struct {
	Name        string `json:"name" form:"name" binding:"required"`
	Email       string `json:"email" form:"email" binding:"required,email"`
	Phone       string `json:"phone" form:"phone"`
	Address     string `json:"address" form:"address" binding:"required"`
	Website     string `json:"website" form:"website" binding:"required"`
	Description string `json:"description" form:"description" binding:"required"`
}
