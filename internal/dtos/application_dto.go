package dtos

type PostApplicationRequest struct {
	CoverLetter string `json:"coverLetter" form:"coverLetter" binding:"required"`
}

type JobApplicationsRequest struct {
	JobID uint `json:"jobId" binding:"required"`
}
