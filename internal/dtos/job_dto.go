package dtos

// PostJobRequest creates a job, or updates the job named by JobID.
type PostJobRequest struct {
	JobID        *uint    `json:"jobId"`
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	Salary       string   `json:"salary"`
	Location     string   `json:"location" binding:"required"`
	NoOfOpenings int      `json:"noOfOpenings" binding:"required,min=1"`
	Niches       []string `json:"niches"`
}

type JobListQuery struct {
	City    string `form:"city"`
	Niche   string `form:"niche"`
	Keyword string `form:"keyword"`
	Page    string `form:"page"`
}

type MyJobsQuery struct {
	Type   string `form:"type" binding:"required"`
	UserID uint   `form:"userId" binding:"required"`
	Page   string `form:"page"`
}

type JobIDRequest struct {
	JobID uint `json:"jobId" binding:"required"`
}

type ApplyJobRequest struct {
	JobID       uint   `json:"jobId" binding:"required"`
	CoverLetter string `json:"coverLetter" binding:"required"`
}
