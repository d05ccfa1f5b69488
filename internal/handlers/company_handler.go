package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/jobster-api/internal/dtos"
	"github.com/justsurfingit/jobster-api/internal/services"
)

type CompanyHandler struct {
	Companies *services.CompanyService
	Users     *services.UserService
}

func NewCompanyHandler(companies *services.CompanyService, users *services.UserService) *CompanyHandler {
	return &CompanyHandler{Companies: companies, Users: users}
}

// Add is POST /company/add.
func (h *CompanyHandler) Add(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	var req dtos.AddCompanyRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, bindError(err))
		return
	}
	logo, err := optionalFile(c, "logo")
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	company, err := h.Companies.Add(ctx, identity, services.CompanyInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		Website:     req.Website,
		Description: req.Description,
	}, logo)
	if err != nil {
		respondError(c, err)
		return
	}
	detail, err := h.Companies.Get(ctx, company.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	user, err := h.Users.ViewByID(ctx, identity.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"user": user, "company": detail})
}

// Get is GET /company/:id.
func (h *CompanyHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	company, err := h.Companies.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"company": company})
}

// ByName is GET /company/name/:name.
func (h *CompanyHandler) ByName(c *gin.Context) {
	company, err := h.Companies.ByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"company": company})
}
