package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/winningticket/lottery-backend/internal/models"
	"github.com/winningticket/lottery-backend/internal/repositories"
)

// CompanyHandler handles organizer company HTTP requests (staff surface)
type CompanyHandler struct {
	companyRepo repositories.CompanyRepository
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(companyRepo repositories.CompanyRepository) *CompanyHandler {
	return &CompanyHandler{
		companyRepo: companyRepo,
	}
}

// createCompanyRequest is the payload for registering a company
type createCompanyRequest struct {
	Name               string `json:"name" binding:"required"`
	RegistrationNumber string `json:"registrationNumber" binding:"required"`
	ContactEmail       string `json:"contactEmail" binding:"required,email"`
}

// Create handles POST /companies (staff)
func (h *CompanyHandler) Create(c *gin.Context) {
	var req createCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	company := &models.Company{
		Name:               req.Name,
		RegistrationNumber: req.RegistrationNumber,
		ContactEmail:       req.ContactEmail,
		IsActive:           true,
	}
	if err := h.companyRepo.Create(c.Request.Context(), company); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, company)
}

// List handles GET /companies (staff)
func (h *CompanyHandler) List(c *gin.Context) {
	companies, err := h.companyRepo.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, companies)
}

// GetByID handles GET /companies/:id (staff)
func (h *CompanyHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	company, err := h.companyRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}
