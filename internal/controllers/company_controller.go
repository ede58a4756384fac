package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mtambo/internal/middleware"
	"mtambo/internal/services"
)

// CompanyController exposes maintenance companies and their technician
// directory.
type CompanyController struct {
	companies *services.CompanyService
}

func NewCompanyController(companies *services.CompanyService) *CompanyController {
	return &CompanyController{companies: companies}
}

// Create registers a company for an existing maintenance user. Superuser only.
func (ctl *CompanyController) Create(c *gin.Context) {
	var input services.CreateCompanyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	company, err := ctl.companies.CreateCompany(middleware.CallerFrom(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"company": company})
}

// List supports ?search= over name/registration and ?ordering= with an
// optional "-" prefix for descending.
func (ctl *CompanyController) List(c *gin.Context) {
	companies, err := ctl.companies.ListCompanies(middleware.CallerFrom(c), services.CompanyListOptions{
		Search:  c.Query("search"),
		OrderBy: c.Query("ordering"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": companies})
}

func (ctl *CompanyController) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company id"})
		return
	}

	company, err := ctl.companies.GetCompany(middleware.CallerFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	detail, err := ctl.companies.Detail(company)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (ctl *CompanyController) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company id"})
		return
	}

	var input services.UpdateCompanyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	company, err := ctl.companies.UpdateCompany(middleware.CallerFrom(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": company})
}

func (ctl *CompanyController) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company id"})
		return
	}

	if err := ctl.companies.DeleteCompany(middleware.CallerFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "company deleted"})
}

// ByEmail resolves a company through its admin's email.
func (ctl *CompanyController) ByEmail(c *gin.Context) {
	company, err := ctl.companies.CompanyByAdminEmail(middleware.CallerFrom(c), c.Query("email"))
	if err != nil {
		respondError(c, err)
		return
	}

	detail, err := ctl.companies.Detail(company)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Technicians lists the company roster.
func (ctl *CompanyController) Technicians(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company id"})
		return
	}

	technicians, err := ctl.companies.ListTechnicians(middleware.CallerFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"technicians": technicians})
}

// AddTechnician attaches an existing technician user, located by user_id or
// email, to the company.
func (ctl *CompanyController) AddTechnician(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company id"})
		return
	}

	var locator services.TechnicianLocator
	if err := c.ShouldBindJSON(&locator); err != nil {
		bindError(c, err)
		return
	}

	technician, err := ctl.companies.AddTechnician(middleware.CallerFrom(c), id, locator)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"technician": technician})
}

// RemoveTechnician clears the company reference on a member technician.
func (ctl *CompanyController) RemoveTechnician(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company id"})
		return
	}

	var locator services.TechnicianLocator
	if err := c.ShouldBindJSON(&locator); err != nil {
		bindError(c, err)
		return
	}

	if err := ctl.companies.RemoveTechnician(middleware.CallerFrom(c), id, locator); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateTechnician builds a new technician user directly inside the company.
func (ctl *CompanyController) CreateTechnician(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company id"})
		return
	}

	var input services.NewTechnicianInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	technician, err := ctl.companies.CreateTechnician(middleware.CallerFrom(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"technician": technician})
}
