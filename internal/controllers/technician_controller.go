package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mtambo/internal/middleware"
	"mtambo/internal/services"
)

// TechnicianController exposes technician profiles under the caller's scope.
type TechnicianController struct {
	technicians *services.TechnicianService
}

func NewTechnicianController(technicians *services.TechnicianService) *TechnicianController {
	return &TechnicianController{technicians: technicians}
}

func (ctl *TechnicianController) List(c *gin.Context) {
	technicians, err := ctl.technicians.List(middleware.CallerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": technicians})
}

func (ctl *TechnicianController) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid technician id"})
		return
	}

	technician, err := ctl.technicians.Get(middleware.CallerFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"technician": technician})
}

func (ctl *TechnicianController) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid technician id"})
		return
	}

	var input services.UpdateTechnicianInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	technician, err := ctl.technicians.Update(middleware.CallerFrom(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"technician": technician})
}

func (ctl *TechnicianController) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid technician id"})
		return
	}

	if err := ctl.technicians.Delete(middleware.CallerFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "technician profile deleted"})
}

// Create attaches a profile to an existing technician user.
func (ctl *TechnicianController) Create(c *gin.Context) {
	var body struct {
		services.TechnicianLocator
		services.UpdateTechnicianInput
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}

	technician, err := ctl.technicians.Create(middleware.CallerFrom(c), body.TechnicianLocator, body.UpdateTechnicianInput)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"technician": technician})
}

// CreateWithUser lets a company admin create a technician user plus profile
// in their own company.
func (ctl *TechnicianController) CreateWithUser(c *gin.Context) {
	var input services.NewTechnicianInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	technician, err := ctl.technicians.CreateWithUser(middleware.CallerFrom(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"technician": technician})
}
