package handlers

import (
	"net/http"
	"strings"

	"medlab-backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (h *Handler) CreateCompany(c *gin.Context) {
	body, err := bindFields(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	name := strings.TrimSpace(stringify(body["name"]))
	if name == "" {
		respondError(c, h.log, &ValidationError{Field: "name", Message: "Company name is required"})
		return
	}

	company := models.Company{
		Name:    stringify(body["name"]),
		Address: stringify(body["address"]),
		Phone:   stringify(body["phone"]),
		Email:   stringify(body["email"]),
	}

	err = h.conn(c).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Company{}).Where("name = ?", company.Name).Count(&count).Error; err != nil {
			return &PersistenceError{Message: "Failed to add company", Err: err}
		}
		if count > 0 {
			return &ConflictError{Message: "Company name must be unique"}
		}
		if err := tx.Create(&company).Error; err != nil {
			if isDuplicateKey(err) {
				return &ConflictError{Message: "Company name must be unique"}
			}
			return &PersistenceError{Message: "Failed to add company", Err: err}
		}
		return nil
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Company added successfully", "id": company.ID})
}

func (h *Handler) ListCompanies(c *gin.Context) {
	companies := []models.Company{}
	if err := h.conn(c).Order("id").Find(&companies).Error; err != nil {
		respondError(c, h.log, &PersistenceError{Message: "Failed to fetch companies", Err: err})
		return
	}
	c.JSON(http.StatusOK, companies)
}
