package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"medlab-backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var requiredPatientFields = []string{"full_name", "age", "gender", "contact_number", "email", "patient_code", "address"}

// updatablePatientFields are the columns a PUT may overwrite. patient_code is
// fixed once assigned.
var updatablePatientFields = []string{"full_name", "age", "gender", "contact_number", "email", "ref_by", "address"}

func (h *Handler) CreatePatient(c *gin.Context) {
	body, err := bindFields(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.log.Debug().Interface("body", body).Msg("create patient request")

	patient, err := newPatient(body)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	err = h.conn(c).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Patient{}).Where("patient_code = ?", patient.PatientCode).Count(&count).Error; err != nil {
			return &PersistenceError{Message: "Failed to add patient", Err: err}
		}
		if count > 0 {
			return &ConflictError{Message: "Patient code must be unique"}
		}
		if err := tx.Create(&patient).Error; err != nil {
			if isDuplicateKey(err) {
				return &ConflictError{Message: "Patient code must be unique"}
			}
			return &PersistenceError{Message: "Failed to add patient", Err: err}
		}
		return nil
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Patient added successfully", "id": patient.ID})
}

func newPatient(body map[string]any) (models.Patient, error) {
	for _, field := range requiredPatientFields {
		if v, ok := body[field]; !ok || isBlank(v) {
			return models.Patient{}, missingField(field)
		}
	}
	age, ok := toInt(body["age"])
	if !ok {
		return models.Patient{}, invalidField("age", "must be a whole number")
	}
	return models.Patient{
		FullName:      stringify(body["full_name"]),
		Age:           age,
		Gender:        stringify(body["gender"]),
		ContactNumber: stringify(body["contact_number"]),
		Email:         stringify(body["email"]),
		PatientCode:   stringify(body["patient_code"]),
		RefBy:         stringify(body["ref_by"]),
		Address:       stringify(body["address"]),
	}, nil
}

func (h *Handler) ListPatients(c *gin.Context) {
	patients := []models.Patient{}
	if err := h.conn(c).Order("id").Find(&patients).Error; err != nil {
		respondError(c, h.log, &PersistenceError{Message: "Failed to fetch patients", Err: err})
		return
	}
	c.JSON(http.StatusOK, patients)
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	body, err := bindFields(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	err = h.conn(c).Transaction(func(tx *gorm.DB) error {
		var patient models.Patient
		if err := tx.First(&patient, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "Patient"}
			}
			return &PersistenceError{Message: "Failed to update patient", Err: err}
		}
		updates, err := patientUpdates(body)
		if err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&patient).Updates(updates).Error; err != nil {
			return &PersistenceError{Message: "Failed to update patient", Err: err}
		}
		return nil
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Patient updated successfully"})
}

// patientUpdates picks the updatable fields present in body. Values are
// coerced to their column type but not checked for blanks.
func patientUpdates(body map[string]any) (map[string]any, error) {
	updates := make(map[string]any)
	for _, field := range updatablePatientFields {
		v, ok := body[field]
		if !ok {
			continue
		}
		switch {
		case v == nil:
			// Stored as NULL; NOT NULL columns reject it at commit.
			updates[field] = nil
		case field == "age":
			age, ok := toInt(v)
			if !ok {
				return nil, invalidField("age", "must be a whole number")
			}
			updates[field] = age
		default:
			updates[field] = stringify(v)
		}
	}
	return updates, nil
}

// DeletePatient removes the patient row. Test results recorded for the
// patient are kept.
func (h *Handler) DeletePatient(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	err = h.conn(c).Transaction(func(tx *gorm.DB) error {
		var patient models.Patient
		if err := tx.First(&patient, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "Patient"}
			}
			return &PersistenceError{Message: "Failed to delete patient", Err: err}
		}
		if err := tx.Delete(&patient).Error; err != nil {
			return &PersistenceError{Message: "Failed to delete patient", Err: err}
		}
		return nil
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Patient deleted successfully"})
}

var allowedPatientSortFields = map[string]string{
	"id":             "id",
	"full_name":      "full_name",
	"age":            "age",
	"gender":         "gender",
	"patient_code":   "patient_code",
	"ref_by":         "ref_by",
	"email":          "email",
	"contact_number": "contact_number",
}

// ListPatientsPage returns one page of patients together with the total count.
func (h *Handler) ListPatientsPage(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if err != nil || pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}
	// Pages whose offset would not fit in an int32 cannot hold any rows.
	outOfRange := page-1 > math.MaxInt32/pageSize

	sortField, ok := allowedPatientSortFields[strings.ToLower(c.DefaultQuery("sort_by", "id"))]
	if !ok {
		sortField = "id"
	}
	sortOrder := strings.ToLower(c.DefaultQuery("sort_order", "asc"))
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "asc"
	}

	query := h.conn(c).Model(&models.Patient{})
	if ref := strings.TrimSpace(c.Query("ref_by")); ref != "" {
		query = query.Where("ref_by = ?", ref)
	}
	// Count and Find must not share one statement.
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, h.log, &PersistenceError{Message: "Error counting patients", Err: err})
		return
	}

	patients := []models.Patient{}
	if outOfRange {
		c.JSON(http.StatusOK, gin.H{
			"total":     total,
			"page":      page,
			"page_size": pageSize,
			"patients":  patients,
		})
		return
	}
	order := sortField + " " + sortOrder
	if sortField != "id" {
		order += ", id"
	}
	if err := query.Order(order).Offset((page - 1) * pageSize).Limit(pageSize).Find(&patients).Error; err != nil {
		respondError(c, h.log, &PersistenceError{Message: "Error fetching paginated patients", Err: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"patients":  patients,
	})
}
