package handlers

import (
	"net/http"
	"time"

	"medlab-backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreateTestResult records a batch of tests for a patient. The patient id is
// stored as given; it is not checked against the patients table.
func (h *Handler) CreateTestResult(c *gin.Context) {
	body, err := bindFields(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	result, err := newTestResult(body, time.Now().UTC())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	err = h.conn(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&result).Error; err != nil {
			return &PersistenceError{Message: "Failed to save test results", Err: err}
		}
		return nil
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Test results saved successfully", "id": result.ID})
}

func newTestResult(body map[string]any, now time.Time) (models.TestResult, error) {
	for _, field := range []string{"patient", "category", "tests"} {
		if v, ok := body[field]; !ok || isBlank(v) {
			return models.TestResult{}, missingField(field)
		}
	}

	patientID, ok := toID(body["patient"])
	if !ok {
		return models.TestResult{}, invalidField("patient", "must be a patient id")
	}

	raw, ok := body["tests"].([]any)
	if !ok {
		return models.TestResult{}, invalidField("tests", "must be a list")
	}
	tests := make(datatypes.JSONSlice[models.TestEntry], 0, len(raw))
	for _, item := range raw {
		entry, ok := item.(map[string]any)
		if !ok {
			return models.TestResult{}, invalidField("tests", "every entry must be an object")
		}
		tests = append(tests, models.TestEntry(entry))
	}

	timestamp := now
	if v, ok := body["timestamp"]; ok && v != nil {
		ts, ok := parseTimestamp(v)
		if !ok {
			return models.TestResult{}, invalidField("timestamp", "must be an ISO-8601 date-time")
		}
		timestamp = ts
	}

	return models.TestResult{
		PatientID: patientID,
		Category:  stringify(body["category"]),
		Tests:     tests,
		Notes:     stringify(body["notes"]),
		Timestamp: timestamp,
	}, nil
}

func (h *Handler) ListTestResults(c *gin.Context) {
	results := []models.TestResult{}
	if err := h.conn(c).Order("timestamp desc").Find(&results).Error; err != nil {
		respondError(c, h.log, &PersistenceError{Message: "Failed to fetch test results", Err: err})
		return
	}
	c.JSON(http.StatusOK, results)
}

// ListTestResultsByPatient returns an empty list both for patients without
// results and for unknown patient ids.
func (h *Handler) ListTestResultsByPatient(c *gin.Context) {
	patientID, err := parseID(c, "patient_id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	results := []models.TestResult{}
	if err := h.conn(c).Where("patient_id = ?", patientID).Order("timestamp desc").Find(&results).Error; err != nil {
		respondError(c, h.log, &PersistenceError{Message: "Failed to fetch test results", Err: err})
		return
	}
	c.JSON(http.StatusOK, results)
}
