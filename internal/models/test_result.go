package models

import (
	"time"

	"gorm.io/datatypes"
)

// TestEntry is one schema-free row of a test result, e.g.
// {"testName": "HbA1c", "value": "5.9", "unit": "%", "normalRange": "4.4–6.7"}.
type TestEntry map[string]any

// TestResult is a batch of test entries recorded for one patient under one category.
type TestResult struct {
	ID        uint                           `json:"id" gorm:"primaryKey"`
	PatientID uint                           `json:"patient_id" gorm:"not null;index"` // no DB foreign key: results may outlive their patient
	Category  string                         `json:"category" gorm:"size:50;not null"`
	Tests     datatypes.JSONSlice[TestEntry] `json:"tests" gorm:"not null"`
	Notes     string                         `json:"notes" gorm:"type:text"`
	Timestamp time.Time                      `json:"timestamp" gorm:"index"`
}
