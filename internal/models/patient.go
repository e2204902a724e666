package models

// Patient defines the structure for patient records.
type Patient struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	FullName      string `json:"full_name" gorm:"size:100;not null"`
	Age           int    `json:"age" gorm:"not null"`
	Gender        string `json:"gender" gorm:"size:10;not null"`
	ContactNumber string `json:"contact_number" gorm:"size:20;not null"`
	Email         string `json:"email" gorm:"size:100;not null"`
	PatientCode   string `json:"patient_code" gorm:"size:20;not null;uniqueIndex"`
	RefBy         string `json:"ref_by" gorm:"size:100"`
	Address       string `json:"address" gorm:"size:200;not null"`
}
