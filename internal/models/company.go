package models

// Company is a referring clinic or lab.
type Company struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Name    string `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Address string `json:"address" gorm:"size:200"`
	Phone   string `json:"phone" gorm:"size:30"`
	Email   string `json:"email" gorm:"size:100"`
}
