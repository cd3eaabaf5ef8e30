package models

type Question struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Question   string `json:"question" gorm:"type:text"`
	Answer     string `json:"answer" gorm:"type:text"`
	Category   uint   `json:"category" gorm:"index"`
	Difficulty int    `json:"difficulty"`
}
