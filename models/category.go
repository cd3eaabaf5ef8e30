package models

type Category struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Type string `json:"type" gorm:"not null"`
}

// CategoryMap indexes category labels by id, the shape the trivia frontend
// renders in its sidebar.
func CategoryMap(categories []Category) map[uint]string {
	m := make(map[uint]string, len(categories))
	for _, category := range categories {
		m[category.ID] = category.Type
	}
	return m
}
