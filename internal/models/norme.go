package models

import "gorm.io/gorm"

// Каталог норм и стандартов (ISO 27001, ANSSI, внутренние политики и т.п.)
type Norme struct {
	gorm.Model
	Code        string `gorm:"size:32;uniqueIndex"`
	Name        string `gorm:"size:255;not null"`
	Description string `gorm:"type:text"`
}
