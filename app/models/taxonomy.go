package models

type Brand struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;not null;uniqueIndex" json:"name"`
}

func (Brand) TableName() string { return "brands" }

// Category owns its subcategories.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;not null;uniqueIndex" json:"name"`

	Subcategories []Subcategory `gorm:"foreignKey:CategoryID" json:"subcategories"`
}

func (Category) TableName() string { return "categories" }

type Subcategory struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	CategoryID uint   `gorm:"not null;index" json:"category_id"`
	Name       string `gorm:"size:255;not null" json:"name"`
}

func (Subcategory) TableName() string { return "subcategories" }
