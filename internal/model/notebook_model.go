package model

import "time"

type Notebook struct {
	Id         string         `gorm:"type:varchar(36);primaryKey"`
	Name       string         `gorm:"type:varchar(255);not null"`
	CreatedAt  time.Time      `gorm:"not null"`
	ModifiedAt time.Time      `gorm:"not null"`
	Steps      []NotebookStep `gorm:"foreignKey:NotebookId;references:Id;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (Notebook) TableName() string {
	return "notebooks"
}
