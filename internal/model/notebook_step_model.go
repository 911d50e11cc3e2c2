package model

import "time"

// NotebookStep rows are unique per (notebook_id, order_id).
type NotebookStep struct {
	StepId     int64     `gorm:"primaryKey;autoIncrement"`
	OrderId    int       `gorm:"not null;uniqueIndex:idx_notebook_steps_notebook_order,priority:2"`
	NotebookId string    `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_notebook_steps_notebook_order,priority:1"`
	CreatedAt  time.Time `gorm:"not null"`
	ModifiedAt time.Time `gorm:"not null"`
}

func (NotebookStep) TableName() string {
	return "notebook_steps"
}
