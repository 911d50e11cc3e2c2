package dto

import "time"

type CreateNotebookRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type NotebookResponse struct {
	Id         string    `json:"id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

// OrderId is a pointer so that an explicit 0 is distinguishable from a missing field.
type CreateNotebookStepRequest struct {
	OrderId *int `json:"order_id" validate:"required"`
}

type StepOrderRequest struct {
	StepId  int64 `json:"step_id" validate:"required"`
	OrderId *int  `json:"order_id" validate:"required"`
}

type ReorderStepsRequest struct {
	Steps []StepOrderRequest `json:"steps" validate:"dive"`
}

type NotebookStepResponse struct {
	StepId     int64     `json:"step_id"`
	OrderId    int       `json:"order_id"`
	NotebookId string    `json:"notebook_id"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}
