package entity

import "time"

const (
	// MaxStepsPerNotebook caps how many steps a single notebook may hold.
	MaxStepsPerNotebook = 100
	// MinOrderId and MaxOrderId bound every caller-chosen order id.
	MinOrderId = 0
	MaxOrderId = 100
)

type Notebook struct {
	Id         string
	Name       string
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// NotebookStep is a ranked item owned by exactly one notebook.
// OrderId is a presentation rank, not a dense index.
type NotebookStep struct {
	StepId     int64
	OrderId    int
	NotebookId string
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// StepOrder is one requested (step, new position) pair of a reorder.
type StepOrder struct {
	StepId  int64
	OrderId int
}
