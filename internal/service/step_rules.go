package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"notebook-be/internal/entity"
	"notebook-be/internal/pkg/apperror"
)

// checkOrderRange rejects order ids outside [MinOrderId, MaxOrderId].
func checkOrderRange(orderId int) error {
	if orderId < entity.MinOrderId || orderId > entity.MaxOrderId {
		return apperror.New(apperror.InvalidOrder,
			fmt.Sprintf("order_id %d is out of range [%d, %d]", orderId, entity.MinOrderId, entity.MaxOrderId))
	}
	return nil
}

// ValidateNewStep checks a candidate order id against the notebook's current
// steps: capacity first, then order id uniqueness.
func ValidateNewStep(existing []*entity.NotebookStep, orderId int) error {
	if len(existing) >= entity.MaxStepsPerNotebook {
		return apperror.New(apperror.CapacityExceeded,
			fmt.Sprintf("notebook already holds the maximum of %d steps", entity.MaxStepsPerNotebook))
	}
	for _, step := range existing {
		if step.OrderId == orderId {
			return apperror.New(apperror.DuplicateOrder,
				fmt.Sprintf("order_id %d is already used by step %d", orderId, step.StepId))
		}
	}
	return nil
}

// ReorderPlan is the outcome of a validated reorder.
type ReorderPlan struct {
	// Steps holds every step of the notebook after the reorder, sorted by OrderId.
	Steps []*entity.NotebookStep
	// Ignored lists requested step ids that do not belong to the notebook.
	Ignored []int64
}

// PlanReorder validates desired against the notebook's current steps and
// returns the mutated copies. current is never modified.
//
// Checks run in order: range, duplicate order ids within the request, then
// coverage of every current step. A step id named twice takes its last order id.
func PlanReorder(current []*entity.NotebookStep, desired []entity.StepOrder, now time.Time) (*ReorderPlan, error) {
	for _, d := range desired {
		if err := checkOrderRange(d.OrderId); err != nil {
			return nil, err
		}
	}

	seenOrders := make(map[int]int64, len(desired))
	for _, d := range desired {
		if other, dup := seenOrders[d.OrderId]; dup {
			return nil, apperror.New(apperror.DuplicateOrder,
				fmt.Sprintf("order_id %d is requested for both step %d and step %d", d.OrderId, other, d.StepId))
		}
		seenOrders[d.OrderId] = d.StepId
	}

	requested := make(map[int64]struct{}, len(desired))
	for _, d := range desired {
		requested[d.StepId] = struct{}{}
	}
	var missing []string
	for _, step := range current {
		if _, ok := requested[step.StepId]; !ok {
			missing = append(missing, fmt.Sprint(step.StepId))
		}
	}
	if len(missing) > 0 {
		return nil, apperror.New(apperror.MissingSteps,
			fmt.Sprintf("reorder must name every step of the notebook, missing: %s", strings.Join(missing, ", ")))
	}

	byId := make(map[int64]*entity.NotebookStep, len(current))
	steps := make([]*entity.NotebookStep, 0, len(current))
	for _, step := range current {
		c := *step
		byId[c.StepId] = &c
		steps = append(steps, &c)
	}

	plan := &ReorderPlan{Steps: steps}
	for _, d := range desired {
		step, ok := byId[d.StepId]
		if !ok {
			plan.Ignored = append(plan.Ignored, d.StepId)
			continue
		}
		step.OrderId = d.OrderId
		step.ModifiedAt = bump(step.ModifiedAt, now)
	}

	sort.Slice(plan.Steps, func(i, j int) bool {
		return plan.Steps[i].OrderId < plan.Steps[j].OrderId
	})
	return plan, nil
}

// bump returns now, or prev plus one microsecond when the clock has not moved
// past prev. Callers pass times truncated to microseconds, the precision
// postgres keeps.
func bump(prev, now time.Time) time.Time {
	if now.After(prev) {
		return now
	}
	return prev.Add(time.Microsecond)
}
