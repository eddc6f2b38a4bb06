package reservation

import "github.com/shopspring/decimal"

// Task wire statuses as observed by the progress calculator. The task package
// owns these values; they are repeated here so the dependency only runs
// task -> reservation.
const (
	taskPending    = "PENDIENTE"
	taskInProgress = "EN_PROCESO"
	taskCompleted  = "COMPLETADA"
)

var hundred = decimal.NewFromInt(100)

type ProgressResult struct {
	Status     Status
	Percentage decimal.Decimal
}

// Recompute derives the reservation's status and progress percentage from its
// tasks, after one task moved prevTask -> nextTask.
//
// Rules:
// - A task starting (Pendiente -> EnProceso) while the reservation is
//   PROGRAMADA puts the reservation ENCURSO (first task starts the event).
// - All tasks COMPLETADA (non-empty list) finishes the reservation at 100.
// - Otherwise the percentage is completed/total x 100 and status is kept.
// - An empty task list means nothing to derive: ok is false and the caller
//   must not write anything.
func Recompute(current Status, prevTask, nextTask string, taskStatuses []string) (ProgressResult, bool) {
	if len(taskStatuses) == 0 {
		return ProgressResult{}, false
	}

	status := current
	if prevTask == taskPending && nextTask == taskInProgress && current == StatusScheduled {
		status = StatusInProgress
	}

	completed := 0
	for _, s := range taskStatuses {
		if s == taskCompleted {
			completed++
		}
	}

	if completed == len(taskStatuses) {
		return ProgressResult{Status: StatusFinished, Percentage: hundred}, true
	}

	pct := decimal.NewFromInt(int64(completed)).
		Div(decimal.NewFromInt(int64(len(taskStatuses)))).
		Mul(hundred).
		Round(2)
	return ProgressResult{Status: status, Percentage: pct}, true
}
