package deploy

import (
	"errors"

	"github.com/archway-warp/warp-cli/configs"
)

// ErrTaskNotFound signals that a manifest step has no task recorded in the current run.
var ErrTaskNotFound = errors.New("deployment task not found")

// Task tracks what a run has learned about one manifest step. Empty strings mean unresolved.
type Task struct {
	Step            configs.DeployStep
	CodeID          string
	ContractAddress string
}

// tasks preserves manifest order.
type tasks []*Task

func (ts tasks) find(id string) (*Task, bool) {
	for _, task := range ts {
		if task.Step.ID == id {
			return task, true
		}
	}
	return nil, false
}

func isTaskNotFound(err error) bool {
	return errors.Is(err, ErrTaskNotFound)
}
