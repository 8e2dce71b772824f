package storage

import (
	"encoding/json"

	"github.com/taskping/taskping/internal/deadline"
	"github.com/taskping/taskping/internal/model"
)

type taskRow struct {
	ID        string
	UserID    string
	Name      string
	Priority  int
	Deadline  string
	SentSlots string
	Position  int
}

type stateRow struct {
	UserID        string
	Kind          string
	Step          string
	DraftName     string
	DraftPriority int
}

// toModel decodes a stored row. Any malformed field is an error; callers
// drop such rows instead of surfacing them.
func (r taskRow) toModel() (model.Task, error) {
	d, err := deadline.ParseAbsolute(r.Deadline)
	if err != nil {
		return model.Task{}, err
	}
	slots := []string{}
	if r.SentSlots != "" {
		if err := json.Unmarshal([]byte(r.SentSlots), &slots); err != nil {
			return model.Task{}, err
		}
	}
	task := model.Task{
		ID:        r.ID,
		Name:      r.Name,
		Priority:  r.Priority,
		Deadline:  d,
		SentSlots: slots,
	}
	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func taskToRow(userID string, task model.Task, position int) (taskRow, error) {
	slots := task.SentSlots
	if slots == nil {
		slots = []string{}
	}
	encoded, err := json.Marshal(slots)
	if err != nil {
		return taskRow{}, err
	}
	return taskRow{
		ID:        task.ID,
		UserID:    userID,
		Name:      task.Name,
		Priority:  task.Priority,
		Deadline:  task.Deadline.String(),
		SentSlots: string(encoded),
		Position:  position,
	}, nil
}

// toModel maps a stored state row to the typed variant. Anything that does
// not validate collapses to idle.
func (r stateRow) toModel() model.ConversationState {
	state := model.ConversationState{
		Kind:          model.StateKind(r.Kind),
		Step:          model.AddStep(r.Step),
		DraftName:     r.DraftName,
		DraftPriority: r.DraftPriority,
	}
	if err := state.Validate(); err != nil {
		return model.Idle()
	}
	return state
}

func stateToRow(userID string, state model.ConversationState) stateRow {
	return stateRow{
		UserID:        userID,
		Kind:          string(state.Kind),
		Step:          string(state.Step),
		DraftName:     state.DraftName,
		DraftPriority: state.DraftPriority,
	}
}
