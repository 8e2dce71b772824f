// Package flow is the conversation state machine: a pure decision function
// from (current state, incoming text, task list) to (next state, reply,
// optional task mutation). One user turn consumes exactly one transition.
package flow

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskping/taskping/internal/deadline"
	"github.com/taskping/taskping/internal/model"
)

// Mutation is the task-store change a transition asks the caller to apply.
// At most one of the fields is set.
type Mutation struct {
	AddTask     *model.Task
	RemoveIndex int // 1-based into the current sorted list; 0 means none
}

type Result struct {
	State    model.ConversationState
	Reply    string
	Mutation *Mutation
}

// Machine evaluates transitions. NewID and Now exist so tests can pin ids
// and instants; both default to the obvious implementations.
type Machine struct {
	NewID func() string
	Now   func() time.Time
}

type stateKey struct {
	kind model.StateKind
	step model.AddStep
}

type transition func(m *Machine, state model.ConversationState, text string, tasks []model.Task) Result

// transitions is the explicit state table. Adding a step means adding a
// row here, not scattering another string switch.
var transitions = map[stateKey]transition{
	{model.StateIdle, ""}:                   handleIdle,
	{model.StateAdding, model.StepName}:     handleAddName,
	{model.StateAdding, model.StepPriority}: handleAddPriority,
	{model.StateAdding, model.StepDeadline}: handleAddDeadline,
	{model.StateCompleting, ""}:             handleCompleting,
	{model.StateDeleting, ""}:               handleDeleting,
}

// Handle applies one user turn. The global cancel command wins over any
// in-flow parsing in every non-idle state.
func (m *Machine) Handle(state model.ConversationState, text string, tasks []model.Task) Result {
	trimmed := strings.TrimSpace(text)

	if state.Kind != model.StateIdle && isCancel(trimmed) {
		return Result{State: model.Idle(), Reply: cancelReply(state.Kind)}
	}

	key := stateKey{kind: state.Kind}
	if state.Kind == model.StateAdding {
		key.step = state.Step
	}
	next, ok := transitions[key]
	if !ok {
		// Unknown state shapes degrade to idle handling.
		next = handleIdle
	}
	return next(m, state, text, tasks)
}

func handleIdle(m *Machine, _ model.ConversationState, text string, tasks []model.Task) Result {
	switch strings.TrimSpace(text) {
	case "add task":
		return Result{
			State: model.ConversationState{Kind: model.StateAdding, Step: model.StepName},
			Reply: promptName,
		}
	case "list tasks":
		if len(tasks) == 0 {
			return Result{State: model.Idle(), Reply: replyNoTasks}
		}
		return Result{State: model.Idle(), Reply: formatTaskList(tasks)}
	case "complete task":
		if len(tasks) == 0 {
			return Result{State: model.Idle(), Reply: replyNoTasks}
		}
		return Result{
			State: model.ConversationState{Kind: model.StateCompleting},
			Reply: promptIndex(tasks, "complete"),
		}
	case "delete task":
		if len(tasks) == 0 {
			return Result{State: model.Idle(), Reply: replyNoTasks}
		}
		return Result{
			State: model.ConversationState{Kind: model.StateDeleting},
			Reply: promptIndex(tasks, "delete"),
		}
	default:
		// Unrecognized idle input is echoed back verbatim.
		return Result{State: model.Idle(), Reply: text}
	}
}

func handleAddName(_ *Machine, state model.ConversationState, text string, _ []model.Task) Result {
	name := strings.TrimSpace(text)
	if name == "" {
		return Result{State: state, Reply: promptName}
	}
	return Result{
		State: model.ConversationState{
			Kind:      model.StateAdding,
			Step:      model.StepPriority,
			DraftName: name,
		},
		Reply: promptPriority,
	}
}

func handleAddPriority(_ *Machine, state model.ConversationState, text string, _ []model.Task) Result {
	priority, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || priority < model.PriorityMin || priority > model.PriorityMax {
		return Result{State: state, Reply: promptPriority}
	}
	next := state
	next.Step = model.StepDeadline
	next.DraftPriority = priority
	return Result{State: next, Reply: promptDeadline}
}

func handleAddDeadline(m *Machine, state model.ConversationState, text string, _ []model.Task) Result {
	d, err := deadline.Parse(text, m.now())
	if err != nil {
		return Result{State: state, Reply: promptDeadline}
	}
	task := model.Task{
		ID:        m.newID(),
		Name:      state.DraftName,
		Priority:  state.DraftPriority,
		Deadline:  d,
		SentSlots: []string{},
	}
	return Result{
		State:    model.Idle(),
		Reply:    replyTaskAdded,
		Mutation: &Mutation{AddTask: &task},
	}
}

func handleCompleting(_ *Machine, state model.ConversationState, text string, tasks []model.Task) Result {
	index, ok := parseIndex(text, len(tasks))
	if !ok {
		return Result{State: state, Reply: promptIndex(tasks, "complete")}
	}
	return Result{
		State:    model.Idle(),
		Reply:    "done: " + tasks[index-1].Name,
		Mutation: &Mutation{RemoveIndex: index},
	}
}

func handleDeleting(_ *Machine, state model.ConversationState, text string, tasks []model.Task) Result {
	index, ok := parseIndex(text, len(tasks))
	if !ok {
		return Result{State: state, Reply: promptIndex(tasks, "delete")}
	}
	return Result{
		State:    model.Idle(),
		Reply:    "deleted: " + tasks[index-1].Name,
		Mutation: &Mutation{RemoveIndex: index},
	}
}

func parseIndex(text string, n int) (int, bool) {
	index, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || index < 1 || index > n {
		return 0, false
	}
	return index, true
}

func isCancel(text string) bool {
	return text == "cancel" || text == "キャンセル"
}

func (m *Machine) newID() string {
	if m.NewID != nil {
		return m.NewID()
	}
	return uuid.NewString()
}

func (m *Machine) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}
