package flow

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/taskping/taskping/internal/model"
)

// 2026-04-10 21:30 JST.
var testNow = time.Date(2026, 4, 10, 12, 30, 0, 0, time.UTC)

func testMachine() *Machine {
	return &Machine{
		NewID: func() string { return "id-1" },
		Now:   func() time.Time { return testNow },
	}
}

func TestAddFlowEndToEnd(t *testing.T) {
	m := testMachine()
	var tasks []model.Task

	r := m.Handle(model.Idle(), "add task", tasks)
	if r.State.Kind != model.StateAdding || r.State.Step != model.StepName {
		t.Fatalf("expected adding/name, got %+v", r.State)
	}
	if r.Mutation != nil {
		t.Fatal("entering the flow must not mutate the store")
	}

	r = m.Handle(r.State, "buy milk", tasks)
	if r.State.Step != model.StepPriority || r.State.DraftName != "buy milk" {
		t.Fatalf("expected priority step with draft name, got %+v", r.State)
	}

	r = m.Handle(r.State, "2", tasks)
	if r.State.Step != model.StepDeadline || r.State.DraftPriority != 2 {
		t.Fatalf("expected deadline step with draft priority, got %+v", r.State)
	}

	r = m.Handle(r.State, "tomorrow", tasks)
	if r.State.Kind != model.StateIdle {
		t.Fatalf("expected idle after completion, got %+v", r.State)
	}
	if r.Reply != "understood, reminders will follow by priority" {
		t.Fatalf("unexpected final reply: %q", r.Reply)
	}
	if r.Mutation == nil || r.Mutation.AddTask == nil {
		t.Fatal("expected an add mutation")
	}
	task := *r.Mutation.AddTask
	if task.Name != "buy milk" || task.Priority != 2 {
		t.Fatalf("unexpected task: %+v", task)
	}
	if task.Deadline.Month != 4 || task.Deadline.Day != 11 {
		t.Fatalf("expected tomorrow's date, got %s", task.Deadline)
	}
	if len(task.SentSlots) != 0 {
		t.Fatalf("new task must have empty sent slots, got %v", task.SentSlots)
	}
}

func TestAddFlowRepromptsWithoutAdvancing(t *testing.T) {
	m := testMachine()
	state := model.ConversationState{Kind: model.StateAdding, Step: model.StepPriority, DraftName: "buy milk"}

	for _, in := range []string{"0", "5", "high", ""} {
		r := m.Handle(state, in, nil)
		if r.State != state {
			t.Fatalf("input %q: state advanced to %+v", in, r.State)
		}
		if r.Mutation != nil {
			t.Fatalf("input %q: unexpected mutation", in)
		}
	}

	state = model.ConversationState{Kind: model.StateAdding, Step: model.StepDeadline, DraftName: "buy milk", DraftPriority: 2}
	r := m.Handle(state, "someday", nil)
	if r.State != state || r.Mutation != nil {
		t.Fatalf("rejected deadline must re-prompt in place, got %+v", r.State)
	}
}

func TestCancelDiscardsDraft(t *testing.T) {
	m := testMachine()
	state := model.ConversationState{Kind: model.StateAdding, Step: model.StepDeadline, DraftName: "buy milk", DraftPriority: 2}

	r := m.Handle(state, "cancel", nil)
	if r.State.Kind != model.StateIdle || r.Mutation != nil {
		t.Fatalf("cancel must return to idle without mutation, got %+v", r)
	}
	if r.Reply != "add cancelled" {
		t.Fatalf("unexpected cancel reply: %q", r.Reply)
	}

	// A fresh add starts a fresh draft, not a continuation.
	r = m.Handle(r.State, "add task", nil)
	if r.State.DraftName != "" || r.State.DraftPriority != 0 {
		t.Fatalf("expected clean draft, got %+v", r.State)
	}
}

func TestCancelSynonymsAndPerFlowAcks(t *testing.T) {
	m := testMachine()

	r := m.Handle(model.ConversationState{Kind: model.StateCompleting}, "キャンセル", nil)
	if r.State.Kind != model.StateIdle || r.Reply != "completion cancelled" {
		t.Fatalf("unexpected cancel result: %+v", r)
	}
	r = m.Handle(model.ConversationState{Kind: model.StateDeleting}, "cancel", nil)
	if r.Reply != "deletion cancelled" {
		t.Fatalf("unexpected cancel reply: %q", r.Reply)
	}
}

func TestIdleEchoesUnknownInput(t *testing.T) {
	m := testMachine()
	r := m.Handle(model.Idle(), "hello there", nil)
	if r.State.Kind != model.StateIdle || r.Reply != "hello there" || r.Mutation != nil {
		t.Fatalf("unexpected echo result: %+v", r)
	}
}

func TestListTasksSortedOutput(t *testing.T) {
	m := testMachine()
	tasks := []model.Task{
		{ID: "b", Name: "B", Priority: 1, Deadline: model.Deadline{Month: 4, Day: 12}},
		{ID: "a", Name: "A", Priority: 3, Deadline: model.Deadline{Month: 4, Day: 15}},
	}
	r := m.Handle(model.Idle(), "list tasks", tasks)
	want := "1. [P1] B (4月12日)\n2. [P3] A (4月15日)"
	if r.Reply != want {
		t.Fatalf("list reply = %q, want %q", r.Reply, want)
	}

	r = m.Handle(model.Idle(), "list tasks", nil)
	if r.Reply != "no tasks" {
		t.Fatalf("empty list reply = %q", r.Reply)
	}
}

func TestCompleteFlow(t *testing.T) {
	m := testMachine()
	tasks := []model.Task{
		{ID: "b", Name: "B", Priority: 1, Deadline: model.Deadline{Month: 4, Day: 12}},
		{ID: "a", Name: "A", Priority: 3, Deadline: model.Deadline{Month: 4, Day: 15}},
	}

	r := m.Handle(model.Idle(), "complete task", tasks)
	if r.State.Kind != model.StateCompleting {
		t.Fatalf("expected completing state, got %+v", r.State)
	}

	// Index 1 is B, the priority-1 task listed first.
	r = m.Handle(r.State, "1", tasks)
	if r.Reply != "done: B" {
		t.Fatalf("unexpected confirmation: %q", r.Reply)
	}
	if r.Mutation == nil || r.Mutation.RemoveIndex != 1 {
		t.Fatalf("expected remove index 1, got %+v", r.Mutation)
	}
	if r.State.Kind != model.StateIdle {
		t.Fatalf("expected idle after completion, got %+v", r.State)
	}
}

func TestCompleteFlowInvalidIndexReprompts(t *testing.T) {
	m := testMachine()
	tasks := []model.Task{{ID: "a", Name: "A", Priority: 2, Deadline: model.Deadline{Month: 4, Day: 12}}}
	state := model.ConversationState{Kind: model.StateCompleting}

	for _, in := range []string{"0", "2", "x"} {
		r := m.Handle(state, in, tasks)
		if r.State != state || r.Mutation != nil {
			t.Fatalf("input %q: expected re-prompt, got %+v", in, r)
		}
		// The current list is redisplayed with the prompt.
		if !containsLine(r.Reply, "1. [P2] A (4月12日)") {
			t.Fatalf("input %q: list not redisplayed: %q", in, r.Reply)
		}
	}
}

func TestDeleteFlowConfirmation(t *testing.T) {
	m := testMachine()
	tasks := []model.Task{{ID: "a", Name: "A", Priority: 2, Deadline: model.Deadline{Month: 4, Day: 12}}}

	r := m.Handle(model.ConversationState{Kind: model.StateDeleting}, "1", tasks)
	if r.Reply != "deleted: A" {
		t.Fatalf("unexpected confirmation: %q", r.Reply)
	}
	if r.Mutation == nil || r.Mutation.RemoveIndex != 1 {
		t.Fatalf("expected remove index 1, got %+v", r.Mutation)
	}
}

func TestCompleteWithNoTasksStaysIdle(t *testing.T) {
	m := testMachine()
	for _, cmd := range []string{"complete task", "delete task"} {
		r := m.Handle(model.Idle(), cmd, nil)
		if r.State.Kind != model.StateIdle || r.Reply != "no tasks" {
			t.Fatalf("command %q: expected idle no-tasks reply, got %+v", cmd, r)
		}
	}
}

func containsLine(s, line string) bool {
	return slices.Contains(strings.Split(s, "\n"), line)
}
