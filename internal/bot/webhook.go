// Package bot wires the chat platform's inbound events and the periodic
// reminder trigger to the conversation state machine and the dispatch loop.
package bot

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/taskping/taskping/internal/flow"
	"github.com/taskping/taskping/internal/schedule"
	"github.com/taskping/taskping/internal/storage"
	"github.com/taskping/taskping/internal/transport"
)

type Handler struct {
	Repo          storage.Repository
	Transport     transport.Transport
	Machine       *flow.Machine
	Clock         schedule.Clock
	Logger        *slog.Logger
	AllowedUserID string
	RemindSecret  string
}

type webhookRequest struct {
	Events []event `json:"events"`
}

type event struct {
	Type       string `json:"type"`
	ReplyToken string `json:"replyToken"`
	Source     struct {
		UserID string `json:"userId"`
	} `json:"source"`
	Message struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"message"`
}

// ServeWebhook handles one inbound event batch. One user's events are
// processed sequentially in arrival order, so a multi-message batch walks
// the conversation flow one step at a time; distinct senders run in
// parallel. Each event is processed under its own recover, and a single
// failing event yields an aggregate 5xx without stopping the others.
func (h *Handler) ServeWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "malformed body")
		return
	}

	byUser := make(map[string][]event)
	order := make([]string, 0, len(req.Events))
	for _, ev := range req.Events {
		uid := ev.Source.UserID
		if _, seen := byUser[uid]; !seen {
			order = append(order, uid)
		}
		byUser[uid] = append(byUser[uid], ev)
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	for _, uid := range order {
		wg.Add(1)
		go func(events []event) {
			defer wg.Done()
			for _, ev := range events {
				if err := h.processEvent(r, ev); err != nil {
					h.logger().Error("event processing failed", "user_id", ev.Source.UserID, "error", err)
					mu.Lock()
					failed++
					mu.Unlock()
				}
			}
		}(byUser[uid])
	}
	wg.Wait()

	if failed > 0 {
		writeErr(w, http.StatusInternalServerError, fmt.Sprintf("%d event(s) failed", failed))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) processEvent(r *http.Request, ev event) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	if ev.Type != "message" || ev.Message.Type != "text" {
		return nil
	}
	ctx := r.Context()
	text := ev.Message.Text

	// Identity bootstrap: answered for any sender so the allow-list can be
	// configured in the first place.
	if strings.EqualFold(strings.TrimSpace(text), "my id") {
		return h.Transport.Reply(ctx, ev.ReplyToken, "your id: "+ev.Source.UserID)
	}
	if h.AllowedUserID == "" || ev.Source.UserID != h.AllowedUserID {
		return nil
	}

	userID := ev.Source.UserID
	state, err := h.Repo.GetState(ctx, userID)
	if err != nil {
		return fmt.Errorf("get state: %w", err)
	}
	tasks, err := h.Repo.GetTasks(ctx, userID)
	if err != nil {
		return fmt.Errorf("get tasks: %w", err)
	}

	res := h.Machine.Handle(state, text, tasks)

	if res.Mutation != nil {
		switch {
		case res.Mutation.AddTask != nil:
			if err := h.Repo.AddTask(ctx, userID, *res.Mutation.AddTask); err != nil {
				return fmt.Errorf("add task: %w", err)
			}
		case res.Mutation.RemoveIndex > 0:
			if err := h.Repo.RemoveTaskByIndex(ctx, userID, res.Mutation.RemoveIndex); err != nil {
				return fmt.Errorf("remove task: %w", err)
			}
		}
	}
	if err := h.Repo.SetState(ctx, userID, res.State); err != nil {
		return fmt.Errorf("set state: %w", err)
	}
	if err := h.Transport.Reply(ctx, ev.ReplyToken, res.Reply); err != nil {
		return fmt.Errorf("reply: %w", err)
	}
	return nil
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}
