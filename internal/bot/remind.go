package bot

import (
	"net/http"

	"github.com/taskping/taskping/internal/schedule"
)

// ServeRemind handles the periodic reminder trigger. Missing configuration
// (no store, no allow-listed id) is answered with success on purpose: the
// periodic caller must never see a hard failure for expected
// non-configuration.
func (h *Handler) ServeRemind(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.RemindSecret != "" && r.URL.Query().Get("key") != h.RemindSecret {
		writeErr(w, http.StatusUnauthorized, "bad key")
		return
	}
	if h.Repo == nil || h.AllowedUserID == "" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "noop"})
		return
	}

	d := &schedule.Dispatcher{
		Store:    h.Repo,
		Notifier: h.Transport,
		Clock:    h.Clock,
		Logger:   h.Logger,
		UserID:   h.AllowedUserID,
	}
	if err := d.Run(r.Context()); err != nil {
		h.logger().Error("reminder dispatch failed", "error", err)
		writeErr(w, http.StatusInternalServerError, "dispatch failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
