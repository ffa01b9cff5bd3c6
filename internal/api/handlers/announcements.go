package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/yourusername/notifyd/internal/db"
)

// ListAnnouncements handles GET /api/v1/announcements.
func (h *Handler) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.QueryContext(r.Context(), `
		SELECT id, name, cron_expr, type, data, enabled, next_run, last_run, created_at
		FROM announcements ORDER BY id`)
	if err != nil {
		fail(w, http.StatusInternalServerError, "query: "+err.Error())
		return
	}
	defer rows.Close()

	var list []db.Announcement
	for rows.Next() {
		var a db.Announcement
		if err := rows.Scan(&a.ID, &a.Name, &a.CronExpr, &a.Type, &a.Data,
			&a.Enabled, &a.NextRun, &a.LastRun, &a.CreatedAt); err != nil {
			continue
		}
		list = append(list, a)
	}
	ok(w, list)
}

// CreateAnnouncement handles POST /api/v1/announcements.
func (h *Handler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string            `json:"name"`
		CronExpr string            `json:"cron_expr"`
		Type     string            `json:"type"`
		Data     map[string]string `json:"data"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Name == "" || req.CronExpr == "" || req.Type == "" {
		fail(w, http.StatusBadRequest, "name, cron_expr and type are required")
		return
	}
	data := req.Data
	if data == nil {
		data = map[string]string{}
	}
	encoded, _ := json.Marshal(data)

	res, err := h.db.ExecContext(r.Context(), `
		INSERT INTO announcements (name, cron_expr, type, data) VALUES (?,?,?,?)`,
		req.Name, req.CronExpr, req.Type, string(encoded))
	if err != nil {
		fail(w, http.StatusInternalServerError, "insert: "+err.Error())
		return
	}
	id, _ := res.LastInsertId()
	if err := h.scheduler.AddJob(r.Context(), int(id)); err != nil {
		// Row exists but the cron expression did not parse; remove it so the
		// operator can retry instead of leaving a dead schedule behind.
		_, _ = h.db.ExecContext(r.Context(), `DELETE FROM announcements WHERE id=?`, id)
		fail(w, http.StatusBadRequest, "schedule: "+err.Error())
		return
	}
	ok(w, map[string]int64{"id": id})
}

// DeleteAnnouncement handles DELETE /api/v1/announcements/{id}.
func (h *Handler) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		fail(w, http.StatusBadRequest, "invalid id")
		return
	}
	h.scheduler.RemoveJob(id)
	if _, err := h.db.ExecContext(r.Context(), `DELETE FROM announcements WHERE id=?`, id); err != nil {
		fail(w, http.StatusInternalServerError, "delete: "+err.Error())
		return
	}
	ok(w, map[string]string{"message": "deleted"})
}
