package handler

import (
	"net/http"

	"jobboard/internal/admin"
	"jobboard/internal/auth"
	"jobboard/internal/jobs"
)

type AdminHandler struct {
	Svc  *admin.Service
	Jobs *jobs.Service
}

type roleReq struct {
	Role string `json:"role"`
}

func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	out, err := h.Svc.ListUsers(r.Context(), caller(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AdminHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req roleReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.Svc.UpdateUserRole(r.Context(), caller(r), id, req.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Message string         `json:"message"`
		User    *auth.UserView `json:"user"`
	}{"User role updated successfully", u})
}

func (h *AdminHandler) PendingJobs(w http.ResponseWriter, r *http.Request) {
	out, err := h.Jobs.ListPending(r.Context(), caller(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AdminHandler) ApproveJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := h.Jobs.Approve(r.Context(), caller(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Message string     `json:"message"`
		Job     *jobs.View `json:"job"`
	}{"Job approved successfully", v})
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.Svc.DashboardStats(r.Context(), caller(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *AdminHandler) Reports(w http.ResponseWriter, r *http.Request) {
	out, err := h.Svc.ListReports(r.Context(), caller(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
