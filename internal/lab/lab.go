// Package lab serves stored experiments: lists, details, dashboards and
// spreadsheet exports.
package lab

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"Furnace/internal/analytics"
	"Furnace/internal/auth"
	"Furnace/internal/calc/balance"
	"Furnace/internal/calc/importer"
	"Furnace/internal/calc/report"
	"Furnace/internal/record"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	Store record.Reader
}

type listResponse struct {
	Success     bool                `json:"success"`
	Process     record.Process      `json:"process"`
	Count       int                 `json:"count"`
	Experiments []record.Experiment `json:"experiments"`
}

type detailResponse struct {
	Success    bool               `json:"success"`
	Experiment *record.Experiment `json:"experiment"`
	Highlights []string           `json:"highlights"`
}

type dashboardResponse struct {
	Success bool           `json:"success"`
	Process record.Process `json:"process"`
	Results any            `json:"results"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	balance.WriteJSON(w, status, balance.Response{Error: msg})
}

// load returns the experiments of the {process} route variable that pass the
// query filters. ?mine=true keeps only the caller's experiments. It writes the
// error response itself and reports false on failure.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) (record.Process, []record.Experiment, bool) {
	p, ok := record.ParseProcess(mux.Vars(r)["process"])
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown process")
		return "", nil, false
	}
	q := r.URL.Query()
	filter, err := analytics.ParseFilter(p, q)
	if err != nil {
		balance.WriteFailure(w, err)
		return "", nil, false
	}
	exps, err := h.Store.ListExperiments(r.Context(), p)
	if err != nil {
		balance.WriteFailure(w, err)
		return "", nil, false
	}
	exps = analytics.Apply(exps, filter)
	if q.Get("mine") == "true" {
		userID, ok := auth.UserID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return "", nil, false
		}
		mine := exps[:0]
		for _, e := range exps {
			if e.CreatedBy == userID {
				mine = append(mine, e)
			}
		}
		exps = mine
	}
	return p, exps, true
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	p, exps, ok := h.load(w, r)
	if !ok {
		return
	}
	if exps == nil {
		exps = []record.Experiment{}
	}
	balance.WriteJSON(w, http.StatusOK, listResponse{Success: true, Process: p, Count: len(exps), Experiments: exps})
}

func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid experiment id")
		return
	}
	exp, err := h.Store.GetExperiment(r.Context(), id)
	if errors.Is(err, record.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Experiment not found")
		return
	}
	if err != nil {
		balance.WriteFailure(w, err)
		return
	}
	balance.WriteJSON(w, http.StatusOK, detailResponse{Success: true, Experiment: exp, Highlights: report.Highlights(*exp)})
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	p, exps, ok := h.load(w, r)
	if !ok {
		return
	}
	balance.WriteJSON(w, http.StatusOK, dashboardResponse{Success: true, Process: p, Results: analytics.Overview(p, exps)})
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	p, exps, ok := h.load(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := importer.Export(&buf, string(p), exps); err != nil {
		zap.L().Error("export experiments", zap.String("process", string(p)), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Export error")
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", string(p)+".xlsx"))
	if _, err := buf.WriteTo(w); err != nil {
		zap.L().Warn("export write", zap.Error(err))
	}
}
