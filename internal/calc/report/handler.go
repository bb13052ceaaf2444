package report

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"Furnace/internal/calc/balance"
	"Furnace/internal/record"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Handler struct {
	Store record.Reader
}

// Experiment serves the PDF of the experiment named by the {id} route variable.
func (h *Handler) Experiment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		balance.WriteJSON(w, http.StatusBadRequest, balance.Response{Error: "Invalid experiment id"})
		return
	}
	exp, err := h.Store.GetExperiment(r.Context(), id)
	if errors.Is(err, record.ErrNotFound) {
		balance.WriteJSON(w, http.StatusNotFound, balance.Response{Error: "Experiment not found"})
		return
	}
	if err != nil {
		balance.WriteFailure(w, err)
		return
	}

	var buf bytes.Buffer
	if err := Render(&buf, *exp); err != nil {
		zap.L().Error("report generation", zap.Int64("id", id), zap.Error(err))
		balance.WriteJSON(w, http.StatusInternalServerError, balance.Response{Error: "Report generation error"})
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", Filename(*exp)))
	if _, err := buf.WriteTo(w); err != nil {
		zap.L().Warn("report write", zap.Int64("id", id), zap.Error(err))
	}
}
