package importer

import (
	"net/http"
	"path/filepath"
	"strings"

	"Furnace/internal/auth"
	"Furnace/internal/calc/balance"
	"Furnace/internal/record"

	"go.uber.org/zap"
)

type Handler struct {
	Store record.Saver
}

// Flotation imports an uploaded XLSX or JSON file from the "file" form field.
// ?save=true stores every row that calculates.
func (h *Handler) Flotation(w http.ResponseWriter, r *http.Request) {
	file, hdr, err := r.FormFile("file")
	if err != nil {
		balance.WriteJSON(w, http.StatusBadRequest, balance.Response{Error: "File required"})
		return
	}
	defer file.Close()

	var entries []Entry
	if strings.EqualFold(filepath.Ext(hdr.Filename), ".json") {
		entries, err = FromJSON(file)
	} else {
		entries, err = FromXLSX(file)
	}
	if err != nil {
		zap.L().Info("import rejected", zap.String("file", hdr.Filename), zap.Error(err))
		balance.WriteJSON(w, http.StatusBadRequest, balance.Response{Error: "Invalid file"})
		return
	}

	var saver record.Saver
	save := r.URL.Query().Get("save") == "true"
	if save {
		if h.Store == nil {
			balance.WriteFailure(w, record.ErrNoStore)
			return
		}
		saver = h.Store
	}
	userID, _ := auth.UserID(r.Context())
	rep, err := Flotation(r.Context(), entries, saver, userID)
	if err != nil {
		balance.WriteFailure(w, err)
		return
	}
	zap.L().Info("flotation import",
		zap.String("file", hdr.Filename),
		zap.Int("imported", rep.Imported),
		zap.Int("failed", rep.Failed))
	balance.WriteResult(w, balance.Response{Results: rep, Saved: save && rep.Imported > 0})
}
