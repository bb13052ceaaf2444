package batch

import (
	"encoding/json"
	"net/http"

	"Furnace/internal/auth"
	"Furnace/internal/calc/balance"
	"Furnace/internal/calc/leaching"
	"Furnace/internal/record"
)

type Handler struct {
	Store record.Saver
}

func (h *Handler) Leaching(w http.ResponseWriter, r *http.Request) {
	var input LeachingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		balance.WriteBadPayload(w)
		return
	}
	h.run(w, r, input)
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request, input LeachingInput) {
	res, err := CalculateLeaching(input)
	if err != nil {
		balance.WriteFailure(w, err)
		return
	}
	if input.SaveTest {
		userID, _ := auth.UserID(r.Context())
		res.Saved, err = SaveLeaching(r.Context(), h.Store, input.Items, res.Results, userID)
		if err != nil {
			balance.WriteFailure(w, err)
			return
		}
	}
	balance.WriteResult(w, balance.Response{Results: res, Saved: input.SaveTest})
}

type referenceResponse struct {
	Success bool                    `json:"success"`
	Runs    []leaching.ReferenceRun `json:"runs"`
}

// Reference lists the reference leaching series on GET and calculates it on
// POST; ?save=true stores the results.
func (h *Handler) Reference(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		balance.WriteJSON(w, http.StatusOK, referenceResponse{Success: true, Runs: leaching.Reference()})
		return
	}
	input := ReferenceInput()
	input.SaveTest = r.URL.Query().Get("save") == "true"
	h.run(w, r, input)
}
