package antimony

import (
	"encoding/json"
	"io"
	"net/http"

	"Furnace/internal/auth"
	"Furnace/internal/calc/balance"
	"Furnace/internal/record"
)

type Handler struct {
	Calculator Calculator
	Store      record.Saver
}

func NewHandler(store record.Saver) *Handler {
	return &Handler{Calculator: New(), Store: store}
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		balance.WriteBadPayload(w)
		return
	}
	var input Input
	if err := json.Unmarshal(body, &input); err != nil {
		balance.WriteBadPayload(w)
		return
	}
	res, err := h.Calculator.Calculate(input)
	if err != nil {
		balance.WriteFailure(w, err)
		return
	}
	resp := balance.Response{Results: res}
	if input.SaveTest {
		exp := Record(h.Calculator.Resolve(input), res)
		exp.Input = body
		exp.CreatedBy, _ = auth.UserID(r.Context())
		if err := record.Save(r.Context(), h.Store, &exp, &resp); err != nil {
			balance.WriteFailure(w, err)
			return
		}
	}
	balance.WriteResult(w, resp)
}
