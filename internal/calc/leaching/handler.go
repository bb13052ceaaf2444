package leaching

import (
	"encoding/json"
	"io"
	"net/http"

	"Furnace/internal/auth"
	"Furnace/internal/calc/balance"
	"Furnace/internal/record"
)

type Handler struct {
	Store record.Saver
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
	res, err := Calculate(input)
	if err != nil {
		balance.WriteFailure(w, err)
		return
	}
	resp := balance.Response{Results: res}
	if input.SaveTest {
		exp := Record(input, res)
		exp.Input = body
		exp.CreatedBy, _ = auth.UserID(r.Context())
		if err := record.Save(r.Context(), h.Store, &exp, &resp); err != nil {
			balance.WriteFailure(w, err)
			return
		}
	}
	balance.WriteResult(w, resp)
}
