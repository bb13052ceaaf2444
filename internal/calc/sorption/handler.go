package sorption

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

type kineticsRequest struct {
	Base             Input         `json:"base"`
	TimePoints       []float64     `json:"time_points"`
	TargetExtraction balance.Float `json:"target_extraction"`
}

func (h *Handler) Kinetics(w http.ResponseWriter, r *http.Request) {
	var req kineticsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		balance.WriteBadPayload(w)
		return
	}
	series, err := h.Calculator.KineticSeries(req.Base, req.TimePoints)
	if err != nil {
		balance.WriteFailure(w, err)
		return
	}
	if req.TargetExtraction.Present {
		target, err := req.TargetExtraction.Require("target_extraction")
		if err != nil {
			balance.WriteFailure(w, err)
			return
		}
		temperature := h.Calculator.Constants.DefaultTemperature
		if len(series.Points) > 0 {
			temperature = series.Points[0].Temperature
		}
		t, err := h.Calculator.TimeToExtraction(temperature, target)
		if err != nil {
			balance.WriteFailure(w, err)
			return
		}
		series.TimeToTarget = &t
	}
	balance.WriteResult(w, balance.Response{Results: series})
}
