package record

import (
	"context"
	"encoding/json"
	"time"

	"Furnace/internal/calc/balance"

	"github.com/rotisserie/eris"
)

// ErrNoStore is returned when a save is requested but no store is configured.
var ErrNoStore = eris.New("record: persistence is not configured")

// ErrNotFound is returned by a Reader for an unknown experiment id.
var ErrNotFound = eris.New("record: experiment not found")

type Process string

const (
	ProcessAntimony  Process = "antimony"
	ProcessFlotation Process = "flotation"
	ProcessLeaching  Process = "leaching"
	ProcessSorption  Process = "sorption"
)

var Processes = []Process{ProcessAntimony, ProcessFlotation, ProcessLeaching, ProcessSorption}

func ParseProcess(s string) (Process, bool) {
	for _, p := range Processes {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// ElementValue is one element in one output stream.
type ElementValue struct {
	Element    balance.Element `json:"element"`
	Content    float64         `json:"content"`
	Grams      float64         `json:"grams"`
	Extraction float64         `json:"extraction"`
}

// Stream is an output product of an experiment: a cake, a solution, a
// concentrate, a slag.
type Stream struct {
	Name         string         `json:"name"`
	MassOrVolume float64        `json:"mass_or_volume"`
	YieldPercent *float64       `json:"yield_percentage,omitempty"`
	Elements     []ElementValue `json:"elements"`
}

func (s Stream) Element(e balance.Element) (ElementValue, bool) {
	for _, v := range s.Elements {
		if v.Element == e {
			return v, true
		}
	}
	return ElementValue{}, false
}

// Experiment is a stored calculation. Number is sequential per process and is
// assigned by the store.
type Experiment struct {
	ID        int64              `json:"id"`
	Process   Process            `json:"process"`
	Number    int                `json:"number"`
	CreatedAt time.Time          `json:"date_conducted"`
	CreatedBy int                `json:"created_by,omitempty"`
	Input     json.RawMessage    `json:"input,omitempty"`
	Tags      map[string]string  `json:"tags,omitempty"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
	Streams   []Stream           `json:"streams,omitempty"`
}

func (e Experiment) Stream(name string) (Stream, bool) {
	for _, s := range e.Streams {
		if s.Name == name {
			return s, true
		}
	}
	return Stream{}, false
}

// Metric returns a metric value or 0 when absent.
func (e Experiment) Metric(name string) float64 {
	return e.Metrics[name]
}

func (e Experiment) Tag(name string) string {
	return e.Tags[name]
}

func (e Experiment) Flag(name string) bool {
	return e.Tags[name] == "true"
}

type Saver interface {
	SaveExperiment(ctx context.Context, exp *Experiment) error
}

type Reader interface {
	ListExperiments(ctx context.Context, process Process) ([]Experiment, error)
	GetExperiment(ctx context.Context, id int64) (*Experiment, error)
}

type Store interface {
	Saver
	Reader
}

func Ptr(v float64) *float64 { return &v }

func FormatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// Save stores exp and stamps resp with the assigned id and number.
func Save(ctx context.Context, s Saver, exp *Experiment, resp *balance.Response) error {
	if s == nil {
		return ErrNoStore
	}
	if err := s.SaveExperiment(ctx, exp); err != nil {
		return eris.Wrapf(err, "record: save %s experiment", exp.Process)
	}
	resp.TestID = exp.ID
	resp.TestNumber = exp.Number
	resp.Saved = true
	return nil
}

// Extraction builds an element entry, taking extraction relative to loaded.
func Extraction(e balance.Element, content, grams, loaded float64) ElementValue {
	return ElementValue{Element: e, Content: content, Grams: grams, Extraction: balance.Percent(grams, loaded)}
}
