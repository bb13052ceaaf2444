package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"Furnace/internal/calc/balance"
	"Furnace/internal/record"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

var _ record.Store = (*Store)(nil)

// ErrNotFound is the record sentinel, wrapped with the missing id.
var ErrNotFound = record.ErrNotFound

// maxNumberAttempts bounds retries when a concurrent writer takes the same
// experiment number.
const maxNumberAttempts = 5

var errNumberTaken = eris.New("repo: experiment number taken")

// SaveExperiment assigns the next number of the experiment's process and
// stores the experiment with its streams in one transaction. ID, Number and
// CreatedAt are filled in on success.
func (s *Store) SaveExperiment(ctx context.Context, exp *record.Experiment) error {
	if exp.CreatedAt.IsZero() {
		exp.CreatedAt = time.Now().UTC()
	}
	var err error
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		err = s.insertExperiment(ctx, exp)
		if !errors.Is(err, errNumberTaken) {
			return err
		}
		zap.L().Debug("experiment number taken, retrying",
			zap.String("process", string(exp.Process)), zap.Int("attempt", attempt))
	}
	return eris.Wrapf(err, "repo: number %s experiment after %d attempts", exp.Process, maxNumberAttempts)
}

func (s *Store) insertExperiment(ctx context.Context, exp *record.Experiment) error {
	tags, err := json.Marshal(nonNilTags(exp.Tags))
	if err != nil {
		return eris.Wrap(err, "repo: marshal tags")
	}
	metrics, err := json.Marshal(nonNilMetrics(exp.Metrics))
	if err != nil {
		return eris.Wrap(err, "repo: marshal metrics")
	}
	var input sql.NullString
	if len(exp.Input) > 0 {
		input = sql.NullString{String: string(exp.Input), Valid: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "repo: begin")
	}
	defer tx.Rollback()

	var number int
	err = tx.QueryRowContext(ctx,
		s.rebind("SELECT COALESCE(MAX(number), 0) + 1 FROM experiments WHERE process = ?"),
		string(exp.Process),
	).Scan(&number)
	if err != nil {
		return eris.Wrap(err, "repo: next number")
	}

	var id int64
	err = tx.QueryRowContext(ctx,
		s.rebind(`INSERT INTO experiments (process, number, created_at, created_by, input, tags, metrics)
			VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		string(exp.Process), number, formatTime(exp.CreatedAt), exp.CreatedBy, input, string(tags), string(metrics),
	).Scan(&id)
	if err != nil {
		if s.isUniqueViolation(err) {
			return errNumberTaken
		}
		return eris.Wrap(err, "repo: insert experiment")
	}

	for i, st := range exp.Streams {
		var yield sql.NullFloat64
		if st.YieldPercent != nil {
			yield = sql.NullFloat64{Float64: *st.YieldPercent, Valid: true}
		}
		var streamID int64
		err = tx.QueryRowContext(ctx,
			s.rebind(`INSERT INTO experiment_streams (experiment_id, position, name, mass_or_volume, yield_percent)
				VALUES (?, ?, ?, ?, ?) RETURNING id`),
			id, i, st.Name, st.MassOrVolume, yield,
		).Scan(&streamID)
		if err != nil {
			return eris.Wrapf(err, "repo: insert stream %s", st.Name)
		}
		for j, el := range st.Elements {
			_, err = tx.ExecContext(ctx,
				s.rebind(`INSERT INTO stream_elements (stream_id, position, element, content, grams, extraction)
					VALUES (?, ?, ?, ?, ?, ?)`),
				streamID, j, string(el.Element), el.Content, el.Grams, el.Extraction,
			)
			if err != nil {
				return eris.Wrapf(err, "repo: insert %s in stream %s", el.Element, st.Name)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		if s.isUniqueViolation(err) {
			return errNumberTaken
		}
		return eris.Wrap(err, "repo: commit experiment")
	}
	exp.ID = id
	exp.Number = number
	return nil
}

const selectExperiment = `SELECT id, process, number, created_at, COALESCE(created_by, 0), input, tags, metrics FROM experiments`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExperiment(row rowScanner) (record.Experiment, error) {
	var (
		exp           record.Experiment
		process       string
		createdAt     string
		input         sql.NullString
		tags, metrics string
	)
	if err := row.Scan(&exp.ID, &process, &exp.Number, &createdAt, &exp.CreatedBy, &input, &tags, &metrics); err != nil {
		return exp, err
	}
	exp.Process = record.Process(process)
	t, err := parseTime(createdAt)
	if err != nil {
		return exp, err
	}
	exp.CreatedAt = t
	if input.Valid && input.String != "" {
		exp.Input = json.RawMessage(input.String)
	}
	if err := json.Unmarshal([]byte(tags), &exp.Tags); err != nil {
		return exp, eris.Wrapf(err, "repo: experiment %d tags", exp.ID)
	}
	if err := json.Unmarshal([]byte(metrics), &exp.Metrics); err != nil {
		return exp, eris.Wrapf(err, "repo: experiment %d metrics", exp.ID)
	}
	return exp, nil
}

// ListExperiments returns the experiments of a process ordered by number.
func (s *Store) ListExperiments(ctx context.Context, process record.Process) ([]record.Experiment, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(selectExperiment+" WHERE process = ? ORDER BY number"), string(process))
	if err != nil {
		return nil, eris.Wrapf(err, "repo: list %s", process)
	}
	defer rows.Close()

	var out []record.Experiment
	index := map[int64]int{}
	for rows.Next() {
		exp, err := scanExperiment(rows)
		if err != nil {
			return nil, eris.Wrapf(err, "repo: scan %s", process)
		}
		index[exp.ID] = len(out)
		out = append(out, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrapf(err, "repo: list %s", process)
	}
	rows.Close()

	if len(out) == 0 {
		return out, nil
	}
	streams, err := s.loadStreams(ctx, "e.process = ?", string(process))
	if err != nil {
		return nil, err
	}
	for expID, st := range streams {
		if i, ok := index[expID]; ok {
			out[i].Streams = st
		}
	}
	return out, nil
}

func (s *Store) GetExperiment(ctx context.Context, id int64) (*record.Experiment, error) {
	exp, err := scanExperiment(s.db.QueryRowContext(ctx, s.rebind(selectExperiment+" WHERE id = ?"), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, eris.Wrapf(ErrNotFound, "repo: experiment %d", id)
		}
		return nil, eris.Wrapf(err, "repo: get experiment %d", id)
	}
	streams, err := s.loadStreams(ctx, "e.id = ?", id)
	if err != nil {
		return nil, err
	}
	exp.Streams = streams[id]
	return &exp, nil
}

// loadStreams reads streams and their elements for the experiments matching
// where, keyed by experiment id, in stored order.
func (s *Store) loadStreams(ctx context.Context, where string, arg any) (map[int64][]record.Stream, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT st.experiment_id, st.id, st.name, st.mass_or_volume, st.yield_percent,
		       el.element, el.content, el.grams, el.extraction
		FROM experiment_streams st
		JOIN experiments e ON e.id = st.experiment_id
		LEFT JOIN stream_elements el ON el.stream_id = st.id
		WHERE `+where+`
		ORDER BY st.experiment_id, st.position, el.position`), arg)
	if err != nil {
		return nil, eris.Wrap(err, "repo: load streams")
	}
	defer rows.Close()

	out := map[int64][]record.Stream{}
	var lastStream int64 = -1
	for rows.Next() {
		var (
			expID, streamID int64
			name            string
			mass            float64
			yield           sql.NullFloat64
			element         sql.NullString
			content, grams  sql.NullFloat64
			extraction      sql.NullFloat64
		)
		if err := rows.Scan(&expID, &streamID, &name, &mass, &yield, &element, &content, &grams, &extraction); err != nil {
			return nil, eris.Wrap(err, "repo: scan stream")
		}
		if streamID != lastStream {
			st := record.Stream{Name: name, MassOrVolume: mass}
			if yield.Valid {
				st.YieldPercent = record.Ptr(yield.Float64)
			}
			out[expID] = append(out[expID], st)
			lastStream = streamID
		}
		if element.Valid {
			list := out[expID]
			cur := &list[len(list)-1]
			cur.Elements = append(cur.Elements, record.ElementValue{
				Element:    balance.Element(element.String),
				Content:    content.Float64,
				Grams:      grams.Float64,
				Extraction: extraction.Float64,
			})
		}
	}
	return out, eris.Wrap(rows.Err(), "repo: load streams")
}

func nonNilTags(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func nonNilMetrics(m map[string]float64) map[string]float64 {
	if m == nil {
		return map[string]float64{}
	}
	return m
}
