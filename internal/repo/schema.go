package repo

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
)

const migration = `
CREATE TABLE IF NOT EXISTS users (
	id         {{id}},
	login      TEXT NOT NULL UNIQUE,
	email      TEXT NOT NULL,
	password   TEXT NOT NULL,
	created_at {{time}} NOT NULL
);

CREATE TABLE IF NOT EXISTS experiments (
	id         {{id}},
	process    TEXT NOT NULL,
	number     INTEGER NOT NULL,
	created_at {{time}} NOT NULL,
	created_by INTEGER,
	input      TEXT,
	tags       TEXT NOT NULL,
	metrics    TEXT NOT NULL,
	UNIQUE (process, number)
);

CREATE TABLE IF NOT EXISTS experiment_streams (
	id             {{id}},
	experiment_id  {{ref}} NOT NULL REFERENCES experiments(id) ON DELETE CASCADE,
	position       INTEGER NOT NULL,
	name           TEXT NOT NULL,
	mass_or_volume {{float}} NOT NULL,
	yield_percent  {{float}},
	UNIQUE (experiment_id, name)
);

CREATE TABLE IF NOT EXISTS stream_elements (
	stream_id  {{ref}} NOT NULL REFERENCES experiment_streams(id) ON DELETE CASCADE,
	position   INTEGER NOT NULL,
	element    TEXT NOT NULL,
	content    {{float}} NOT NULL,
	grams      {{float}} NOT NULL,
	extraction {{float}} NOT NULL,
	PRIMARY KEY (stream_id, element)
);

CREATE INDEX IF NOT EXISTS idx_experiments_process ON experiments(process);
CREATE INDEX IF NOT EXISTS idx_experiment_streams_experiment ON experiment_streams(experiment_id);
`

func (s *Store) ddl() string {
	var r *strings.Replacer
	if s.driver == Postgres {
		r = strings.NewReplacer(
			"{{id}}", "BIGSERIAL PRIMARY KEY",
			"{{ref}}", "BIGINT",
			"{{float}}", "DOUBLE PRECISION",
			"{{time}}", "TIMESTAMPTZ",
		)
	} else {
		r = strings.NewReplacer(
			"{{id}}", "INTEGER PRIMARY KEY AUTOINCREMENT",
			"{{ref}}", "INTEGER",
			"{{float}}", "REAL",
			"{{time}}", "TEXT",
		)
	}
	return r.Replace(migration)
}

// Migrate creates the schema. It is safe to run repeatedly.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, s.ddl())
	return eris.Wrapf(err, "%s: migrate", s.driver)
}
