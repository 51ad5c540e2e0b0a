package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements RecordStore over PostgreSQL. Records travel as
// JSON and are mapped onto table rows with json_populate_record, so column
// types stay owned by the migrations.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Read returns the rows of table matching field = value.
func (s *PostgresStore) Read(ctx context.Context, table Table, field string, value any) ([]Record, error) {
	if _, err := Columns(table); err != nil {
		return nil, err
	}

	tbl := pgx.Identifier{string(table)}.Sanitize()
	query := fmt.Sprintf(`SELECT row_to_json(t) FROM %s t`, tbl)
	args := []any{}
	if field != "" {
		if err := checkColumn(table, field); err != nil {
			return nil, err
		}
		query += fmt.Sprintf(` WHERE t.%s = $1`, pgx.Identifier{field}.Sanitize())
		args = append(args, value)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("decode %s row: %w", table, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Insert writes all records in one transaction.
func (s *PostgresStore) Insert(ctx context.Context, table Table, records ...Record) error {
	if len(records) == 0 {
		return nil
	}
	tbl := pgx.Identifier{string(table)}.Sanitize()

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, rec := range records {
			cols, err := knownFields(table, rec)
			if err != nil {
				return err
			}
			list := identList(cols)
			payload, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("marshal record: %w", err)
			}
			query := fmt.Sprintf(
				`INSERT INTO %s (%s) SELECT %s FROM json_populate_record(NULL::%s, $1::json)`,
				tbl, list, list, tbl,
			)
			if _, err := tx.Exec(ctx, query, string(payload)); err != nil {
				return err
			}
		}
		return nil
	})
	return translate(table, "insert", err)
}

// Update applies fields to the row whose idColumn equals idValue.
func (s *PostgresStore) Update(ctx context.Context, table Table, idColumn string, idValue any, fields Record) error {
	if err := checkColumn(table, idColumn); err != nil {
		return err
	}
	cols, err := knownFields(table, fields)
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		return nil
	}

	sets := make([]string, len(cols))
	for i, c := range cols {
		id := pgx.Identifier{c}.Sanitize()
		sets[i] = fmt.Sprintf("%s = src.%s", id, id)
	}
	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal fields: %w", err)
	}

	tbl := pgx.Identifier{string(table)}.Sanitize()
	query := fmt.Sprintf(
		`UPDATE %s AS dst SET %s FROM json_populate_record(NULL::%s, $1::json) AS src WHERE dst.%s = $2`,
		tbl, strings.Join(sets, ", "), tbl, pgx.Identifier{idColumn}.Sanitize(),
	)

	tag, err := s.pool.Exec(ctx, query, string(payload), idValue)
	if err != nil {
		return translate(table, "update", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the row whose idColumn equals idValue.
func (s *PostgresStore) Delete(ctx context.Context, table Table, idColumn string, idValue any) error {
	if err := checkColumn(table, idColumn); err != nil {
		return err
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		pgx.Identifier{string(table)}.Sanitize(), pgx.Identifier{idColumn}.Sanitize())

	tag, err := s.pool.Exec(ctx, query, idValue)
	if err != nil {
		return translate(table, "delete", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func identList(cols []string) string {
	ids := make([]string, len(cols))
	for i, c := range cols {
		ids[i] = pgx.Identifier{c}.Sanitize()
	}
	return strings.Join(ids, ", ")
}

func translate(table Table, op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%s %s: %w", op, table, ErrConflict)
	}
	return fmt.Errorf("%s %s: %w", op, table, err)
}
