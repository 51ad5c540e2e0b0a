package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMigrator struct {
	upErr      error
	steps      int
	forced     int
	version    uint
	dirty      bool
	versionErr error
}

func (f *fakeMigrator) Up() error                    { return f.upErr }
func (f *fakeMigrator) Down() error                  { return nil }
func (f *fakeMigrator) Steps(n int) error            { f.steps = n; return nil }
func (f *fakeMigrator) Force(v int) error            { f.forced = v; return nil }
func (f *fakeMigrator) Version() (uint, bool, error) { return f.version, f.dirty, f.versionErr }

func TestRun_UpIgnoresNoChange(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(&fakeMigrator{upErr: migrate.ErrNoChange}, []string{"up"}, &out))
	assert.Contains(t, out.String(), "Migrated up")

	err := run(&fakeMigrator{upErr: errors.New("boom")}, []string{"up"}, &out)
	assert.ErrorContains(t, err, "boom")
}

func TestRun_Status(t *testing.T) {
	tests := []struct {
		name string
		m    *fakeMigrator
		want string
	}{
		{"fresh database", &fakeMigrator{versionErr: migrate.ErrNilVersion}, "No migrations applied"},
		{"clean", &fakeMigrator{version: 1}, "Version: 1, Dirty: false"},
		{"dirty", &fakeMigrator{version: 1, dirty: true}, "migrate force 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, run(tt.m, []string{"status"}, &out))
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestRun_NumberArguments(t *testing.T) {
	var out bytes.Buffer
	m := &fakeMigrator{}

	require.NoError(t, run(m, []string{"steps", "-1"}, &out))
	assert.Equal(t, -1, m.steps)
	require.NoError(t, run(m, []string{"force", "1"}, &out))
	assert.Equal(t, 1, m.forced)

	assert.Error(t, run(m, []string{"force"}, &out))
	assert.Error(t, run(m, []string{"steps", "x"}, &out))
}

func TestPgxURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/coeval?sslmode=disable", pgxURL("postgres://u:p@db:5432/coeval?sslmode=disable"))
	assert.Equal(t, "pgx5://db/coeval", pgxURL("postgresql://db/coeval"))
	assert.Equal(t, "pgx5://db/coeval", pgxURL("pgx5://db/coeval"))
}
