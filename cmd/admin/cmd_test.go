package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/projectdesk/internal/app/models"
	"github.com/yigit/projectdesk/internal/app/repositories/memory"
)

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	users := []*models.User{
		{ID: "u1", Name: "Dr. Rao", Email: "rao@college.edu", Role: models.RoleTeacher, CreatedAt: base},
		{ID: "u2", Name: "Asha Verma", Email: "asha@college.edu", Role: models.RoleStudent, RollNumber: "CS-1", CreatedAt: base.Add(time.Minute)},
	}
	for _, u := range users {
		require.NoError(t, store.Users().Create(ctx, u))
	}

	out := &bytes.Buffer{}
	return &commandLine{users: store.Users(), storage: store.Name(), out: out}, out
}

func Test_commandLine_run(t *testing.T) {
	tests := []struct {
		name    string
		args    []string // without program name
		wantErr error
	}{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "listusers", args: []string{"listusers"}},
		{name: "migrate", args: []string{"migrate"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli, _ := setup(t)
			err := cli.run(append([]string{"admin"}, tt.args...))
			assert.Equal(t, tt.wantErr, err)
		})
	}
}

func Test_commandLine_listUsers(t *testing.T) {
	cli, out := setup(t)

	require.NoError(t, cli.run([]string{"admin", "listusers"}))

	assert.Equal(t, "Users in database:\n"+
		"- Dr. Rao (rao@college.edu) [teacher]\n"+
		"- Asha Verma (asha@college.edu) [student]\n"+
		"Total users: 2\n", out.String())
}

func Test_commandLine_migratePostgres(t *testing.T) {
	cli, out := setup(t)
	dir := t.TempDir()
	for _, name := range []string{"002_feed.sql", "001_init.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644))
	}
	cli.storage = "postgres"
	cli.migrationsDir = dir

	require.NoError(t, cli.run([]string{"admin", "migrate"}))

	assert.Equal(t, "applied 001 (001_init.sql)\n"+
		"applied 002 (002_feed.sql)\n"+
		"Storage \"postgres\" is up to date.\n", out.String())
}
