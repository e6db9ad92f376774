package migration

import (
	"errors"
	"testing"
	"testing/fstest"
)

func TestFileScannerOrdersByNumericVersion(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"m/010_late.sql":     {Data: []byte("CREATE TABLE c (id TEXT);")},
		"m/002_second.sql":   {Data: []byte("-- Description: Second step\nCREATE TABLE b (id TEXT);")},
		"m/001_first.sql":    {Data: []byte("CREATE TABLE a (id TEXT);")},
		"m/README.md":        {Data: []byte("ignored")},
		"m/nested/003_x.sql": {Data: []byte("ignored")},
	}

	migrations, err := NewFileScanner(fsys).ScanMigrations("m")
	if err != nil {
		t.Fatalf("ScanMigrations failed: %v", err)
	}
	if len(migrations) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migrations))
	}

	wantOrder := []string{"001", "002", "010"}
	for i, want := range wantOrder {
		if migrations[i].Version != want {
			t.Errorf("position %d: expected version %s, got %s", i, want, migrations[i].Version)
		}
	}
	if migrations[0].Description != "first" {
		t.Errorf("expected description from filename, got %q", migrations[0].Description)
	}
	if migrations[1].Description != "Second step" {
		t.Errorf("expected description from comment, got %q", migrations[1].Description)
	}
	if len(migrations[0].Checksum) != 64 {
		t.Errorf("expected sha256 hex checksum, got %q", migrations[0].Checksum)
	}
}

func TestFileScannerRejectsInvalidFiles(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		fsys fstest.MapFS
		want error
	}{
		{
			name: "bad filename",
			fsys: fstest.MapFS{"m/init.sql": {Data: []byte("SELECT 1;")}},
			want: ErrInvalidMigrationFile,
		},
		{
			name: "duplicate version",
			fsys: fstest.MapFS{
				"m/001_a.sql":  {Data: []byte("SELECT 1;")},
				"m/0001_b.sql": {Data: []byte("SELECT 2;")},
			},
			want: ErrDuplicateVersion,
		},
		{
			name: "comment only",
			fsys: fstest.MapFS{"m/001_empty.sql": {Data: []byte("-- nothing here\n")}},
			want: ErrInvalidMigrationFile,
		},
		{
			name: "unbalanced parentheses",
			fsys: fstest.MapFS{"m/001_broken.sql": {Data: []byte("CREATE TABLE a (id TEXT;")}},
			want: ErrInvalidMigrationFile,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewFileScanner(tc.fsys).ScanMigrations("m")
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestEmbeddedMigrationsScan(t *testing.T) {
	t.Parallel()

	migrations, err := NewFileScanner(Files).ScanMigrations(Dir)
	if err != nil {
		t.Fatalf("embedded migrations must scan cleanly: %v", err)
	}
	if len(migrations) == 0 || migrations[0].Version != "001" {
		t.Fatalf("expected 001 as first embedded migration, got %+v", migrations)
	}
}

func TestParseSQLDropsComments(t *testing.T) {
	t.Parallel()

	statements := parseSQL("-- header\nCREATE TABLE a (id TEXT);\n\n-- between\nCREATE INDEX i ON a(id);\n")
	if len(statements) != 2 {
		t.Fatalf("expected 2 statements, got %d: %q", len(statements), statements)
	}
	if statements[0] != "CREATE TABLE a (id TEXT)" {
		t.Errorf("unexpected first statement %q", statements[0])
	}
}
