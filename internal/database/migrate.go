package database

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Migration is one versioned pair of PostgreSQL up/down scripts, read from
// files named NNNNNN_name.up.sql and NNNNNN_name.down.sql.
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

func (m Migration) String() string {
	return fmt.Sprintf("%06d_%s", m.Version, m.Name)
}

//go:embed migrations/*.sql
var migrationFS embed.FS

var embedded = sync.OnceValues(func() ([]Migration, error) {
	sub, err := fs.Sub(migrationFS, "migrations")
	if err != nil {
		return nil, err
	}
	return LoadMigrations(sub)
})

// EmbeddedMigrations returns the scripts compiled into the binary, oldest first.
func EmbeddedMigrations() ([]Migration, error) {
	return embedded()
}

// LoadMigrations reads every up script in fsys together with its down
// script. A missing down script or a repeated version is an error.
func LoadMigrations(fsys fs.FS) ([]Migration, error) {
	ups, err := fs.Glob(fsys, "*.up.sql")
	if err != nil {
		return nil, err
	}

	byVersion := make(map[int]Migration, len(ups))
	for _, file := range ups {
		base := strings.TrimSuffix(path.Base(file), ".up.sql")
		rawVersion, name, ok := strings.Cut(base, "_")
		if !ok || name == "" {
			return nil, fmt.Errorf("migration %s: want NNNNNN_name.up.sql", file)
		}
		version, err := strconv.Atoi(rawVersion)
		if err != nil || version <= 0 {
			return nil, fmt.Errorf("migration %s: bad version %q", file, rawVersion)
		}
		if prev, dup := byVersion[version]; dup {
			return nil, fmt.Errorf("migration %s: version %d already used by %s", file, version, prev)
		}

		up, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, err
		}
		down, err := fs.ReadFile(fsys, base+".down.sql")
		if err != nil {
			return nil, fmt.Errorf("migration %s: %w", base, err)
		}
		byVersion[version] = Migration{Version: version, Name: name, Up: string(up), Down: string(down)}
	}

	out := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}
