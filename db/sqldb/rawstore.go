package sqldb

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// RawStore holds named SQL statements, keyed "<group>.<name>".
type RawStore struct {
	stmts map[string]string
}

func NewRawStore() *RawStore {
	return &RawStore{stmts: make(map[string]string)}
}

func (s *RawStore) Set(key string, rawStmt string) {
	s.stmts[key] = rawStmt
}

func (s *RawStore) Get(key string) (string, bool) {
	stmt, exists := s.stmts[key]
	return stmt, exists
}

// Lookup is Get for a grouped key, with an error naming the missing statement.
func (s *RawStore) Lookup(group, name string) (string, error) {
	key := GroupedStmtKey{Group: group, StmtName: name}.String()
	stmt, ok := s.stmts[key]
	if !ok {
		return "", fmt.Errorf("sql statement %s not loaded", key)
	}
	return stmt, nil
}

func (s *RawStore) Len() int {
	return len(s.stmts)
}

type GroupedStmtKey struct {
	Group    string
	StmtName string
}

func (k GroupedStmtKey) String() string {
	return k.Group + "." + k.StmtName
}

// Load reads the "sql" directory of fsys into the store under group.
// "<name>.<dialect>" is used as-is for that dialect and wins over
// "<name>.sql", which holds standard SQL with '?' placeholders.
// Files for other dialects are skipped. It returns the number of statements stored.
func (s *RawStore) Load(fsys fs.FS, group, dialect string) (int, error) {
	files, err := fs.ReadDir(fsys, "sql")
	if err != nil {
		return 0, fmt.Errorf("failed to read `sql` dir: %w", err)
	}
	exact := map[string]bool{}
	n := 0
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		filename := f.Name()
		ext := path.Ext(filename)
		name := strings.TrimSuffix(filename, ext)
		ext = strings.TrimPrefix(ext, ".")
		if ext != dialect && ext != "sql" {
			continue
		}
		key := GroupedStmtKey{Group: group, StmtName: name}.String()
		if ext == "sql" && exact[key] {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join("sql", filename))
		if err != nil {
			return n, fmt.Errorf("failed to read %s: %w", filename, err)
		}
		if _, exists := s.stmts[key]; !exists {
			n++
		}
		s.stmts[key] = strings.TrimSpace(string(data))
		if ext == dialect {
			exact[key] = true
		}
	}
	return n, nil
}
