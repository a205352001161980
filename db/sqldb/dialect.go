package sqldb

import (
	"fmt"
	"sort"
	"sync"
)

// Dialect is what a backend registers so Conn can open and talk to it.
type Dialect struct {
	Name              string // Conf.Type value, e.g. "mysql"
	DriverName        string // database/sql driver name
	PlaceholderPrefix byte   // '?' or 0 = anonymous, '$' = ordinal

	// DSN builds the data source name. Conf.DSN, when set, wins and DSN is not called.
	DSN func(conf *Conf) (string, error)

	// ErrorInfo decodes a driver error. ok is false when err is not a server error.
	ErrorInfo func(err error) (info ErrInfo, ok bool)
}

const DefaultDialect = "mysql"

var (
	registryMu sync.RWMutex
	registry   = map[string]*Dialect{}
)

// RegisterDialect makes d available under d.Name. Registering a name twice replaces it.
func RegisterDialect(d *Dialect) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[d.Name] = d
}

func LookupDialect(name string) (*Dialect, error) {
	if name == "" {
		name = DefaultDialect
	}
	registryMu.RLock()
	d, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDialect, name)
	}
	return d, nil
}

// Dialects lists registered dialect names, sorted.
func Dialects() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d *Dialect) dataSourceName(conf *Conf) (string, error) {
	if conf.DSN != "" {
		return conf.DSN, nil
	}
	if d.DSN == nil {
		return "", fmt.Errorf("dialect %s: no DSN builder and Conf.DSN is empty", d.Name)
	}
	return d.DSN(conf)
}

// rewrite converts '?' placeholders for dialects that number them.
func (d *Dialect) rewrite(query string) string {
	return ReplaceStaticPlaceholders(query, d.PlaceholderPrefix)
}
