package storage

import "fmt"

// NewStore opens the named backend; an empty kind means DefaultStoreKind.
func NewStore(kind, sqlitePath string) (Store, error) {
	if kind == "" {
		kind = DefaultStoreKind()
	}
	switch kind {
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return newSQLiteStore(sqlitePath)
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}

// Persistent reports whether records saved through a store of this kind
// outlive the process.
func Persistent(kind string) bool {
	if kind == "" {
		kind = DefaultStoreKind()
	}
	return kind == "sqlite"
}

func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
