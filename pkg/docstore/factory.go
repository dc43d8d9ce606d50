package docstore

import "fmt"

// Config selects and parameterizes a Store backend.
type Config struct {
	// Type is "memory" or "filesystem".
	Type string
	// BasePath roots the filesystem backend's document mirror.
	BasePath string
}

// NewFromConfig creates a Store for the configured backend type.
func NewFromConfig(cfg Config) (Store, error) {
	switch cfg.Type {
	case "", "memory":
		return NewMemory(), nil
	case "filesystem":
		return NewFilesystem(cfg.BasePath)
	default:
		return nil, fmt.Errorf("docstore: unknown store type: %s", cfg.Type)
	}
}
