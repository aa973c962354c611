package store

import (
	"fmt"
	"path/filepath"

	"tokend/db"
)

// StoreType represents the type of store implementation
type StoreType string

const (
	// LevelDBStoreType uses the LevelDB implementation
	LevelDBStoreType StoreType = "leveldb"

	// BoltDBStoreType uses the bbolt implementation
	BoltDBStoreType StoreType = "boltdb"

	// MemoryStoreType keeps everything in process memory (tests, throwaway nodes)
	MemoryStoreType StoreType = "memory"
)

// StoreConfig holds configuration for creating store instances
type StoreConfig struct {
	// Type specifies which store implementation to use
	Type StoreType `json:"type" yaml:"type"`

	// Directory is the database directory path (for file-based databases)
	Directory string `json:"directory" yaml:"directory"`
}

// Validate validates the store configuration
func (sc *StoreConfig) Validate() error {
	if sc.Type == "" {
		return fmt.Errorf("store type cannot be empty")
	}

	switch sc.Type {
	case MemoryStoreType:
		return nil
	case LevelDBStoreType, BoltDBStoreType:
		if sc.Directory == "" {
			return fmt.Errorf("directory cannot be empty")
		}
		return nil
	default:
		return fmt.Errorf("unsupported store type: %s", sc.Type)
	}
}

// StoreFactory take responsibility to create store instances
type StoreFactory struct{}

// NewStoreFactory creates a new store factory
func NewStoreFactory() *StoreFactory {
	return &StoreFactory{}
}

// CreateStoreWithProvider creates store instances sharing one provider so
// cross-store writes can be batched atomically
func (sf *StoreFactory) CreateStoreWithProvider(config *StoreConfig) (db.DatabaseProvider, AccountStore, StateMetaStore, MetadataStore, error) {
	if config == nil {
		return nil, nil, nil, nil, fmt.Errorf("config cannot be nil")
	}

	if err := config.Validate(); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	provider, err := sf.CreateProvider(config)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to create provider: %w", err)
	}

	accStore, err := NewGenericAccountStore(provider)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to create account store: %w", err)
	}

	metaStore := NewGenericStateMetaStore(provider)
	mdStore := NewGenericMetadataStore(provider)

	return provider, accStore, metaStore, mdStore, nil
}

// CreateProvider creates a database provider based on the configuration
func (sf *StoreFactory) CreateProvider(config *StoreConfig) (db.DatabaseProvider, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	switch config.Type {
	case LevelDBStoreType:
		return db.NewLevelDBProvider(config.Directory)

	case BoltDBStoreType:
		return db.NewBoltDBProvider(filepath.Join(config.Directory, "tokend.db"))

	case MemoryStoreType:
		return db.NewMemoryProvider(), nil

	default:
		return nil, fmt.Errorf("unsupported store type: %s", config.Type)
	}
}

// Global factory instance
var globalFactory = NewStoreFactory()

// CreateStore creates new store instances using the global factory
func CreateStore(config *StoreConfig) (db.DatabaseProvider, AccountStore, StateMetaStore, MetadataStore, error) {
	return globalFactory.CreateStoreWithProvider(config)
}
