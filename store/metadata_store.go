package store

import (
	"fmt"

	"tokend/db"
	"tokend/jsonx"
	"tokend/types"
)

// MetadataStore persists the descriptive records that ride along with the
// ledger state: the token metadata fixed at genesis and the free-form
// contract metadata map. Both are opaque to the ledger core.

type MetadataStore interface {
	SetTokenMetadata(md *types.TokenMetadata) error
	GetTokenMetadata() (*types.TokenMetadata, bool, error)

	SetContractMetadata(md types.ContractMetadata) error
	SetContractMetadataInBatch(batch db.DatabaseBatch, md types.ContractMetadata) error
	GetContractMetadata() (types.ContractMetadata, bool, error)
}

type GenericMetadataStore struct {
	provider db.DatabaseProvider
}

func NewGenericMetadataStore(provider db.DatabaseProvider) *GenericMetadataStore {
	return &GenericMetadataStore{provider: provider}
}

func (s *GenericMetadataStore) metadataKey(name string) []byte {
	return []byte(PrefixMetadata + name)
}

func (s *GenericMetadataStore) SetTokenMetadata(md *types.TokenMetadata) error {
	data, err := jsonx.Marshal(md)
	if err != nil {
		return fmt.Errorf("failed to marshal token metadata: %w", err)
	}
	if err := s.provider.Put(s.metadataKey(MetadataKeyToken), data); err != nil {
		return fmt.Errorf("failed to store token metadata: %w", err)
	}
	return nil
}

func (s *GenericMetadataStore) GetTokenMetadata() (*types.TokenMetadata, bool, error) {
	data, err := s.provider.Get(s.metadataKey(MetadataKeyToken))
	if err != nil {
		return nil, false, fmt.Errorf("failed to get token metadata: %w", err)
	}
	if data == nil {
		return nil, false, nil
	}
	var md types.TokenMetadata
	if err := jsonx.Unmarshal(data, &md); err != nil {
		return nil, false, fmt.Errorf("corrupt token metadata: %w", err)
	}
	return &md, true, nil
}

func (s *GenericMetadataStore) SetContractMetadata(md types.ContractMetadata) error {
	data, err := jsonx.Marshal(md)
	if err != nil {
		return fmt.Errorf("failed to marshal contract metadata: %w", err)
	}
	if err := s.provider.Put(s.metadataKey(MetadataKeyContract), data); err != nil {
		return fmt.Errorf("failed to store contract metadata: %w", err)
	}
	return nil
}

func (s *GenericMetadataStore) SetContractMetadataInBatch(batch db.DatabaseBatch, md types.ContractMetadata) error {
	data, err := jsonx.Marshal(md)
	if err != nil {
		return fmt.Errorf("failed to marshal contract metadata: %w", err)
	}
	batch.Put(s.metadataKey(MetadataKeyContract), data)
	return nil
}

func (s *GenericMetadataStore) GetContractMetadata() (types.ContractMetadata, bool, error) {
	data, err := s.provider.Get(s.metadataKey(MetadataKeyContract))
	if err != nil {
		return nil, false, fmt.Errorf("failed to get contract metadata: %w", err)
	}
	if data == nil {
		return nil, false, nil
	}
	var md types.ContractMetadata
	if err := jsonx.Unmarshal(data, &md); err != nil {
		return nil, false, fmt.Errorf("corrupt contract metadata: %w", err)
	}
	return md, true, nil
}
