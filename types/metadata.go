package types

// TokenMetadata is the descriptive record for the token itself. It is
// seeded from genesis and opaque to the ledger core.
type TokenMetadata struct {
	Name     string `json:"name" yaml:"name"`
	Symbol   string `json:"symbol" yaml:"symbol"`
	Decimals uint8  `json:"decimals" yaml:"decimals"`
	URI      string `json:"uri,omitempty" yaml:"uri,omitempty"`
}

// ContractMetadata is a free-form string map describing the deployed
// instance (homepage, authors, interface tags and the like).
type ContractMetadata map[string]string
