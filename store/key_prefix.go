package store

// Declare database key prefix for objects
const (
	PrefixAccount = "account:"

	PrefixStateMeta           = "state_meta:"
	StateMetaKeyTotalSupply   = "total_supply"
	StateMetaKeyAdministrator = "administrator"
	StateMetaKeyPaused        = "paused"
	StateMetaKeyInitialized   = "initialized"

	PrefixMetadata           = "metadata:"
	MetadataKeyToken         = "token"
	MetadataKeyContract      = "contract"
)
