package config

const (
	DefaultGenesisPath = "genesis.yml"
	DefaultNodePath    = "node.ini"

	DefaultStoreType      = "leveldb"
	DefaultStoreDirectory = "./data"

	DefaultRPCListen     = ":9090"
	DefaultMetricsListen = ":9100"
)
