package config

const (
	DefaultListenAddr  = ":9800"
	DefaultMetricsAddr = ":9100"
	DefaultDBBackend   = "leveldb"
	DefaultDBDir       = "./mosaicdb"
)
