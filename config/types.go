package config

// ConfigFile mirrors the layout of mint.yml
type ConfigFile struct {
	Mint MintConfig `yaml:"mint"`
}

// MintConfig is the construction input of the mint: the privileged owner,
// the header/footer fragments and the 100 expected chunk digests. Immutable
// for the life of the system.
type MintConfig struct {
	Owner       string   `yaml:"owner"`
	Header      string   `yaml:"header"`
	Footer      string   `yaml:"footer"`
	ChunkHashes []string `yaml:"chunk_hashes"`
}
