package config

import (
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/mosaicmint/mosaic/errors"
	"github.com/mosaicmint/mosaic/gasmeter"
	"github.com/mosaicmint/mosaic/logx"
	"github.com/mosaicmint/mosaic/registry"
)

// LoadMintConfig reads and parses the mint.yml file
func LoadMintConfig(path string) (*MintConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open mint config: %w", err)
	}
	defer file.Close()

	var cfgFile ConfigFile
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&cfgFile); err != nil {
		return nil, errors.NewError(errors.ErrCodeInvalidConfiguration,
			fmt.Sprintf("%s: %v", errors.ErrMsgInvalidConfiguration, err))
	}

	cfg := &cfgFile.Mint
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logx.Info("CONFIG", fmt.Sprintf("Loaded mint config: owner=%s, %d chunk hashes", cfg.Owner, len(cfg.ChunkHashes)))
	return cfg, nil
}

// Validate checks the construction invariants: a non-empty owner and exactly
// 100 well-formed 32-byte digests.
func (c *MintConfig) Validate() error {
	if c.Owner == "" {
		return errors.NewError(errors.ErrCodeInvalidConfiguration,
			errors.ErrMsgInvalidConfiguration+": owner address is empty")
	}
	if len(c.ChunkHashes) != registry.ChunkCount {
		return errors.NewError(errors.ErrCodeInvalidConfiguration,
			fmt.Sprintf("%s: expected %d chunk hashes, got %d", errors.ErrMsgInvalidConfiguration, registry.ChunkCount, len(c.ChunkHashes)))
	}
	if _, err := c.Digests(); err != nil {
		return err
	}
	return nil
}

// Digests decodes the configured hex digests into fixed-size arrays
func (c *MintConfig) Digests() ([][registry.DigestSize]byte, error) {
	digests := make([][registry.DigestSize]byte, 0, len(c.ChunkHashes))
	for i, h := range c.ChunkHashes {
		raw, err := hex.DecodeString(h)
		if err != nil {
			return nil, errors.NewError(errors.ErrCodeInvalidConfiguration,
				fmt.Sprintf("%s: chunk hash %d is not valid hex", errors.ErrMsgInvalidConfiguration, i))
		}
		if len(raw) != registry.DigestSize {
			return nil, errors.NewError(errors.ErrCodeInvalidConfiguration,
				fmt.Sprintf("%s: chunk hash %d has length %d, want %d", errors.ErrMsgInvalidConfiguration, i, len(raw), registry.DigestSize))
		}
		var digest [registry.DigestSize]byte
		copy(digest[:], raw)
		digests = append(digests, digest)
	}
	return digests, nil
}

type NodeConfig struct {
	ListenAddr  string `ini:"listen_addr"`
	MetricsAddr string `ini:"metrics_addr"`
	DBBackend   string `ini:"db_backend"`
	DBDir       string `ini:"db_dir"`
}

type MeterConfig struct {
	StepUnits       uint64 `ini:"step_units"`
	UnitsPerByte    uint64 `ini:"units_per_byte"`
	CumulativeUnits uint64 `ini:"cumulative_units"`
}

// LoadNodeConfig reads node settings from an .ini file, filling defaults for
// anything unset
func LoadNodeConfig(path string) (*NodeConfig, error) {
	nodeCfg := &NodeConfig{
		ListenAddr:  DefaultListenAddr,
		MetricsAddr: DefaultMetricsAddr,
		DBBackend:   DefaultDBBackend,
		DBDir:       DefaultDBDir,
	}

	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Section("node").MapTo(nodeCfg); err != nil {
		return nil, err
	}
	return nodeCfg, nil
}

// LoadMeterConfig reads the execution-cost tariff from an .ini file
func LoadMeterConfig(path string) (*MeterConfig, error) {
	defaults := gasmeter.DefaultTariff()
	meterCfg := &MeterConfig{
		StepUnits:       defaults.StepUnits,
		UnitsPerByte:    defaults.UnitsPerByte,
		CumulativeUnits: defaults.CumulativeUnits,
	}

	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Section("meter").MapTo(meterCfg); err != nil {
		return nil, err
	}
	return meterCfg, nil
}

// Tariff converts the meter config to a gasmeter tariff
func (c *MeterConfig) Tariff() gasmeter.Tariff {
	return gasmeter.Tariff{
		StepUnits:       c.StepUnits,
		UnitsPerByte:    c.UnitsPerByte,
		CumulativeUnits: c.CumulativeUnits,
	}
}
