package config

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosaicmint/mosaic/errors"
	"github.com/mosaicmint/mosaic/registry"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func mintYAML(owner string, hashCount int) string {
	var b strings.Builder
	b.WriteString("mint:\n")
	fmt.Fprintf(&b, "  owner: %q\n", owner)
	b.WriteString("  header: \"3c686561643e\"\n")
	b.WriteString("  footer: \"3c2f686561643e\"\n")
	b.WriteString("  chunk_hashes:\n")
	for i := 0; i < hashCount; i++ {
		digest := sha256.Sum256([]byte(fmt.Sprintf("chunk-%d", i)))
		fmt.Fprintf(&b, "    - \"%x\"\n", digest)
	}
	return b.String()
}

func TestLoadMintConfig(t *testing.T) {
	path := writeTempFile(t, "mint.yml", mintYAML("owner-address", registry.ChunkCount))

	cfg, err := LoadMintConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "owner-address", cfg.Owner)
	assert.Len(t, cfg.ChunkHashes, registry.ChunkCount)

	digests, err := cfg.Digests()
	require.NoError(t, err)
	assert.Len(t, digests, registry.ChunkCount)
	assert.Equal(t, sha256.Sum256([]byte("chunk-0")), digests[0])
}

func TestLoadMintConfigRejectsWrongHashCount(t *testing.T) {
	path := writeTempFile(t, "mint.yml", mintYAML("owner-address", 99))

	_, err := LoadMintConfig(path)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidConfiguration, errors.CodeOf(err))
}

func TestLoadMintConfigRejectsEmptyOwner(t *testing.T) {
	path := writeTempFile(t, "mint.yml", mintYAML("", registry.ChunkCount))

	_, err := LoadMintConfig(path)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidConfiguration, errors.CodeOf(err))
}

func TestValidateRejectsMalformedDigests(t *testing.T) {
	hashes := make([]string, registry.ChunkCount)
	for i := range hashes {
		digest := sha256.Sum256([]byte(fmt.Sprintf("chunk-%d", i)))
		hashes[i] = fmt.Sprintf("%x", digest)
	}

	cfg := &MintConfig{Owner: "owner", ChunkHashes: append([]string{}, hashes...)}
	cfg.ChunkHashes[10] = "not-hex"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidConfiguration, errors.CodeOf(err))

	cfg = &MintConfig{Owner: "owner", ChunkHashes: append([]string{}, hashes...)}
	cfg.ChunkHashes[10] = "abcd" // 2 bytes, not 32
	err = cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidConfiguration, errors.CodeOf(err))
}

func TestLoadNodeConfigDefaults(t *testing.T) {
	path := writeTempFile(t, "config.ini", "[node]\n")

	cfg, err := LoadNodeConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, DefaultMetricsAddr, cfg.MetricsAddr)
	assert.Equal(t, DefaultDBBackend, cfg.DBBackend)
	assert.Equal(t, DefaultDBDir, cfg.DBDir)
}

func TestLoadNodeConfigOverrides(t *testing.T) {
	path := writeTempFile(t, "config.ini", `[node]
listen_addr = :7700
db_backend = memory
`)

	cfg, err := LoadNodeConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":7700", cfg.ListenAddr)
	assert.Equal(t, "memory", cfg.DBBackend)
	assert.Equal(t, DefaultMetricsAddr, cfg.MetricsAddr)
}

func TestLoadMeterConfig(t *testing.T) {
	path := writeTempFile(t, "config.ini", `[meter]
step_units = 30000
units_per_byte = 16
`)

	cfg, err := LoadMeterConfig(path)
	require.NoError(t, err)

	tariff := cfg.Tariff()
	assert.Equal(t, uint64(30000), tariff.StepUnits)
	assert.Equal(t, uint64(16), tariff.UnitsPerByte)
	assert.Equal(t, uint64(640), tariff.CumulativeUnits)
}
