package cmd

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mosaicmint/mosaic/assembler"
	"github.com/mosaicmint/mosaic/config"
	"github.com/mosaicmint/mosaic/db"
	"github.com/mosaicmint/mosaic/events"
	"github.com/mosaicmint/mosaic/exception"
	"github.com/mosaicmint/mosaic/jsonrpc"
	"github.com/mosaicmint/mosaic/ledger"
	"github.com/mosaicmint/mosaic/logx"
	"github.com/mosaicmint/mosaic/monitoring"
	"github.com/mosaicmint/mosaic/registry"
	"github.com/mosaicmint/mosaic/store"
	"github.com/mosaicmint/mosaic/token"
)

var (
	mintConfigPath string
	nodeConfigPath string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the mint node",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runNode(mintConfigPath, nodeConfigPath); err != nil {
			logx.Error("NODE", "Node failed:", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&mintConfigPath, "mint", "m", "config/mint.yml", "Path to the mint genesis config")
	runCmd.Flags().StringVarP(&nodeConfigPath, "config", "c", "config/config.ini", "Path to the node config")
}

func runNode(mintPath, nodePath string) error {
	monitoring.InitMetrics()

	nodeCfg, err := config.LoadNodeConfig(nodePath)
	if err != nil {
		return fmt.Errorf("could not load node config: %w", err)
	}
	meterCfg, err := config.LoadMeterConfig(nodePath)
	if err != nil {
		return fmt.Errorf("could not load meter config: %w", err)
	}
	mintCfg, err := config.LoadMintConfig(mintPath)
	if err != nil {
		return fmt.Errorf("could not load mint config: %w", err)
	}
	digests, err := mintCfg.Digests()
	if err != nil {
		return err
	}

	reg, err := registry.NewChunkRegistry([]byte(mintCfg.Header), []byte(mintCfg.Footer), digests)
	if err != nil {
		return err
	}

	var provider db.DatabaseProvider
	switch nodeCfg.DBBackend {
	case "memory":
		provider = db.NewMemoryProvider()
	case "leveldb", "":
		provider, err = db.NewLevelDBProvider(nodeCfg.DBDir)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown db backend %q", nodeCfg.DBBackend)
	}

	chunkStore, err := store.NewGenericChunkStore(provider)
	if err != nil {
		return err
	}
	stateStore := store.NewGenericMintStateStore(provider)
	tokenStore := store.NewGenericTokenStore(provider)

	eventBus := events.NewEventBus()
	eventRouter := events.NewEventRouter(eventBus)
	tokens := token.NewRegistry(tokenStore, provider, eventRouter)

	ldgr, err := ledger.NewLedger(reg, chunkStore, stateStore, tokens, provider, eventRouter,
		mintCfg.Owner, meterCfg.Tariff())
	if err != nil {
		return err
	}
	asm := assembler.NewArtifactAssembler(reg, chunkStore, ldgr)

	metricsMux := http.NewServeMux()
	monitoring.RegisterMetrics(metricsMux)
	exception.SafeGo("metrics-server", func() {
		if err := http.ListenAndServe(nodeCfg.MetricsAddr, metricsMux); err != nil {
			logx.Error("MONITORING", "Metrics server stopped:", err.Error())
		}
	})

	rpc := jsonrpc.NewServer(nodeCfg.ListenAddr, ldgr, tokens, asm, reg)
	rpc.Start()

	logx.Info("NODE", fmt.Sprintf("Mint node up: rpc=%s metrics=%s next_index=%d",
		nodeCfg.ListenAddr, nodeCfg.MetricsAddr, ldgr.NextIndex()))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logx.Info("NODE", "Shutting down")
	chunkStore.MustClose()
	return nil
}
