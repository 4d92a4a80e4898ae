package monitoring

import (
	"net/http"

	"github.com/mosaicmint/mosaic/logx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ClaimRejectedReason string

var (
	ClaimAlreadyParticipated ClaimRejectedReason = "already_participated"
	ClaimMintingComplete     ClaimRejectedReason = "minting_complete"
	ClaimHashMismatch        ClaimRejectedReason = "hash_mismatch"
	ClaimInsufficientPayment ClaimRejectedReason = "insufficient_payment"
	ClaimInvalidSignature    ClaimRejectedReason = "invalid_signature"
	ClaimRejectedUnknown     ClaimRejectedReason = "other"
)

type mintPromMetrics struct {
	nodeUpUnixSeconds  prometheus.Gauge
	claimCount         prometheus.Counter
	rejectedClaimCount *prometheus.CounterVec
	nextClaimIndex     prometheus.Gauge
	accumulatedBalance prometheus.Gauge
	claimFee           prometheus.Histogram
	assembleCount      prometheus.Counter
	withdrawCount      prometheus.Counter
	panicCount         prometheus.Counter
}

func newMintPromMetrics() *mintPromMetrics {
	return &mintPromMetrics{
		nodeUpUnixSeconds: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "mosaic_node_up_timestamp_unix_seconds",
				Help: "Unix timestamp of the node",
			},
		),
		claimCount: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "mosaic_claim_count",
				Help: "The total number of settled chunk claims",
			},
		),
		rejectedClaimCount: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mosaic_rejected_claim_count",
				Help: "The total number of rejected claims by reason",
			},
			[]string{"reason"},
		),
		nextClaimIndex: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "mosaic_next_claim_index",
				Help: "The next chunk index to be claimed (100 means minting is over)",
			},
		),
		accumulatedBalance: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "mosaic_accumulated_balance",
				Help: "Collected fees awaiting withdrawal, in value units",
			},
		),
		claimFee: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mosaic_claim_fee",
				Help:    "Required fee per settled claim, in value units",
				Buckets: prometheus.ExponentialBuckets(1e6, 4, 12),
			},
		),
		assembleCount: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "mosaic_assemble_count",
				Help: "The total number of artifact reconstructions served",
			},
		),
		withdrawCount: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "mosaic_withdraw_count",
				Help: "The total number of owner withdrawals",
			},
		),
		panicCount: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "mosaic_panic_count",
				Help: "The total number of recovered panics",
			},
		),
	}
}

var mintMetrics *mintPromMetrics

// InitMetrics initializes metrics for the node but does not expose them yet
func InitMetrics() {
	mintMetrics = newMintPromMetrics()
	mintMetrics.nodeUpUnixSeconds.SetToCurrentTime()
}

func RegisterMetrics(mux *http.ServeMux) {
	logx.Info("MONITORING", "Registering prometheus metrics")
	mux.Handle("/metrics", promhttp.Handler())
}

func IncreaseClaimCount() {
	if mintMetrics == nil {
		return
	}
	mintMetrics.claimCount.Inc()
}

func RecordRejectedClaim(reason ClaimRejectedReason) {
	if mintMetrics == nil {
		return
	}
	mintMetrics.rejectedClaimCount.With(prometheus.Labels{
		"reason": string(reason),
	}).Inc()
}

func SetNextClaimIndex(index uint32) {
	if mintMetrics == nil {
		return
	}
	mintMetrics.nextClaimIndex.Set(float64(index))
}

func SetAccumulatedBalance(balance float64) {
	if mintMetrics == nil {
		return
	}
	mintMetrics.accumulatedBalance.Set(balance)
}

func ObserveClaimFee(fee float64) {
	if mintMetrics == nil {
		return
	}
	mintMetrics.claimFee.Observe(fee)
}

func IncreaseAssembleCount() {
	if mintMetrics == nil {
		return
	}
	mintMetrics.assembleCount.Inc()
}

func IncreaseWithdrawCount() {
	if mintMetrics == nil {
		return
	}
	mintMetrics.withdrawCount.Inc()
}

func IncreasePanicCount() {
	if mintMetrics == nil {
		return
	}
	mintMetrics.panicCount.Inc()
}
