package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "nowplaying"

// Subtitle loading metrics
var (
	// SubtitleLoadsTotal counts per-file loads by status: "success", "error" or "duplicate".
	SubtitleLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subtitle_loads_total",
			Help:      "Total number of subtitle file loads.",
		},
		[]string{"status"},
	)

	SubtitleBatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "subtitle_batch_duration_seconds",
			Help:      "Time to load, merge and relabel one batch of subtitle files.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 4, 8),
		},
	)

	SubtitleTracks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "subtitle_tracks",
			Help:      "Number of subtitle tracks in the current session.",
		},
	)

	// SubtitleAutoSelectionsTotal counts auto-selections by reason: "first" or "locale".
	SubtitleAutoSelectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subtitle_auto_selections_total",
			Help:      "Total number of automatic subtitle track selections.",
		},
		[]string{"reason"},
	)
)

// Playback progress metrics
var (
	ProgressSnapshotsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "progress_snapshots_total",
			Help:      "Total number of torrent progress snapshots received.",
		},
	)

	PlayingFilePercent = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "playing_file_percent",
			Help:      "Download percentage of the file being played.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		SubtitleLoadsTotal,
		SubtitleBatchDuration,
		SubtitleTracks,
		SubtitleAutoSelectionsTotal,
		ProgressSnapshotsTotal,
		PlayingFilePercent,
	)
}
