package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/juanflix/nowplaying/internal/cache"
	"github.com/juanflix/nowplaying/internal/config"
	"github.com/juanflix/nowplaying/internal/metrics"
	"github.com/juanflix/nowplaying/internal/models"
	"github.com/juanflix/nowplaying/internal/player"
	"github.com/juanflix/nowplaying/internal/progress"
	"github.com/juanflix/nowplaying/internal/services"
	"github.com/juanflix/nowplaying/internal/subtitles"
	"github.com/juanflix/nowplaying/internal/torrentx"
)

func main() {
	cfg := config.GetConfig()
	logger := config.GetLogger()

	flags := pflag.NewFlagSet("nowplaying", pflag.ExitOnError)
	magnet := flags.String("magnet", "", "magnet link to stream")
	snapshotPath := flags.String("snapshot", "", "torrent engine progress report (JSON) to read")
	fileIndex := flags.Int("file", -1, "index of the torrent file to play (default: largest video)")
	play := flags.String("play", "", "local media file to play when no torrent is given")
	flags.Usage = func() {
		_, _ = os.Stderr.WriteString("Usage: nowplaying [--magnet URI | --snapshot FILE | --play FILE] [subtitle files...]\n")
		flags.PrintDefaults()
	}
	_ = flags.Parse(os.Args[1:])
	subtitlePaths := flags.Args()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	locale := services.SystemLanguage(cfg.Locale)
	logger.Info().
		Str("locale", locale).
		Strs("subtitle_extensions", cfg.Subtitles.Extensions).
		Str("cache_provider", cfg.Cache.Provider).
		Bool("metrics_enabled", cfg.Metrics.Enabled).
		Msg("Application started with configuration")

	trackCache, err := newTrackCache(cfg)
	if err != nil {
		logger.Warn().Err(err).Str("provider", cfg.Cache.Provider).Msg("Track cache unavailable, parsing every file")
	} else {
		defer trackCache.Close()
	}

	loader := services.NewSubtitleLoader(services.LoaderConfig{
		Cache:   trackCache,
		Timeout: config.ParseDuration("subtitles.load_timeout", cfg.Subtitles.LoadTimeout, services.DefaultLoadTimeout),
	})
	session := player.NewSession(loader, subtitles.Options{
		Locale:      locale,
		Extensions:  cfg.Subtitles.Extensions,
		Concurrency: cfg.Subtitles.LoadConcurrency,
	})

	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewHTTPServer(cfg.Server.Address, cfg.Metrics.Port)
		go func() {
			logger.Info().Str("address", metricsServer.Addr).Msg("Starting Prometheus metrics HTTP server")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal().Err(err).Msg("Failed to serve metrics")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("Failed to shutdown metrics server")
			}
		}()
	}

	switch {
	case *magnet != "":
		err = streamMagnet(ctx, cfg, session, *magnet, *fileIndex, subtitlePaths)
	case *snapshotPath != "":
		err = replaySnapshot(ctx, session, *snapshotPath, *fileIndex, subtitlePaths)
	case *play != "":
		session.Play(0, *play)
		openSubtitles(ctx, session, subtitlePaths)
	default:
		flags.Usage()
		return
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("Playback failed")
		return
	}
	logSubtitles(session.Subtitles().Snapshot())
	logger.Info().Msg("Stopped")
}

func newTrackCache(cfg *config.Config) (cache.Cache, error) {
	return cache.New(cfg.Cache.Provider, cache.ProviderConfig{
		Size:          cfg.Cache.Size,
		TTL:           config.ParseDuration("cache.ttl", cfg.Cache.TTL, 24*time.Hour),
		Logger:        cache.ZerologLogger{Logger: config.GetLogger()},
		Compression:   cfg.Cache.Compression,
		RedisAddress:  cfg.Redis.Address,
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
		Group:         "subtitle_tracks",
	})
}

// openSubtitles adds files picked by the user, auto-selecting like the open dialog does.
func openSubtitles(ctx context.Context, session *player.Session, paths []string) {
	if len(paths) == 0 {
		return
	}
	logger := config.GetLogger()
	if _, err := session.Subtitles().AddTracks(ctx, paths, true); err != nil {
		logger.Warn().Err(err).Msg("Some subtitle files could not be loaded")
	}
}

// replaySnapshot plays one file of a recorded engine report and prints its loading bar.
func replaySnapshot(ctx context.Context, session *player.Session, path string, fileIndex int, subtitlePaths []string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	snapshot, err := progress.ParseSnapshot(f)
	if err != nil {
		return err
	}

	playFile(session, snapshot.Files, fileIndex)
	openSubtitles(ctx, session, subtitlePaths)
	if err := session.OnProgress(ctx, snapshot); err != nil {
		logger := config.GetLogger()
		logger.Warn().Err(err).Msg("Some downloaded subtitle files could not be loaded")
	}
	logLoadingBar(session)
	return nil
}

// streamMagnet follows a magnet link until the context is cancelled.
func streamMagnet(ctx context.Context, cfg *config.Config, session *player.Session, magnet string, fileIndex int, subtitlePaths []string) error {
	client, t, err := torrentx.OpenMagnet(ctx, cfg.Torrent.DataDir, magnet)
	if err != nil {
		return err
	}
	defer client.Close()

	src := torrentx.Wrap(t)
	playFile(session, torrentx.Snapshot(src, cfg.Torrent.DataDir).Files, fileIndex)
	openSubtitles(ctx, session, subtitlePaths)

	interval := config.ParseDuration("torrent.poll_interval", cfg.Torrent.PollInterval, torrentx.DefaultPollInterval)
	return torrentx.NewWatcher(src, cfg.Torrent.DataDir, interval, progressLogger{session: session}).Run(ctx)
}

// playFile starts the requested file, or the largest video when fileIndex is negative.
func playFile(session *player.Session, files []models.FileProgress, fileIndex int) {
	if fileIndex < 0 || fileIndex >= len(files) {
		fileIndex = largestVideo(files)
	}
	name := ""
	if fileIndex < len(files) {
		name = files[fileIndex].Name
	}
	session.Play(fileIndex, name)
}

func largestVideo(files []models.FileProgress) int {
	best := 0
	bestPieces := -1
	for i, f := range files {
		if models.MediaTypeOf(f.Name) == models.MediaTypeVideo && f.NumPieces > bestPieces {
			best, bestPieces = i, f.NumPieces
		}
	}
	return best
}

// progressLogger logs the loading bar after every session update.
type progressLogger struct {
	session *player.Session
}

func (p progressLogger) OnProgress(ctx context.Context, snapshot models.TorrentProgress) error {
	err := p.session.OnProgress(ctx, snapshot)
	logLoadingBar(p.session)
	return err
}

func logLoadingBar(session *player.Session) {
	logger := config.GetLogger()
	bar, err := session.LoadingBar()
	if err != nil {
		logger.Warn().Err(err).Msg("No progress for the playing file")
		return
	}
	logger.Info().
		Int("percent", bar.Percent).
		Interface("intervals", bar.Intervals).
		Msg("Playback progress")
}

func logSubtitles(collection models.SubtitleCollection) {
	logger := config.GetLogger()
	for i, track := range collection.Tracks {
		logger.Info().
			Int("index", i).
			Str("label", track.Label).
			Str("language_code", track.LanguageCode).
			Str("path", track.SourcePath).
			Bool("selected", track.Selected).
			Msg("Subtitle track")
	}
}
