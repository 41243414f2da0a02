package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/timeout"
	"github.com/spf13/afero"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/juanflix/nowplaying/internal/apperrors"
	"github.com/juanflix/nowplaying/internal/cache"
	"github.com/juanflix/nowplaying/internal/config"
	"github.com/juanflix/nowplaying/internal/models"
	"github.com/juanflix/nowplaying/internal/parser"
)

// UndetectedLanguage labels tracks whose language could not be detected.
const UndetectedLanguage = "subtitle"

// DefaultLoadTimeout bounds a single file load when no timeout is configured.
const DefaultLoadTimeout = 30 * time.Second

// LoaderConfig holds the collaborators of DefaultSubtitleLoader. Nil fields get defaults.
type LoaderConfig struct {
	Fs         afero.Fs
	Normalizer parser.Normalizer
	Detector   LanguageDetector
	Codes      LanguageCodes
	// Cache memoizes parsed tracks. Nil disables memoization.
	Cache   cache.Cache
	Timeout time.Duration
}

// DefaultSubtitleLoader implements SubtitleLoader
type DefaultSubtitleLoader struct {
	fs         afero.Fs
	normalizer parser.Normalizer
	detector   LanguageDetector
	codes      LanguageCodes
	cache      cache.Cache
	timeout    time.Duration
}

// cachedTrack is the memoized form of a parsed track
type cachedTrack struct {
	Language     string `json:"language"`
	LanguageCode string `json:"languageCode,omitempty"`
	Content      []byte `json:"content"`
}

// NewSubtitleLoader creates a new subtitle loader
func NewSubtitleLoader(cfg LoaderConfig) SubtitleLoader {
	l := &DefaultSubtitleLoader{
		fs:         cfg.Fs,
		normalizer: cfg.Normalizer,
		detector:   cfg.Detector,
		codes:      cfg.Codes,
		cache:      cfg.Cache,
		timeout:    cfg.Timeout,
	}
	if l.fs == nil {
		l.fs = afero.NewOsFs()
	}
	if l.normalizer == nil {
		l.normalizer = parser.NewVTTNormalizer()
	}
	if l.detector == nil {
		l.detector = NewLanguageDetector()
	}
	if l.codes == nil {
		l.codes = NewLanguageCodes()
	}
	if l.timeout <= 0 {
		l.timeout = DefaultLoadTimeout
	}
	return l
}

// Load implements the SubtitleLoader interface
func (l *DefaultSubtitleLoader) Load(ctx context.Context, path string) (*models.SubtitleTrack, error) {
	policy := timeout.New[*models.SubtitleTrack](l.timeout)
	track, err := failsafe.With[*models.SubtitleTrack](policy).
		WithContext(ctx).
		GetWithExecution(func(exec failsafe.Execution[*models.SubtitleTrack]) (*models.SubtitleTrack, error) {
			return l.load(exec.Context(), path)
		})
	if err != nil {
		return nil, apperrors.NewSubtitleLoadError(path, err)
	}
	return track, nil
}

func (l *DefaultSubtitleLoader) load(ctx context.Context, path string) (*models.SubtitleTrack, error) {
	logger := config.GetLogger()

	info, err := l.fs.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	key := fmt.Sprintf("track:%s:%d:%d", path, info.Size(), info.ModTime().UnixNano())
	if track, ok := l.fromCache(ctx, key, path); ok {
		logger.Debug().Str("path", path).Str("language", track.Language).Msg("Subtitle track served from cache")
		return track, nil
	}

	f, err := l.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	content, err := l.normalizer.Normalize(path, f)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lang := UndetectedLanguage
	if name, ok := l.detector.Detect(parser.DetectionText(content)); ok {
		lang = cases.Title(language.English).String(name)
	}
	code, _ := l.codes.Code(lang)

	logger.Debug().Str("path", path).Str("language", lang).Str("code", code).Int("bytes", len(content)).Msg("Subtitle track loaded")

	track := &models.SubtitleTrack{
		SourcePath:   path,
		Language:     lang,
		LanguageCode: code,
		Label:        lang,
		Content:      content,
	}
	l.toCache(ctx, key, track)
	return track, nil
}

func (l *DefaultSubtitleLoader) fromCache(ctx context.Context, key, path string) (*models.SubtitleTrack, bool) {
	if l.cache == nil {
		return nil, false
	}
	raw, ok := l.cache.Get(ctx, key)
	if !ok {
		return nil, false
	}
	var cached cachedTrack
	if err := json.Unmarshal(raw, &cached); err != nil {
		logger := config.GetLogger()
		logger.Warn().Err(err).Str("key", key).Msg("Discarding unreadable cached subtitle track")
		return nil, false
	}
	return &models.SubtitleTrack{
		SourcePath:   path,
		Language:     cached.Language,
		LanguageCode: cached.LanguageCode,
		Label:        cached.Language,
		Content:      cached.Content,
	}, true
}

func (l *DefaultSubtitleLoader) toCache(ctx context.Context, key string, track *models.SubtitleTrack) {
	if l.cache == nil {
		return
	}
	raw, err := json.Marshal(cachedTrack{
		Language:     track.Language,
		LanguageCode: track.LanguageCode,
		Content:      track.Content,
	})
	if err != nil {
		return
	}
	l.cache.Set(ctx, key, raw)
}
