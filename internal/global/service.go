package global

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"

	"github.com/Laisky/searchhub/internal/hub"
	"github.com/Laisky/searchhub/internal/session"
	"github.com/Laisky/searchhub/library/config"
	"github.com/Laisky/searchhub/library/log"
	"github.com/Laisky/searchhub/library/search"
	"github.com/Laisky/searchhub/library/throttle"
)

// Services are the long lived objects shared by every frontend.
type Services struct {
	Adapter  *search.Adapter
	Sessions session.Store
	Throttle *throttle.SearchThrottle
	Hub      *hub.Hub
}

// SetupServices builds Services from gconfig.Shared. Background sweepers
// stop when ctx is done.
func SetupServices(ctx context.Context) (*Services, error) {
	adapter, err := NewAdapter()
	if err != nil {
		return nil, errors.Wrap(err, "new search adapter")
	}

	store, err := setupSessionStore(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "setup session store")
	}

	th, err := setupThrottle(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "setup throttle")
	}

	opts := []hub.Option{}
	if th != nil {
		opts = append(opts, hub.WithLimiter(th))
	}
	h, err := hub.New(adapter, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "new hub")
	}

	return &Services{
		Adapter:  adapter,
		Sessions: store,
		Throttle: th,
		Hub:      h,
	}, nil
}

// NewAdapter builds the search adapter from settings.search.*.
func NewAdapter() (*search.Adapter, error) {
	timeout := time.Duration(config.IntOr("settings.search.timeout_seconds", int(search.DefaultTimeout/time.Second))) * time.Second

	return search.NewAdapter(
		search.WithEndpoint(config.StringOr("settings.search.endpoint", search.DefaultEndpoint)),
		search.WithTimeout(timeout),
		search.WithUserAgent(config.StringOr("settings.search.user_agent", search.DefaultUserAgent)),
		search.WithParser(search.NewAnchorClassParser(
			config.StringOr("settings.search.result_class", search.DefaultResultClass))),
	)
}

// setupThrottle returns nil when settings.throttle.total_per_sec is not positive.
func setupThrottle(ctx context.Context) (*throttle.SearchThrottle, error) {
	totalPerSec := config.IntOr("settings.throttle.total_per_sec", 5)
	if totalPerSec <= 0 {
		log.Logger.Info("search throttle disabled")
		return nil, nil
	}

	cfg := throttle.SearchThrottleCfg{
		TotalNPerSec:       float64(totalPerSec),
		TotalBurst:         float64(config.IntOr("settings.throttle.total_burst", 10)),
		EachSessionNPerSec: float64(config.IntOr("settings.throttle.session_per_sec", 1)),
		EachSessionBurst:   float64(config.IntOr("settings.throttle.session_burst", 5)),
		IdleTTL:            SessionTTL(),
	}
	th, err := throttle.NewSearchThrottle(cfg)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	go th.RunSweeper(ctx, time.Minute)
	log.Logger.Info("search throttle enabled",
		zap.Float64("total_per_sec", cfg.TotalNPerSec),
		zap.Float64("session_per_sec", cfg.EachSessionNPerSec))
	return th, nil
}
