package visualization

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/bouquet-backend/pkg/config"
	"github.com/angelmondragon/bouquet-backend/pkg/logger"
	"github.com/angelmondragon/bouquet-backend/pkg/metrics"
)

const dataURLPrefix = "data:image/png;base64,"

const (
	outcomeGenerated   = "generated"
	outcomePlaceholder = "placeholder"
)

// Artifact is either an inline PNG data URL or the configured placeholder URL.
type Artifact struct {
	URL         string
	Placeholder bool
}

// Gateway renders prompts through a lazily loaded model. Render never fails:
// any load or inference problem yields the placeholder artifact.
type Gateway struct {
	model         Model
	enabled       bool
	placeholder   string
	loadTimeout   time.Duration
	renderTimeout time.Duration
	metrics       *metrics.VisualizationMetrics
	logg          *logger.Logger

	loadOnce sync.Once
	loaded   chan struct{}
	loadErr  error
}

// errModelLoading means the caller gave up before the first load finished.
var errModelLoading = errors.New("model still loading")

// GatewayParams wires the gateway collaborators.
type GatewayParams struct {
	Model   Model
	Config  config.VisualizationConfig
	Metrics *metrics.VisualizationMetrics
	Logger  *logger.Logger
}

func NewGateway(params GatewayParams) (*Gateway, error) {
	if params.Config.PlaceholderURL == "" {
		return nil, errors.New("placeholder url required")
	}
	if params.Config.Enabled && params.Model == nil {
		return nil, errors.New("model required when visualization is enabled")
	}
	return &Gateway{
		model:         params.Model,
		enabled:       params.Config.Enabled,
		placeholder:   params.Config.PlaceholderURL,
		loadTimeout:   params.Config.LoadTimeout,
		renderTimeout: params.Config.RenderTimeout,
		metrics:       params.Metrics,
		logg:          params.Logger,
		loaded:        make(chan struct{}),
	}, nil
}

// Placeholder returns the fallback artifact.
func (g *Gateway) Placeholder() Artifact {
	return Artifact{URL: g.placeholder, Placeholder: true}
}

func (g *Gateway) Render(ctx context.Context, prompt string) Artifact {
	started := time.Now()
	if !g.enabled {
		return g.fallback(ctx, started, "disabled", nil)
	}
	if err := g.ensureLoaded(ctx); err != nil {
		reason := "model_unavailable"
		if errors.Is(err, errModelLoading) {
			reason = "model_loading"
		}
		return g.fallback(ctx, started, reason, err)
	}

	image, err := g.generate(ctx, prompt)
	if err != nil {
		return g.fallback(ctx, started, "render_failed", err)
	}
	if len(image) == 0 {
		return g.fallback(ctx, started, "empty_image", nil)
	}
	g.metrics.ObserveRender(outcomeGenerated, time.Since(started))
	return Artifact{URL: dataURLPrefix + base64.StdEncoding.EncodeToString(image)}
}

// ensureLoaded starts the one-time model load and waits for it only as long as
// ctx allows. The load itself runs detached and bounded by the load timeout; a
// failed load is remembered until restart.
func (g *Gateway) ensureLoaded(ctx context.Context) error {
	g.loadOnce.Do(func() {
		go g.load(context.WithoutCancel(ctx))
	})
	select {
	case <-g.loaded:
		return g.loadErr
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", errModelLoading, ctx.Err())
	}
}

func (g *Gateway) load(ctx context.Context) {
	defer close(g.loaded)
	loadCtx := ctx
	if g.loadTimeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, g.loadTimeout)
		defer cancel()
	}
	started := time.Now()
	g.loadErr = safeCall(func() error { return g.model.Load(loadCtx) })
	if g.logg == nil {
		return
	}
	logCtx := g.logg.WithField(ctx, "duration_ms", time.Since(started).Milliseconds())
	if g.loadErr != nil {
		g.logg.Error(logCtx, "visualization.model_load_failed", g.loadErr)
		return
	}
	g.logg.Info(logCtx, "visualization.model_loaded")
}

type generateResult struct {
	image []byte
	err   error
}

// generate bounds inference by the render timeout and the caller's context. A
// model that ignores cancellation is abandoned rather than awaited.
func (g *Gateway) generate(ctx context.Context, prompt string) ([]byte, error) {
	renderCtx := ctx
	if g.renderTimeout > 0 {
		var cancel context.CancelFunc
		renderCtx, cancel = context.WithTimeout(ctx, g.renderTimeout)
		defer cancel()
	}

	done := make(chan generateResult, 1)
	go func() {
		var res generateResult
		res.err = safeCall(func() error {
			var err error
			res.image, err = g.model.Generate(renderCtx, prompt)
			return err
		})
		done <- res
	}()

	select {
	case res := <-done:
		return res.image, res.err
	case <-renderCtx.Done():
		return nil, renderCtx.Err()
	}
}

func (g *Gateway) fallback(ctx context.Context, started time.Time, reason string, err error) Artifact {
	g.metrics.ObserveRender(outcomePlaceholder, time.Since(started))
	if g.logg != nil {
		fields := map[string]any{"reason": reason}
		if err != nil {
			fields["error"] = err.Error()
		}
		g.logg.Warn(g.logg.WithFields(ctx, fields), "visualization.placeholder")
	}
	return g.Placeholder()
}

func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("model panic: %v", r)
		}
	}()
	return fn()
}
