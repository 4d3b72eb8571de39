package api

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"TradeIQ/internal/domain/models"
	domrepo "TradeIQ/internal/domain/repository"
	"TradeIQ/internal/service/news"
	"TradeIQ/internal/service/technical"
	"TradeIQ/internal/usecase"
	xhttp "TradeIQ/pkg/http"
	xlogger "TradeIQ/pkg/logger"
)

// asyncRunTimeout bounds a detached pipeline run kicked off by the async
// endpoint.
const asyncRunTimeout = 2 * time.Minute

// PipelineEchoHandler exposes the agent pipeline and its supporting market
// data over HTTP.
type PipelineEchoHandler struct {
	logger     *xlogger.Logger
	pipeline   *usecase.Pipeline
	monitor    *usecase.Monitor
	market     domrepo.MarketData
	aggregator *news.Aggregator
}

func NewPipelineEchoHandler(
	logger *xlogger.Logger,
	pipeline *usecase.Pipeline,
	monitor *usecase.Monitor,
	market domrepo.MarketData,
	aggregator *news.Aggregator,
) *PipelineEchoHandler {
	return &PipelineEchoHandler{
		logger:     logger,
		pipeline:   pipeline,
		monitor:    monitor,
		market:     market,
		aggregator: aggregator,
	}
}

func (h *PipelineEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.POST("/pipeline", h.RunPipeline)
	g.POST("/pipeline/async", h.RunPipelineAsync)
	g.POST("/monitor/scan", h.Scan)
	g.GET("/quote", h.Quote)
	g.GET("/technicals", h.Technicals)
	g.GET("/news", h.News)
}

func (h *PipelineEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// RunPipeline executes a full pipeline run synchronously and returns the
// PipelineResult. Stage failures surface inside the result, not as HTTP
// errors; only a malformed request produces a 400.
func (h *PipelineEchoHandler) RunPipeline(c echo.Context) error {
	req := &models.PipelineRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	result := h.pipeline.Run(c.Request().Context(), usecase.PipelineArgs{
		Instruments: req.Instruments,
		CustomEvent: req.CustomEvent,
		Portfolio:   req.UserPortfolio,
		SkipContent: req.SkipContent,
	})
	return xhttp.SuccessResponse(c, result)
}

// RunPipelineAsync starts a run in the background and returns its run ID
// immediately. The run is detached from the request context.
func (h *PipelineEchoHandler) RunPipelineAsync(c echo.Context) error {
	req := &models.PipelineRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	args := usecase.PipelineArgs{
		Instruments: req.Instruments,
		CustomEvent: req.CustomEvent,
		Portfolio:   req.UserPortfolio,
		SkipContent: req.SkipContent,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncRunTimeout)
		defer cancel()
		result := h.pipeline.Run(ctx, args)
		h.logger.Info("async pipeline run finished",
			xlogger.String("run_id", result.RunID),
			xlogger.String("status", result.Status))
	}()

	return xhttp.DataResponse(c, 202, map[string]string{"status": "accepted"})
}

// Scan runs the monitor stage alone and returns the detected event, if any.
func (h *PipelineEchoHandler) Scan(c echo.Context) error {
	req := &models.ScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	event, err := h.monitor.Detect(c.Request().Context(), req.Instruments, nil)
	if err != nil {
		h.logger.Error("monitor scan error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if event == nil {
		return xhttp.SuccessResponse(c, map[string]any{"event": nil})
	}
	return xhttp.SuccessResponse(c, map[string]any{"event": event})
}

func (h *PipelineEchoHandler) Quote(c echo.Context) error {
	req := &models.QuoteRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	quote := h.market.FetchQuote(c.Request().Context(), req.Instrument)
	return xhttp.SuccessResponse(c, quote)
}

func (h *PipelineEchoHandler) Technicals(c echo.Context) error {
	req := &models.TechnicalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	series := h.market.FetchHistory(c.Request().Context(), req.Instrument, tf, req.Count)
	snapshot := technical.Analyze(&series)
	return xhttp.SuccessResponse(c, snapshot)
}

func (h *PipelineEchoHandler) News(c echo.Context) error {
	req := &models.NewsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	articles := h.aggregator.Search(c.Request().Context(), req.Query, req.Limit)
	return xhttp.SuccessResponse(c, map[string]any{
		"query":    req.Query,
		"articles": articles,
	})
}
