package tracking

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/distrifone/tracking-backend/internal/dto"
	"github.com/distrifone/tracking-backend/internal/shared"
	"github.com/labstack/echo/v4"
)

const dateLayout = "2006-01-02"

type Handler struct {
	ingestor *Ingestor
	merger   *Merger
	resolver *Resolver
	limiter  *SessionRateLimiter
	metrics  *MetricsStore
	logger   *slog.Logger
}

func NewHandler(
	ingestor *Ingestor,
	merger *Merger,
	resolver *Resolver,
	limiter *SessionRateLimiter,
	metrics *MetricsStore,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		ingestor: ingestor,
		merger:   merger,
		resolver: resolver,
		limiter:  limiter,
		metrics:  metrics,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/track", h.Track)
	g.GET("/visits", h.ListVisits)
	g.GET("/visits/metrics", h.Metrics)
	g.GET("/visits/:sessionId/cart", h.CartDetail)
}

// @Summary      Ingest a tracking snapshot
// @Description  Upserts one session's tracking and cart state
// @Tags         tracking
// @Accept       json
// @Produce      json
// @Param        body  body      tracking.TrackRequest  true  "tracking snapshot"
// @Success      200   {object}  dto.TrackResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /track [post]
func (h *Handler) Track(c echo.Context) error {
	var req TrackRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		return shared.BadRequest("missing_session_id", "sessionId is required")
	}

	if !h.limiter.Allow(sessionID) {
		h.count(c.Request().Context(), h.metrics.IncrementRateLimited)
		return shared.TooManyRequests("rate_limit_exceeded", "too many requests for this session")
	}

	result, err := h.ingestor.Ingest(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, shared.ErrValidation) {
			h.count(c.Request().Context(), h.metrics.IncrementRejected)
			return shared.BadRequest("invalid_payload", err.Error())
		}
		h.logger.Error("ingestion failed", "session_id", sessionID, "error", err)
		return shared.InternalError("ingest_failed", "failed to record session")
	}

	h.count(c.Request().Context(), h.metrics.IncrementTracked)
	if result.HasCart {
		h.count(c.Request().Context(), h.metrics.IncrementCarts)
	}

	return c.JSON(http.StatusOK, dto.TrackResponse{
		Success: true,
		Message: "session tracked",
	})
}

// @Summary      List visits
// @Description  Merged, filtered, paginated visit list across all sources
// @Tags         visits
// @Produce      json
// @Param        startDate   query     string  false  "filter start date (YYYY-MM-DD)"
// @Param        endDate     query     string  false  "filter end date, inclusive (YYYY-MM-DD)"
// @Param        phone       query     string  false  "WhatsApp substring match"
// @Param        hasContact  query     bool    false  "only visits with a phone number"
// @Param        page        query     int     false  "1-indexed page"
// @Success      200  {object}  dto.VisitListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /visits [get]
func (h *Handler) ListVisits(c echo.Context) error {
	params, err := parseListParams(c)
	if err != nil {
		return shared.BadRequest("invalid_query", err.Error())
	}

	list, err := h.merger.List(c.Request().Context(), *params)
	if err != nil {
		h.logger.Error("visit listing failed", "error", err)
		return shared.InternalError("list_failed", "failed to read visits")
	}

	visits := make([]dto.VisitResponse, len(list.Visits))
	for i, v := range list.Visits {
		visits[i] = toVisitResponse(v)
	}

	return c.JSON(http.StatusOK, dto.VisitListResponse{
		Success: true,
		Visits:  visits,
		Pagination: dto.PaginationResponse{
			Page:       list.Pagination.Page,
			Limit:      list.Pagination.Limit,
			Total:      list.Pagination.Total,
			TotalPages: list.Pagination.TotalPages,
			HasNext:    list.Pagination.HasNext,
			HasPrev:    list.Pagination.HasPrev,
		},
		Stats: dto.VisitStatsResponse{
			Total:     list.Stats.Total,
			Active:    list.Stats.Active,
			Abandoned: list.Stats.Abandoned,
			Completed: list.Stats.Completed,
			WithCart:  list.Stats.WithCart,
			WithPhone: list.Stats.WithPhone,
		},
	})
}

// @Summary      Get cart detail
// @Description  Richest available cart snapshot for one session
// @Tags         visits
// @Produce      json
// @Param        sessionId  path      string  true  "session id"
// @Success      200  {object}  dto.CartDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /visits/{sessionId}/cart [get]
func (h *Handler) CartDetail(c echo.Context) error {
	sessionID := strings.TrimSpace(c.Param("sessionId"))
	if sessionID == "" {
		return shared.BadRequest("missing_session_id", "sessionId is required")
	}

	snap, err := h.resolver.Resolve(c.Request().Context(), sessionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("cart_not_found", "no cart found for this session")
		}
		h.logger.Error("cart resolution failed", "session_id", sessionID, "error", err)
		return shared.InternalError("cart_failed", "failed to read cart")
	}

	return c.JSON(http.StatusOK, dto.CartDetailResponse{
		Success: true,
		Cart:    toCartSnapshotResponse(snap),
	})
}

// @Summary      Ingestion metrics
// @Description  Hourly ingestion counters for the last N hours
// @Tags         visits
// @Produce      json
// @Param        hours  query     int  false  "how many hours back (default 24, max 168)"
// @Success      200  {object}  dto.IngestMetricsListResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /visits/metrics [get]
func (h *Handler) Metrics(c echo.Context) error {
	hours := 24
	if raw := c.QueryParam("hours"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			hours = n
		}
	}
	if hours > 168 {
		hours = 168
	}

	metrics, err := h.metrics.GetMetrics(c.Request().Context(), hours)
	if err != nil {
		h.logger.Error("metrics read failed", "error", err)
		return shared.InternalError("metrics_failed", "failed to read metrics")
	}

	out := make([]dto.IngestMetricsResponse, len(metrics))
	for i, m := range metrics {
		out[i] = dto.IngestMetricsResponse{
			Date:        m.Date,
			Hour:        m.Hour,
			Tracked:     m.Tracked,
			Carts:       m.Carts,
			Rejected:    m.Rejected,
			RateLimited: m.RateLimited,
		}
	}

	return c.JSON(http.StatusOK, dto.IngestMetricsListResponse{
		Success: true,
		Hours:   hours,
		Metrics: out,
	})
}

func (h *Handler) count(ctx context.Context, inc func(context.Context) error) {
	if h.metrics == nil {
		return
	}
	if err := inc(ctx); err != nil {
		h.logger.Warn("metrics counter failed", "error", err)
	}
}

func parseListParams(c echo.Context) (*ListParams, error) {
	params := &ListParams{
		Phone:      c.QueryParam("phone"),
		HasContact: c.QueryParam("hasContact") == "true",
		Page:       1,
	}

	if raw := c.QueryParam("startDate"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, errors.New("startDate must be YYYY-MM-DD")
		}
		params.StartDate = &t
	}
	if raw := c.QueryParam("endDate"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, errors.New("endDate must be YYYY-MM-DD")
		}
		params.EndDate = &t
	}
	if raw := c.QueryParam("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, errors.New("page must be a positive integer")
		}
		params.Page = n
	}

	return params, nil
}

func toVisitResponse(v Visit) dto.VisitResponse {
	return dto.VisitResponse{
		SessionID:              v.SessionID,
		Whatsapp:               v.Whatsapp,
		WhatsappFormatted:      v.WhatsappFormatted,
		StartTime:              v.StartTime,
		LastActivity:           v.LastActivity,
		SessionDurationSeconds: v.SessionDurationSeconds,
		SearchTerms:            v.SearchTerms,
		CategoriesVisited:      toCategoryResponses(v.CategoriesVisited),
		ProductsViewed:         toProductResponses(v.ProductsViewed),
		HasCart:                v.HasCart,
		CartValue:              v.CartValue,
		CartItemCount:          v.CartItemCount,
		Status:                 string(v.Status),
		WhatsappCollectedAt:    v.WhatsappCollectedAt,
	}
}

func toCartSnapshotResponse(snap *CartSnapshot) *dto.CartSnapshotResponse {
	items := make([]dto.CartItemResponse, len(snap.Items))
	for i, item := range snap.Items {
		items[i] = dto.CartItemResponse{
			ID:         item.ID,
			ProductID:  item.ProductID,
			Name:       item.Name,
			ModelName:  item.ModelName,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		}
	}
	return &dto.CartSnapshotResponse{
		SessionID: snap.SessionID,
		Whatsapp:  snap.Whatsapp,
		Items:     items,
		Total:     snap.Total,
		Analytics: dto.CartAnalyticsResponse{
			TimeOnSiteSeconds: snap.Analytics.TimeOnSiteSeconds,
			CategoriesVisited: toCategoryResponses(snap.Analytics.CategoriesVisited),
			SearchTerms:       snap.Analytics.SearchTerms,
			ProductsViewed:    toProductResponses(snap.Analytics.ProductsViewed),
		},
	}
}

func toCategoryResponses(categories []CategoryVisit) []dto.CategoryVisitResponse {
	out := make([]dto.CategoryVisitResponse, len(categories))
	for i, c := range categories {
		out[i] = dto.CategoryVisitResponse{
			Name:        c.Name,
			VisitCount:  c.VisitCount,
			LastVisitAt: c.LastVisitAt,
		}
	}
	return out
}

func toProductResponses(products []ProductView) []dto.ProductViewResponse {
	out := make([]dto.ProductViewResponse, len(products))
	for i, p := range products {
		out[i] = dto.ProductViewResponse{
			ID:         p.ID,
			Name:       p.Name,
			Category:   p.Category,
			VisitCount: p.VisitCount,
			LastViewAt: p.LastViewAt,
		}
	}
	return out
}
