package http

import (
	"context"
	stdhttp "net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"

	"ilmhub/app/internal/content"
	"ilmhub/app/internal/db"
)

const errorFallbackMessage = "We couldn't process your request right now."

// apiError is the JSON error body returned by every endpoint. It implements
// huma.StatusError so handlers can return it directly.
type apiError struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (e *apiError) Error() string {
	return e.Message
}

func (e *apiError) GetStatus() int {
	return e.Status
}

type listInput struct {
	Type     string `path:"type"`
	Page     string `query:"page"`
	Limit    string `query:"limit"`
	Category string `query:"category"`
	Status   string `query:"status"`
	Search   string `query:"search"`
}

type paginationBody struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type listResponse struct {
	Body struct {
		Items      []content.Item `json:"items"`
		Pagination paginationBody `json:"pagination"`
	}
}

type itemInput struct {
	Type string `path:"type"`
	Slug string `path:"slug"`
}

type itemResponse struct {
	Body struct {
		Item content.Item `json:"item"`
	}
}

type statsResponse struct {
	Body content.StatsReport
}

type healthResponse struct {
	Status int
	Body   struct {
		Status   string `json:"status"`
		Database string `json:"database,omitempty"`
		Cache    string `json:"cache,omitempty"`
	}
}

func (s *Server) registerListRoute() {
	huma.Get(s.api, "/api/{type}", s.listHandler, func(op *huma.Operation) {
		op.Summary = "List content items"
	})
}

func (s *Server) registerItemRoute() {
	huma.Get(s.api, "/api/{type}/{slug}", s.itemHandler, func(op *huma.Operation) {
		op.Summary = "Fetch a content item by slug"
	})
}

func (s *Server) registerStatsRoute() {
	huma.Get(s.api, "/api/stats", s.statsHandler, func(op *huma.Operation) {
		op.Summary = "Content statistics"
	})
}

func (s *Server) registerHealthRoute() {
	huma.Get(s.api, "/healthz", s.healthHandler, func(op *huma.Operation) {
		op.Summary = "Health check"
	})
}

func (s *Server) listHandler(ctx context.Context, input *listInput) (*listResponse, error) {
	t, ok := content.ParseType(input.Type)
	if !ok {
		return nil, &apiError{
			Status:  stdhttp.StatusBadRequest,
			Message: "unknown content type",
			Details: input.Type,
		}
	}

	spec := content.BuildSpec(map[string]string{
		"page":     input.Page,
		"limit":    input.Limit,
		"category": input.Category,
		"status":   input.Status,
		"search":   input.Search,
	})

	result, err := s.repository.List(ctx, t, spec)
	if err != nil {
		s.recordError(ctx, err, "listing content", logrus.Fields{"type": input.Type})
		return nil, &apiError{Status: stdhttp.StatusInternalServerError, Message: errorFallbackMessage}
	}

	resp := &listResponse{}
	resp.Body.Items = result.Items
	resp.Body.Pagination = paginationBody{
		Page:  result.Page,
		Limit: result.Limit,
		Total: result.Total,
		Pages: result.Pages,
	}

	return resp, nil
}

func (s *Server) itemHandler(ctx context.Context, input *itemInput) (*itemResponse, error) {
	t, ok := content.ParseType(input.Type)
	if !ok {
		return nil, &apiError{
			Status:  stdhttp.StatusBadRequest,
			Message: "unknown content type",
			Details: input.Type,
		}
	}

	slug := strings.TrimSpace(input.Slug)
	item, err := s.repository.GetBySlug(ctx, t, slug)
	if err != nil {
		if content.IsNotFound(err) {
			return nil, &apiError{
				Status:  stdhttp.StatusNotFound,
				Message: "content not found",
				Details: slug,
			}
		}

		s.recordError(ctx, err, "loading content item", logrus.Fields{"type": input.Type, "slug": slug})
		return nil, &apiError{Status: stdhttp.StatusInternalServerError, Message: errorFallbackMessage}
	}

	// Reads count as views. Recording is fire-and-forget so a slow or
	// unavailable store never delays the response.
	s.views.Record(t, item.ID)

	resp := &itemResponse{}
	resp.Body.Item = *item

	return resp, nil
}

func (s *Server) statsHandler(ctx context.Context, _ *struct{}) (*statsResponse, error) {
	return &statsResponse{Body: s.stats.BuildReport(ctx)}, nil
}

func (s *Server) healthHandler(ctx context.Context, _ *struct{}) (*healthResponse, error) {
	resp := &healthResponse{}
	resp.Body.Status = "ok"

	if s.db != nil {
		resp.Body.Database = "ok"

		sqlDB, err := db.SQLDB(s.db)
		if err != nil {
			s.recordError(ctx, err, "obtaining sql db", nil)
			resp.Body.Status = "degraded"
			resp.Body.Database = "error"
			resp.Status = stdhttp.StatusServiceUnavailable
		} else if pingErr := sqlDB.PingContext(ctx); pingErr != nil {
			s.recordError(ctx, pingErr, "pinging database", nil)
			resp.Body.Status = "degraded"
			resp.Body.Database = "error"
			resp.Status = stdhttp.StatusServiceUnavailable
		}
	}

	if s.redis != nil {
		resp.Body.Cache = "ok"

		if err := s.redis.Ping(ctx).Err(); err != nil {
			s.recordError(ctx, err, "pinging redis", nil)
			resp.Body.Status = "degraded"
			resp.Body.Cache = "error"
			resp.Status = stdhttp.StatusServiceUnavailable
		}
	}

	if resp.Status == 0 {
		resp.Status = stdhttp.StatusOK
	}

	return resp, nil
}

func (s *Server) recordError(ctx context.Context, err error, message string, fields logrus.Fields) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if fields != nil {
			entry = entry.WithFields(fields)
		}
		if requestID := RequestIDFromContext(ctx); requestID != "" {
			entry = entry.WithField("request_id", requestID)
		}
		entry.Error(message)
	}

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.CaptureException(err)
		return
	}
	if s.sentry != nil {
		s.sentry.CaptureException(err)
	}
}
