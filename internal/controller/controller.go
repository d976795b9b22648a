package controller

import (
	"errors"
	"strconv"
	"time"

	"metering-dashboard/internal/meterapi"
	"metering-dashboard/internal/model"
	"metering-dashboard/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

type DashboardController interface {
	GetSummary(c *fiber.Ctx) error
	GetTenantUsage(c *fiber.Ctx) error
	GetAggregates(c *fiber.Ctx) error
	ListEvents(c *fiber.Ctx) error
	CheckQuota(c *fiber.Ctx) error
}

// dashboardController exposes HTTP handlers for the dashboard frontend.
type dashboardController struct {
	usageService service.UsageService
}

// NewDashboardController builds a DashboardController.
func NewDashboardController(svc service.UsageService) DashboardController {
	return &dashboardController{usageService: svc}
}

// GetSummary returns the day-bucketed usage summary for the queried window.
func (h *dashboardController) GetSummary(c *fiber.Ctx) error {
	q, err := buildSampleQuery(c)
	if err != nil {
		return err
	}

	summary, svcErr := h.usageService.Summary(c.Context(), q)
	if svcErr != nil {
		return mapServiceError(svcErr)
	}

	return c.JSON(summary)
}

// GetTenantUsage returns per-tenant totals for the queried window.
func (h *dashboardController) GetTenantUsage(c *fiber.Ctx) error {
	q, err := buildSampleQuery(c)
	if err != nil {
		return err
	}

	report, svcErr := h.usageService.TenantUsage(c.Context(), q)
	if svcErr != nil {
		return mapServiceError(svcErr)
	}

	return c.JSON(report)
}

// GetAggregates proxies the metering API's server-side aggregation.
func (h *dashboardController) GetAggregates(c *fiber.Ctx) error {
	start, err := parseTimeQuery(c, "start_date")
	if err != nil {
		return err
	}
	end, err := parseTimeQuery(c, "end_date")
	if err != nil {
		return err
	}

	q := model.AggregateQuery{
		WindowType: utils.Trim(c.Query("window_type", "daily"), ' '),
		Start:      start,
		End:        end,
		TenantID:   utils.Trim(c.Query("tenant_id"), ' '),
		Resource:   utils.Trim(c.Query("resource"), ' '),
		Feature:    utils.Trim(c.Query("feature"), ' '),
		GroupBy:    utils.Trim(c.Query("group_by"), ' '),
	}

	resp, svcErr := h.usageService.ServerAggregates(c.Context(), q)
	if svcErr != nil {
		return mapServiceError(svcErr)
	}

	return c.JSON(resp)
}

// ListEvents proxies a single page of raw events for the explorer view.
func (h *dashboardController) ListEvents(c *fiber.Ctx) error {
	start, err := parseTimeQuery(c, "start_date")
	if err != nil {
		return err
	}
	end, err := parseTimeQuery(c, "end_date")
	if err != nil {
		return err
	}
	page, err := parseIntQuery(c, "page", 1)
	if err != nil {
		return err
	}
	pageSize, err := parseIntQuery(c, "page_size", 50)
	if err != nil {
		return err
	}

	filter := model.EventFilter{
		TenantID:  utils.Trim(c.Query("tenant_id"), ' '),
		Resource:  utils.Trim(c.Query("resource"), ' '),
		Feature:   utils.Trim(c.Query("feature"), ' '),
		StartDate: start,
		EndDate:   end,
		Page:      page,
		PageSize:  pageSize,
	}

	result, svcErr := h.usageService.BrowseEvents(c.Context(), filter)
	if svcErr != nil {
		return mapServiceError(svcErr)
	}

	return c.JSON(result)
}

// CheckQuota forwards a quota validation request and returns the decision.
func (h *dashboardController) CheckQuota(c *fiber.Ctx) error {
	var req model.QuotaRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}

	decision, svcErr := h.usageService.CheckQuota(c.Context(), req)
	if svcErr != nil {
		return mapServiceError(svcErr)
	}

	return c.JSON(decision)
}

func buildSampleQuery(c *fiber.Ctx) (model.SampleQuery, error) {
	start, err := parseTimeQuery(c, "start_date")
	if err != nil {
		return model.SampleQuery{}, err
	}
	end, err := parseTimeQuery(c, "end_date")
	if err != nil {
		return model.SampleQuery{}, err
	}

	return model.SampleQuery{
		TenantID: utils.Trim(c.Query("tenant_id"), ' '),
		Resource: utils.Trim(c.Query("resource"), ' '),
		Feature:  utils.Trim(c.Query("feature"), ' '),
		Start:    start,
		End:      end,
	}, nil
}

// mapServiceError keeps the two failure classes apart for the frontend:
// bad input is 400, an unreachable or failing metering API is 502 with the
// underlying message surfaced for diagnostics. An empty result is not an
// error and never lands here.
func mapServiceError(err error) error {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		return fiber.NewError(fiber.StatusBadRequest, validationErr.Message)
	}

	var apiErr *meterapi.APIError
	if errors.As(err, &apiErr) {
		return fiber.NewError(fiber.StatusBadGateway, apiErr.Error())
	}

	return fiber.NewError(fiber.StatusBadGateway, "metering api unavailable")
}

func parseTimeQuery(c *fiber.Ctx, key string) (time.Time, error) {
	raw := utils.Trim(c.Query(key), ' ')
	if raw == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "invalid "+key)
	}
	return parsed, nil
}

func parseIntQuery(c *fiber.Ctx, key string, fallback int) (int, error) {
	raw := utils.Trim(c.Query(key), ' ')
	if raw == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+key)
	}
	return parsed, nil
}
