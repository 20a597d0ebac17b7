package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/learnhub/learnhub-dashboard/config"
	"github.com/learnhub/learnhub-dashboard/internal/application/command"
	"github.com/learnhub/learnhub-dashboard/internal/application/query"
	"github.com/learnhub/learnhub-dashboard/internal/domain/performance"
	"github.com/learnhub/learnhub-dashboard/internal/domain/report"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleHealth(c *fiber.Ctx) error {
	status := s.deps.Health.Check(c.UserContext())
	if !status.Healthy {
		return writeJSON(c, fiber.StatusServiceUnavailable, status)
	}
	return writeJSON(c, fiber.StatusOK, status)
}

// ══════════════════════════════════════════════════════════════════════════════
// DASHBOARD
// ══════════════════════════════════════════════════════════════════════════════

// handleDashboard serves
// GET /api/dashboard?search=&course=&start=&end=&sort=&order=&courseSort=&courseOrder=&window=&limit=
func (s *Server) handleDashboard(c *fiber.Ctx) error {
	courseID, err := queryInt(c, "course")
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	start, end, err := dateBounds(c)
	if err != nil {
		return err
	}

	result, err := s.deps.Dashboard.Handle(c.UserContext(), query.GetDashboardQuery{
		SearchTerm:    c.Query("search"),
		CourseID:      courseID,
		StartDate:     start,
		EndDate:       end,
		SortKey:       c.Query("sort"),
		Order:         c.Query("order"),
		CourseSortKey: c.Query("courseSort"),
		CourseOrder:   c.Query("courseOrder"),
		Window:        c.Query("window"),
		Limit:         limit,
	})
	if err != nil {
		return err
	}

	if !s.deps.Features.IsEnabled(config.FeaturePerformanceChart) {
		result.Performance = performance.Series{}
	}
	return writeJSON(c, fiber.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// SPREADSHEET CONNECTION
// ══════════════════════════════════════════════════════════════════════════════

type connectRequest struct {
	Spreadsheet string `json:"spreadsheet"`
}

func (s *Server) handleConnectionState(c *fiber.Ctx) error {
	return writeJSON(c, fiber.StatusOK, s.deps.Connection.State())
}

func (s *Server) handleConnect(c *fiber.Ctx) error {
	if !s.deps.Features.IsEnabled(config.FeatureSheetSync) {
		return featureDisabled("spreadsheet sync")
	}
	var body connectRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidInput("Connect", "invalid connect body", err)
	}
	res, err := s.deps.Connection.Connect(c.UserContext(), command.ConnectCommand{Spreadsheet: body.Spreadsheet})
	if err != nil {
		return err
	}
	return writeJSON(c, fiber.StatusOK, res)
}

func (s *Server) handleSync(c *fiber.Ctx) error {
	if !s.deps.Features.IsEnabled(config.FeatureSheetSync) {
		return featureDisabled("spreadsheet sync")
	}
	res, err := s.deps.Connection.Sync(c.UserContext())
	if err != nil {
		return err
	}
	return writeJSON(c, fiber.StatusOK, res)
}

// ══════════════════════════════════════════════════════════════════════════════
// EXPORTS
// ══════════════════════════════════════════════════════════════════════════════

type exportStatus struct {
	InProgress bool            `json:"inProgress"`
	Kinds      []report.Kind   `json:"kinds"`
	Formats    []report.Format `json:"formats"`
}

func (s *Server) handleExportStatus(c *fiber.Ctx) error {
	st := exportStatus{
		InProgress: s.deps.Exports.Busy(c.UserContext()),
		Kinds:      []report.Kind{report.KindProgress, report.KindGrades},
		Formats:    make([]report.Format, 0, 2),
	}
	for _, f := range []report.Format{report.FormatCSV, report.FormatPDF} {
		if s.deps.Features.ExportFormatEnabled(string(f)) {
			st.Formats = append(st.Formats, f)
		}
	}
	return writeJSON(c, fiber.StatusOK, st)
}

// handleExport runs an export and streams the file back as an attachment.
// A second request while one is running gets 409.
func (s *Server) handleExport(c *fiber.Ctx) error {
	format := c.Params("format")
	if !s.deps.Features.ExportFormatEnabled(format) {
		return featureDisabled(format + " export")
	}

	res, err := s.deps.Exports.Run(c.UserContext(), command.RunExportCommand{
		Kind:   c.Params("kind"),
		Format: format,
	})
	if err != nil {
		return err
	}

	c.Attachment(res.FileName)
	c.Set(fiber.HeaderContentType, res.ContentType)
	c.Set("X-Export-ID", res.ExportID)
	return c.Status(fiber.StatusOK).Send(res.Content)
}
