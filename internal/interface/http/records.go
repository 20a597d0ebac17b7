package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/learnhub/learnhub-dashboard/internal/domain/assignment"
	"github.com/learnhub/learnhub-dashboard/internal/domain/performance"
	"github.com/learnhub/learnhub-dashboard/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD CRUD
// Courses, assignments and performance samples share one set of handlers.
// ══════════════════════════════════════════════════════════════════════════════

// recordStore is the part of every repository contract the CRUD routes use.
type recordStore[T any] interface {
	GetAll(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id int) (T, error)
	Create(ctx context.Context, v T) (T, error)
	Update(ctx context.Context, id int, v T) (T, error)
	Delete(ctx context.Context, id int) error
}

type listFunc[T any] func(c *fiber.Ctx) ([]T, error)

type records[T any] struct {
	name  string
	store recordStore[T]
	list  listFunc[T]
}

// mountRecords registers GET/POST on the group root and GET/PUT/DELETE on
// /:id. A nil list falls back to GetAll.
func mountRecords[T any](r fiber.Router, name string, store recordStore[T], list listFunc[T]) {
	h := &records[T]{name: name, store: store, list: list}
	if h.list == nil {
		h.list = func(c *fiber.Ctx) ([]T, error) { return store.GetAll(c.UserContext()) }
	}

	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/:id", h.handleGet)
	r.Put("/:id", h.handleUpdate)
	r.Delete("/:id", h.handleDelete)
}

func (h *records[T]) handleList(c *fiber.Ctx) error {
	items, err := h.list(c)
	if err != nil {
		return err
	}
	return writeJSONWithMeta(c, fiber.StatusOK, items, &ResponseMeta{TotalCount: len(items)})
}

func (h *records[T]) handleGet(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	item, err := h.store.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return writeJSON(c, fiber.StatusOK, item)
}

func (h *records[T]) handleCreate(c *fiber.Ctx) error {
	var body T
	if err := c.BodyParser(&body); err != nil {
		return invalidInput("Create", "invalid "+h.name+" body", err)
	}
	created, err := h.store.Create(c.UserContext(), body)
	if err != nil {
		return err
	}
	return writeJSON(c, fiber.StatusCreated, created)
}

func (h *records[T]) handleUpdate(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var body T
	if err := c.BodyParser(&body); err != nil {
		return invalidInput("Update", "invalid "+h.name+" body", err)
	}
	updated, err := h.store.Update(c.UserContext(), id, body)
	if err != nil {
		return err
	}
	return writeJSON(c, fiber.StatusOK, updated)
}

func (h *records[T]) handleDelete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.store.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// listAssignments supports ?course=<id>.
func (s *Server) listAssignments(c *fiber.Ctx) ([]assignment.Assignment, error) {
	courseID, err := queryInt(c, "course")
	if err != nil {
		return nil, err
	}
	if courseID > 0 {
		return s.deps.Assignments.GetByCourse(c.UserContext(), courseID)
	}
	return s.deps.Assignments.GetAll(c.UserContext())
}

// listPerformance supports ?course=<id>&start=&end=. A missing bound is open.
func (s *Server) listPerformance(c *fiber.Ctx) ([]performance.Sample, error) {
	ctx := c.UserContext()
	courseID, err := queryInt(c, "course")
	if err != nil {
		return nil, err
	}
	start, end, err := dateBounds(c)
	if err != nil {
		return nil, err
	}

	if start == nil && end == nil {
		if courseID > 0 {
			return s.deps.Performance.GetByCourse(ctx, courseID)
		}
		return s.deps.Performance.GetAll(ctx)
	}

	from, to := time.Time{}, time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	if start != nil {
		from = *start
	}
	if end != nil {
		to = *end
	}
	samples, err := s.deps.Performance.GetByDateRange(ctx, from, to)
	if err != nil || courseID <= 0 {
		return samples, err
	}

	kept := samples[:0]
	for _, sm := range samples {
		if sm.CourseID == courseID {
			kept = append(kept, sm)
		}
	}
	return kept, nil
}

func dateBounds(c *fiber.Ctx) (start, end *time.Time, err error) {
	if start, err = timeutil.ParseDateBound(c.Query("start")); err != nil {
		return nil, nil, invalidInput("Query", err.Error(), err)
	}
	if end, err = timeutil.ParseDateBound(c.Query("end")); err != nil {
		return nil, nil, invalidInput("Query", err.Error(), err)
	}
	return start, end, nil
}
