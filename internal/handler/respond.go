package handler

import (
	"regexp"
	"time"

	"github.com/ashrafosamaa/gym-management-sys/internal/domain"
	"github.com/gofiber/fiber/v2"
)

var (
	hexIDPattern  = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
	sortByPattern = regexp.MustCompile(`^[a-z_]+ (asc|desc)$`)
)

// respondError maps a domain error onto the HTTP status taxonomy:
// NotFound 404, Conflict 409, InvalidInput 400, everything else 500.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case domain.IsNotFound(err):
		status = fiber.StatusNotFound
	case domain.IsConflict(err):
		status = fiber.StatusConflict
	case domain.IsInvalidInput(err):
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// pathID validates the :id path parameter as a 24-char hex ObjectID.
func pathID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	return id, hexIDPattern.MatchString(id)
}

// parseStartDate parses a YYYY-MM-DD contract start and rejects past days.
func parseStartDate(value string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, err
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if date.Before(today) {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "start_date cannot be in the past")
	}
	return date, nil
}

// parseListOptions reads page, size and sortBy query parameters. Invalid
// values fall back to defaults rather than erroring.
func parseListOptions(c *fiber.Ctx) domain.ListOptions {
	opts := domain.ListOptions{
		Page: int64(c.QueryInt("page", 1)),
		Size: int64(c.QueryInt("size", 0)),
	}
	if sortBy := c.Query("sortBy"); sortByPattern.MatchString(sortBy) {
		opts.SortBy = sortBy
	}
	return opts
}
