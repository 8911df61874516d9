package server

import (
	"errors"

	"implantstock/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts the implant id route parameter. Anything that is not a
// positive integer cannot name an implant, so it is answered with 404 and
// errResponseWritten is returned.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Implant", c.Params(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// respondNotFound answers a missing or foreign implant with 404 and lets every
// other error through to the ErrorHandler.
func respondNotFound(c *fiber.Ctx, err error) error {
	if models.HasCode(err, models.CodeNotFound) {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}
	return err
}
