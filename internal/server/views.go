package server

import (
	"implantstock/internal/models"
	"implantstock/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListView is the inventory page.
type ListView struct {
	User *models.User `json:"user"`
	*service.InventoryView
	CommonBrands []string `json:"common_brands"`
	Filters      Filters  `json:"filters"`
	Flashes      []Flash  `json:"flashes"`
}

// ProfileView is the account page.
type ProfileView struct {
	User    *models.User `json:"user"`
	Flashes []Flash      `json:"flashes"`
}

// FormView describes a form page, either fresh or re-rendered after a
// rejected submission.
type FormView struct {
	Page         string            `json:"page"`
	Error        string            `json:"error,omitempty"`
	Code         string            `json:"code,omitempty"`
	Action       string            `json:"action,omitempty"`
	Next         string            `json:"next,omitempty"`
	Implant      *models.Implant   `json:"implant,omitempty"`
	Form         map[string]string `json:"form,omitempty"`
	CommonBrands []string          `json:"common_brands,omitempty"`
	Filters      *Filters          `json:"filters,omitempty"`
	Flashes      []Flash           `json:"flashes"`
}

// renderForm writes view with status after attaching the pending notices.
func (s *Server) renderForm(c *fiber.Ctx, status int, view FormView) error {
	view.Flashes = s.consumeFlashes(c)
	return c.Status(status).JSON(view)
}

// rejectForm re-renders a form with the error as an inline notice.
func (s *Server) rejectForm(c *fiber.Ctx, err error, category string, view FormView) error {
	appErr, ok := models.AsAppError(err)
	if !ok || appErr.Code == models.CodeInternal {
		return err
	}
	s.flash(c, category, appErr.Message)
	view.Error = appErr.Message
	view.Code = appErr.Code
	return s.renderForm(c, models.StatusCode(err), view)
}

func implantForm(in service.ImplantInput) map[string]string {
	return map[string]string{
		"size":         in.Size,
		"brand":        in.Brand,
		"custom_brand": in.CustomBrand,
		"stock":        in.Stock,
		"min_stock":    in.MinStock,
	}
}
