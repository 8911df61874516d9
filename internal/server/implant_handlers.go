package server

import (
	"implantstock/internal/models"
	"implantstock/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	msgImplantAdded    = "Implant added successfully!"
	msgImplantUpdated  = "Implant updated successfully!"
	msgImplantRemoved  = "Implant removed successfully!"
	msgMinStockUpdated = "Minimum stock level updated!"
)

// ListImplants handles GET /
// @Summary Inventory list
// @Description Lists the caller's implants sorted by brand then size, with filter choices and low-stock items
// @Tags inventory
// @Produce json
// @Param search query string false "Case-insensitive brand substring"
// @Param size_filter query string false "Case-insensitive size substring"
// @Param brand_filter query string false "Exact brand"
// @Success 200 {object} ListView
// @Failure 401 {object} models.ErrorResponse
// @Router / [get]
func (s *Server) ListImplants(c *fiber.Ctx) error {
	filters := filtersFrom(c)
	view, err := s.inventoryService.List(c.UserContext(), currentUserID(c), filters.listFilter())
	if err != nil {
		return err
	}
	return c.JSON(ListView{
		User:          currentUser(c),
		InventoryView: view,
		CommonBrands:  models.CommonBrands,
		Filters:       filters,
		Flashes:       s.consumeFlashes(c),
	})
}

func implantInputFrom(c *fiber.Ctx) service.ImplantInput {
	return service.ImplantInput{
		Size:        c.FormValue("size"),
		Brand:       c.FormValue("brand"),
		CustomBrand: c.FormValue("custom_brand"),
		Stock:       c.FormValue("stock"),
		MinStock:    c.FormValue("min_stock"),
	}
}

// implantRejectionCategory shows duplicates as warnings and bad input as danger.
func implantRejectionCategory(err error) string {
	if models.HasCode(err, models.CodeConflict) {
		return FlashWarning
	}
	return FlashDanger
}

// AddImplantPage handles GET /add
// @Summary Add implant form
// @Tags inventory
// @Produce json
// @Success 200 {object} FormView
// @Router /add [get]
func (s *Server) AddImplantPage(c *fiber.Ctx) error {
	filters := filtersFrom(c)
	return s.renderForm(c, fiber.StatusOK, FormView{
		Page:         "add",
		CommonBrands: models.CommonBrands,
		Filters:      &filters,
	})
}

// AddImplant handles POST /add
// @Summary Add implant
// @Description custom_brand, when present, overrides brand
// @Tags inventory
// @Accept x-www-form-urlencoded
// @Produce json
// @Param size formData string true "Size, e.g. 4.0x10"
// @Param brand formData string false "Brand from the picklist"
// @Param custom_brand formData string false "Free-text brand"
// @Param stock formData int true "Units in stock"
// @Param min_stock formData int true "Reorder threshold"
// @Success 303 "Redirect to the filtered list"
// @Failure 400 {object} FormView
// @Failure 409 {object} FormView
// @Router /add [post]
func (s *Server) AddImplant(c *fiber.Ctx) error {
	filters := filtersFrom(c)
	in := implantInputFrom(c)

	if _, err := s.inventoryService.Add(c.UserContext(), currentUserID(c), in); err != nil {
		return s.rejectForm(c, err, implantRejectionCategory(err), FormView{
			Page:         "add",
			Form:         implantForm(in),
			CommonBrands: models.CommonBrands,
			Filters:      &filters,
		})
	}
	return s.redirectWithFlash(c, filters.listURL(), FlashSuccess, msgImplantAdded)
}

// EditImplantPage handles GET /edit/:id
// @Summary Edit implant form
// @Tags inventory
// @Produce json
// @Param id path int true "Implant ID"
// @Success 200 {object} FormView
// @Failure 404 {object} models.ErrorResponse
// @Router /edit/{id} [get]
func (s *Server) EditImplantPage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	implant, err := s.inventoryService.Get(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return respondNotFound(c, err)
	}

	filters := filtersFrom(c)
	return s.renderForm(c, fiber.StatusOK, FormView{
		Page:         "edit",
		Implant:      implant,
		CommonBrands: models.CommonBrands,
		Filters:      &filters,
	})
}

// EditImplant handles POST /edit/:id
// @Summary Edit implant
// @Description Replaces size, brand, stock and min_stock
// @Tags inventory
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path int true "Implant ID"
// @Param size formData string true "Size"
// @Param brand formData string false "Brand from the picklist"
// @Param custom_brand formData string false "Free-text brand"
// @Param stock formData int true "Units in stock"
// @Param min_stock formData int true "Reorder threshold"
// @Success 303 "Redirect to the filtered list"
// @Failure 400 {object} FormView
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} FormView
// @Router /edit/{id} [post]
func (s *Server) EditImplant(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	ownerID := currentUserID(c)
	filters := filtersFrom(c)
	in := implantInputFrom(c)

	if _, err := s.inventoryService.Edit(c.UserContext(), ownerID, id, in); err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return respondNotFound(c, err)
		}
		implant, getErr := s.inventoryService.Get(c.UserContext(), ownerID, id)
		if getErr != nil {
			return respondNotFound(c, getErr)
		}
		return s.rejectForm(c, err, implantRejectionCategory(err), FormView{
			Page:         "edit",
			Implant:      implant,
			Form:         implantForm(in),
			CommonBrands: models.CommonBrands,
			Filters:      &filters,
		})
	}
	return s.redirectWithFlash(c, filters.listURL(), FlashSuccess, msgImplantUpdated)
}

// UseImplant handles GET /use/:id
// @Summary Use one unit
// @Description Takes one unit out of stock; at zero stock nothing changes
// @Tags inventory
// @Param id path int true "Implant ID"
// @Success 303 "Redirect to the filtered list"
// @Failure 404 {object} models.ErrorResponse
// @Router /use/{id} [get]
func (s *Server) UseImplant(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	result, err := s.inventoryService.Use(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return respondNotFound(c, err)
	}

	category := FlashInfo
	if !result.Used {
		category = FlashWarning
	}
	return s.redirectWithFlash(c, filtersFrom(c).listURL(), category, service.UseMessage(result))
}

// AddStockPage handles GET /add_stock/:id
// @Summary Add stock form
// @Tags inventory
// @Produce json
// @Param id path int true "Implant ID"
// @Success 200 {object} FormView
// @Failure 404 {object} models.ErrorResponse
// @Router /add_stock/{id} [get]
func (s *Server) AddStockPage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	implant, err := s.inventoryService.Get(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return respondNotFound(c, err)
	}

	filters := filtersFrom(c)
	return s.renderForm(c, fiber.StatusOK, FormView{
		Page:    "add_stock",
		Action:  "Add",
		Implant: implant,
		Filters: &filters,
	})
}

// AddStock handles POST /add_stock/:id
// @Summary Add stock
// @Tags inventory
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path int true "Implant ID"
// @Param quantity formData int true "Units received, at least 1"
// @Success 303 "Redirect to the filtered list"
// @Failure 400 {object} FormView
// @Failure 404 {object} models.ErrorResponse
// @Router /add_stock/{id} [post]
func (s *Server) AddStock(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	ownerID := currentUserID(c)
	filters := filtersFrom(c)
	quantity := c.FormValue("quantity")

	implant, added, err := s.inventoryService.AddStock(c.UserContext(), ownerID, id, quantity)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return respondNotFound(c, err)
		}
		current, getErr := s.inventoryService.Get(c.UserContext(), ownerID, id)
		if getErr != nil {
			return respondNotFound(c, getErr)
		}
		return s.rejectForm(c, err, FlashDanger, FormView{
			Page:    "add_stock",
			Action:  "Add",
			Implant: current,
			Form:    map[string]string{"quantity": quantity},
			Filters: &filters,
		})
	}
	return s.redirectWithFlash(c, filters.listURL(), FlashSuccess, service.AddStockMessage(implant, added))
}

// RemoveImplant handles GET /remove/:id
// @Summary Remove implant
// @Tags inventory
// @Param id path int true "Implant ID"
// @Success 303 "Redirect to the filtered list"
// @Failure 404 {object} models.ErrorResponse
// @Router /remove/{id} [get]
func (s *Server) RemoveImplant(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.inventoryService.Remove(c.UserContext(), currentUserID(c), id); err != nil {
		return respondNotFound(c, err)
	}
	return s.redirectWithFlash(c, filtersFrom(c).listURL(), FlashSuccess, msgImplantRemoved)
}

// UpdateMinStock handles POST /update_min_stock/:id
// @Summary Update minimum stock
// @Description Invalid input is reported as a notice on the list
// @Tags inventory
// @Accept x-www-form-urlencoded
// @Param id path int true "Implant ID"
// @Param min_stock formData int true "Reorder threshold"
// @Success 303 "Redirect to the filtered list"
// @Failure 404 {object} models.ErrorResponse
// @Router /update_min_stock/{id} [post]
func (s *Server) UpdateMinStock(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	location := filtersFrom(c).listURL()

	if _, err := s.inventoryService.UpdateMinStock(c.UserContext(), currentUserID(c), id, c.FormValue("min_stock")); err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return respondNotFound(c, err)
		}
		return s.redirectOnRejection(c, err, location, FlashDanger)
	}
	return s.redirectWithFlash(c, location, FlashSuccess, msgMinStockUpdated)
}
