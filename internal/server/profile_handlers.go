package server

import (
	"fmt"

	"implantstock/internal/models"
	"implantstock/internal/service"

	"github.com/gofiber/fiber/v2"
)

const msgPasswordChanged = "Password changed successfully!"

// Profile handles GET /profile
// @Summary Profile
// @Tags account
// @Produce json
// @Success 200 {object} ProfileView
// @Router /profile [get]
func (s *Server) Profile(c *fiber.Ctx) error {
	return c.JSON(ProfileView{
		User:    currentUser(c),
		Flashes: s.consumeFlashes(c),
	})
}

// ChangePassword handles POST /change_password
// @Summary Change password
// @Description Every outcome redirects back to the profile with a notice
// @Tags account
// @Accept x-www-form-urlencoded
// @Param current_password formData string true "Current password"
// @Param new_password formData string true "New password"
// @Param confirm_password formData string true "New password again"
// @Success 303 "Redirect to /profile"
// @Router /change_password [post]
func (s *Server) ChangePassword(c *fiber.Ctx) error {
	err := s.userService.ChangePassword(c.UserContext(), service.ChangePasswordInput{
		UserID:          currentUserID(c),
		CurrentPassword: c.FormValue("current_password"),
		NewPassword:     c.FormValue("new_password"),
		ConfirmPassword: c.FormValue("confirm_password"),
	})
	if err != nil {
		return s.redirectOnRejection(c, err, "/profile", FlashDanger)
	}
	return s.redirectWithFlash(c, "/profile", FlashSuccess, msgPasswordChanged)
}

// DeleteAccount handles POST /delete_account
// @Summary Delete account
// @Description Deletes the account and every implant it owns after a password check
// @Tags account
// @Accept x-www-form-urlencoded
// @Param password formData string true "Password"
// @Success 303 "Redirect to /login, or back to /profile when the password is wrong"
// @Router /delete_account [post]
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	user, err := s.userService.DeleteAccount(c.UserContext(), currentUserID(c), c.FormValue("password"))
	if err != nil {
		return s.redirectOnRejection(c, err, "/profile", FlashDanger)
	}

	s.revokeSession(c)
	s.clearSession(c)
	return s.redirectWithFlash(c, "/login", FlashInfo,
		fmt.Sprintf(`Account "%s" has been permanently deleted.`, user.Username))
}

// redirectOnRejection turns a client-facing error into a notice on location.
// Internal errors go to the ErrorHandler.
func (s *Server) redirectOnRejection(c *fiber.Ctx, err error, location, category string) error {
	appErr, ok := models.AsAppError(err)
	if !ok || appErr.Code == models.CodeInternal {
		return err
	}
	return s.redirectWithFlash(c, location, category, appErr.Message)
}
