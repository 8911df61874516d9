package server

import (
	"implantstock/internal/models"
	"implantstock/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	msgRegistered = "Registration successful! Please log in."
	msgLoggedOut  = "You have been logged out."
)

// LoginPage handles GET /login
// @Summary Login page
// @Description Describes the login form. Logged-in users are sent to the inventory.
// @Tags auth
// @Produce json
// @Param next query string false "Local path to return to after login"
// @Success 200 {object} FormView
// @Success 302 "Already logged in"
// @Router /login [get]
func (s *Server) LoginPage(c *fiber.Ctx) error {
	if s.optionalUser(c) != nil {
		return c.Redirect("/", fiber.StatusFound)
	}
	return s.renderForm(c, fiber.StatusOK, FormView{Page: "login", Next: c.Query("next")})
}

// Login handles POST /login
// @Summary Log in
// @Description Verifies credentials and starts a cookie session
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Param next query string false "Local path to return to after login"
// @Success 303 "Session cookie set"
// @Failure 401 {object} FormView
// @Router /login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	if s.optionalUser(c) != nil {
		return c.Redirect("/", fiber.StatusFound)
	}

	username := c.FormValue("username")
	user, err := s.userService.Authenticate(c.UserContext(), username, c.FormValue("password"))
	if err != nil {
		return s.rejectForm(c, err, FlashDanger, FormView{
			Page: "login",
			Next: c.Query("next"),
			Form: map[string]string{"username": username},
		})
	}

	if err := s.issueSession(c, user.ID); err != nil {
		return models.NewInternalError(err)
	}
	return c.Redirect(safeNext(c.Query("next")), fiber.StatusSeeOther)
}

// Logout handles GET /logout
// @Summary Log out
// @Description Revokes the current session and clears the cookie
// @Tags auth
// @Success 303 "Redirect to /login"
// @Router /logout [get]
func (s *Server) Logout(c *fiber.Ctx) error {
	s.revokeSession(c)
	s.clearSession(c)
	return s.redirectWithFlash(c, "/login", FlashInfo, msgLoggedOut)
}

// RegisterPage handles GET /register
// @Summary Registration page
// @Tags auth
// @Produce json
// @Success 200 {object} FormView
// @Success 302 "Already logged in"
// @Router /register [get]
func (s *Server) RegisterPage(c *fiber.Ctx) error {
	if s.optionalUser(c) != nil {
		return c.Redirect("/", fiber.StatusFound)
	}
	return s.renderForm(c, fiber.StatusOK, FormView{Page: "register"})
}

// Register handles POST /register
// @Summary Register
// @Description Creates an account. No session is started.
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Param confirm_password formData string true "Password again"
// @Success 303 "Redirect to /login"
// @Failure 400 {object} FormView
// @Failure 409 {object} FormView
// @Router /register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	if s.optionalUser(c) != nil {
		return c.Redirect("/", fiber.StatusFound)
	}

	username := c.FormValue("username")
	_, err := s.userService.Register(c.UserContext(), service.RegisterInput{
		Username:        username,
		Password:        c.FormValue("password"),
		ConfirmPassword: c.FormValue("confirm_password"),
	})
	if err != nil {
		return s.rejectForm(c, err, FlashDanger, FormView{
			Page: "register",
			Form: map[string]string{"username": username},
		})
	}
	return s.redirectWithFlash(c, "/login", FlashSuccess, msgRegistered)
}
