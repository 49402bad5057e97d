package main

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/siddik-official/evolution-gadget/internal/apperr"
	"github.com/siddik-official/evolution-gadget/internal/middleware"
	"github.com/siddik-official/evolution-gadget/internal/model"
	"github.com/siddik-official/evolution-gadget/internal/query"
	"github.com/siddik-official/evolution-gadget/internal/response"
	"github.com/siddik-official/evolution-gadget/internal/services"
)

type registerRequest struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"role,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	Name    *string        `json:"name,omitempty"`
	Phone   *string        `json:"phone,omitempty"`
	Avatar  *string        `json:"avatar,omitempty"`
	Address *model.Address `json:"address,omitempty"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type userStatusRequest struct {
	IsActive bool `json:"isActive"`
}

// authPayload is the register/login response body.
type authPayload struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func registerHandler(authSvc *services.AuthService, tokens *middleware.TokenManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(registerRequest)
		if err := c.Bind(req); err != nil {
			return apperr.Validation("Invalid request body")
		}
		user, err := authSvc.Register(c.Request().Context(), req.Name, req.Email, req.Password, req.Role)
		if err != nil {
			return err
		}
		token, err := tokens.Generate(user.ID, user.Email, user.Role)
		if err != nil {
			return err
		}
		return response.Created(c, "User registered successfully", authPayload{Token: token, User: user})
	}
}

func loginHandler(authSvc *services.AuthService, tokens *middleware.TokenManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(loginRequest)
		if err := c.Bind(req); err != nil {
			return apperr.Validation("Invalid request body")
		}
		user, err := authSvc.Login(c.Request().Context(), req.Email, req.Password)
		if err != nil {
			return err
		}
		token, err := tokens.Generate(user.ID, user.Email, user.Role)
		if err != nil {
			return err
		}
		return response.OK(c, "Login successful", authPayload{Token: token, User: user})
	}
}

func profileHandler(userSvc *services.UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := userSvc.Profile(c.Request().Context(), middleware.GetAuthUser(c).ID)
		if err != nil {
			return err
		}
		return response.OK(c, "Profile retrieved successfully", user)
	}
}

func updateProfileHandler(userSvc *services.UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(updateProfileRequest)
		if err := c.Bind(req); err != nil {
			return apperr.Validation("Invalid request body")
		}
		user, err := userSvc.UpdateProfile(c.Request().Context(), middleware.GetAuthUser(c).ID, services.ProfileUpdate{
			Name:    req.Name,
			Phone:   req.Phone,
			Avatar:  req.Avatar,
			Address: req.Address,
		})
		if err != nil {
			return err
		}
		return response.OK(c, "Profile updated successfully", user)
	}
}

func changePasswordHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(changePasswordRequest)
		if err := c.Bind(req); err != nil {
			return apperr.Validation("Invalid request body")
		}
		if err := authSvc.ChangePassword(c.Request().Context(), middleware.GetAuthUser(c).ID,
			req.CurrentPassword, req.NewPassword); err != nil {
			return err
		}
		return response.OK(c, "Password changed successfully", nil)
	}
}

func deactivateHandler(userSvc *services.UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := userSvc.Deactivate(c.Request().Context(), middleware.GetAuthUser(c).ID); err != nil {
			return err
		}
		return response.OK(c, "Account deactivated successfully", nil)
	}
}

func listUsersHandler(userSvc *services.UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		filters, err := query.ParseUserFilters(c.QueryParam)
		if err != nil {
			return err
		}
		p := query.ParsePagination(c.QueryParam, query.UserDefaultLimit, query.UserMaxLimit)
		sort := query.ParseSort(c.QueryParam, query.UserSortColumns, "createdAt")

		users, total, err := userSvc.List(c.Request().Context(), filters, sort, p)
		if err != nil {
			return err
		}
		return response.List(c, "Users retrieved successfully", users, response.Pagination{
			Page: p.Page, Limit: p.Limit, Total: total, Pages: query.Pages(total, p.Limit),
		})
	}
}

func userStatusHandler(userSvc *services.UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathID(c, "userId")
		if err != nil {
			return err
		}
		req := new(userStatusRequest)
		if err := c.Bind(req); err != nil {
			return apperr.Validation("Invalid request body")
		}
		user, err := userSvc.SetStatus(c.Request().Context(), id, req.IsActive)
		if err != nil {
			return err
		}
		msg := "User deactivated successfully"
		if req.IsActive {
			msg = "User activated successfully"
		}
		return response.OK(c, msg, user)
	}
}

func deleteUserHandler(userSvc *services.UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathID(c, "userId")
		if err != nil {
			return err
		}
		if err := userSvc.Delete(c.Request().Context(), id); err != nil {
			return err
		}
		return response.OK(c, "User deleted successfully", nil)
	}
}

func registerAuthRoutes(api *echo.Group, authSvc *services.AuthService, userSvc *services.UserService,
	tokens *middleware.TokenManager, auth *middleware.Authenticator, authLimiter echo.MiddlewareFunc) {
	g := api.Group("/auth")

	// public, behind the tighter limiter
	g.POST("/register", registerHandler(authSvc, tokens), authLimiter)
	g.POST("/login", loginHandler(authSvc, tokens), authLimiter)

	// authenticated
	protected := g.Group("", auth.Authenticate)
	protected.GET("/profile", profileHandler(userSvc))
	protected.PUT("/profile", updateProfileHandler(userSvc))
	protected.PATCH("/change-password", changePasswordHandler(authSvc))
	protected.PATCH("/deactivate", deactivateHandler(userSvc))

	// admin-only user management
	admin := g.Group("", auth.Authenticate, middleware.RequireRoles(model.RoleAdmin))
	admin.GET("/users", listUsersHandler(userSvc))
	admin.PATCH("/users/:userId/status", userStatusHandler(userSvc))
	admin.DELETE("/users/:userId", deleteUserHandler(userSvc))
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.New(http.StatusBadRequest, "INVALID_ID", "Invalid ID format")
	}
	return id, nil
}
