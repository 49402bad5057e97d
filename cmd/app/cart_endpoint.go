package main

import (
	"github.com/labstack/echo/v4"

	"github.com/siddik-official/evolution-gadget/internal/apperr"
	"github.com/siddik-official/evolution-gadget/internal/middleware"
	"github.com/siddik-official/evolution-gadget/internal/response"
	"github.com/siddik-official/evolution-gadget/internal/services"
)

type cartItemRequest struct {
	GadgetID int64 `json:"gadgetId"`
	Quantity int   `json:"quantity"`
}

type cartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func getCartHandler(cs *services.CartService) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := middleware.GetAuthUser(c)
		cart, err := cs.Get(c.Request().Context(), user.ID)
		if err != nil {
			return err
		}
		return response.OK(c, "Cart retrieved successfully", cart)
	}
}

func addCartItemHandler(cs *services.CartService) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := middleware.GetAuthUser(c)
		req := new(cartItemRequest)
		if err := c.Bind(req); err != nil {
			return apperr.Validation("Invalid request body")
		}
		cart, err := cs.AddItem(c.Request().Context(), user.ID, req.GadgetID, req.Quantity)
		if err != nil {
			return err
		}
		return response.OK(c, "Item added to cart", cart)
	}
}

func updateCartItemHandler(cs *services.CartService) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := middleware.GetAuthUser(c)
		gadgetID, err := pathID(c, "gadgetId")
		if err != nil {
			return err
		}
		req := new(cartQuantityRequest)
		if err := c.Bind(req); err != nil {
			return apperr.Validation("Invalid request body")
		}
		cart, err := cs.UpdateItem(c.Request().Context(), user.ID, gadgetID, req.Quantity)
		if err != nil {
			return err
		}
		return response.OK(c, "Cart updated successfully", cart)
	}
}

func removeCartItemHandler(cs *services.CartService) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := middleware.GetAuthUser(c)
		gadgetID, err := pathID(c, "gadgetId")
		if err != nil {
			return err
		}
		cart, err := cs.RemoveItem(c.Request().Context(), user.ID, gadgetID)
		if err != nil {
			return err
		}
		return response.OK(c, "Item removed from cart", cart)
	}
}

func clearCartHandler(cs *services.CartService) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := middleware.GetAuthUser(c)
		if err := cs.Clear(c.Request().Context(), user.ID); err != nil {
			return err
		}
		return response.OK(c, "Cart cleared successfully", nil)
	}
}

func registerCartRoutes(api *echo.Group, cs *services.CartService, auth *middleware.Authenticator) {
	cart := api.Group("/cart", auth.Authenticate)
	cart.GET("", getCartHandler(cs))
	cart.POST("/items", addCartItemHandler(cs))
	cart.PUT("/items/:gadgetId", updateCartItemHandler(cs))
	cart.DELETE("/items/:gadgetId", removeCartItemHandler(cs))
	cart.DELETE("", clearCartHandler(cs))
}
