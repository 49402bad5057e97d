package main

import (
	"github.com/labstack/echo/v4"

	"github.com/siddik-official/evolution-gadget/internal/apperr"
	"github.com/siddik-official/evolution-gadget/internal/middleware"
	"github.com/siddik-official/evolution-gadget/internal/model"
	"github.com/siddik-official/evolution-gadget/internal/query"
	"github.com/siddik-official/evolution-gadget/internal/response"
	"github.com/siddik-official/evolution-gadget/internal/services"
)

type placeOrderRequest struct {
	PaymentMethod   model.PaymentMethod `json:"paymentMethod"`
	ShippingAddress model.Address       `json:"shippingAddress"`
	BillingAddress  *model.Address      `json:"billingAddress,omitempty"`
	Notes           *string             `json:"notes,omitempty"`
}

type orderStatusRequest struct {
	Status         string  `json:"status"`
	TrackingNumber *string `json:"trackingNumber,omitempty"`
}

func placeOrderHandler(os *services.OrderService) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := middleware.GetAuthUser(c)
		req := new(placeOrderRequest)
		if err := c.Bind(req); err != nil {
			return apperr.Validation("Invalid request body")
		}
		order, err := os.Place(c.Request().Context(), user.ID, services.PlaceRequest{
			PaymentMethod:   req.PaymentMethod,
			ShippingAddress: req.ShippingAddress,
			BillingAddress:  req.BillingAddress,
			Notes:           req.Notes,
		})
		if err != nil {
			return err
		}
		return response.Created(c, "Order placed successfully", order)
	}
}

func listMyOrdersHandler(os *services.OrderService) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := middleware.GetAuthUser(c)
		p := query.ParsePagination(c.QueryParam, query.UserDefaultLimit, query.UserMaxLimit)
		orders, total, err := os.ListMine(c.Request().Context(), user.ID, p)
		if err != nil {
			return err
		}
		return response.List(c, "Orders retrieved successfully", orders, response.Pagination{
			Page: p.Page, Limit: p.Limit, Total: total, Pages: query.Pages(total, p.Limit),
		})
	}
}

func listAllOrdersHandler(os *services.OrderService) echo.HandlerFunc {
	return func(c echo.Context) error {
		p := query.ParsePagination(c.QueryParam, query.UserDefaultLimit, query.UserMaxLimit)
		orders, total, err := os.ListAll(c.Request().Context(), c.QueryParam("status"), p)
		if err != nil {
			return err
		}
		return response.List(c, "All orders retrieved successfully", orders, response.Pagination{
			Page: p.Page, Limit: p.Limit, Total: total, Pages: query.Pages(total, p.Limit),
		})
	}
}

func getOrderHandler(os *services.OrderService) echo.HandlerFunc {
	return func(c echo.Context) error {
		orderID, err := pathID(c, "id")
		if err != nil {
			return err
		}
		user := middleware.GetAuthUser(c)
		order, err := os.Get(c.Request().Context(), orderID, user.ID, user.Role == model.RoleAdmin)
		if err != nil {
			return err
		}
		return response.OK(c, "Order retrieved successfully", order)
	}
}

func cancelOrderHandler(os *services.OrderService) echo.HandlerFunc {
	return func(c echo.Context) error {
		orderID, err := pathID(c, "id")
		if err != nil {
			return err
		}
		user := middleware.GetAuthUser(c)
		order, err := os.Cancel(c.Request().Context(), orderID, user.ID, user.Role == model.RoleAdmin)
		if err != nil {
			return err
		}
		return response.OK(c, "Order cancelled successfully", order)
	}
}

func updateOrderStatusHandler(os *services.OrderService) echo.HandlerFunc {
	return func(c echo.Context) error {
		orderID, err := pathID(c, "id")
		if err != nil {
			return err
		}
		req := new(orderStatusRequest)
		if err := c.Bind(req); err != nil {
			return apperr.Validation("Invalid request body")
		}
		order, err := os.UpdateStatus(c.Request().Context(), orderID, req.Status, req.TrackingNumber)
		if err != nil {
			return err
		}
		return response.OK(c, "Order status updated successfully", order)
	}
}

func registerOrderRoutes(api *echo.Group, os *services.OrderService, auth *middleware.Authenticator) {
	o := api.Group("/orders", auth.Authenticate)
	o.POST("", placeOrderHandler(os))
	o.GET("", listMyOrdersHandler(os))
	o.GET("/all", listAllOrdersHandler(os), middleware.RequireRoles(model.RoleAdmin))
	o.GET("/:id", getOrderHandler(os))
	o.PATCH("/:id/cancel", cancelOrderHandler(os))
	o.PATCH("/:id/status", updateOrderStatusHandler(os), middleware.RequireRoles(model.RoleAdmin))
}
