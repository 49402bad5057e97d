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

type reviewRequest struct {
	Rating  int      `json:"rating"`
	Title   string   `json:"title"`
	Comment string   `json:"comment"`
	Pros    []string `json:"pros"`
	Cons    []string `json:"cons"`
}

func listReviewsHandler(rs *services.ReviewService) echo.HandlerFunc {
	return func(c echo.Context) error {
		gadgetID, err := pathID(c, "id")
		if err != nil {
			return err
		}
		p := query.ParsePagination(c.QueryParam, query.UserDefaultLimit, query.UserMaxLimit)
		reviews, total, err := rs.ListByGadget(c.Request().Context(), gadgetID, p)
		if err != nil {
			return err
		}
		return response.List(c, "Reviews retrieved successfully", reviews, response.Pagination{
			Page: p.Page, Limit: p.Limit, Total: total, Pages: query.Pages(total, p.Limit),
		})
	}
}

func createReviewHandler(rs *services.ReviewService) echo.HandlerFunc {
	return func(c echo.Context) error {
		gadgetID, err := pathID(c, "id")
		if err != nil {
			return err
		}
		user := middleware.GetAuthUser(c)
		req := new(reviewRequest)
		if err := c.Bind(req); err != nil {
			return apperr.Validation("Invalid request body")
		}
		review, err := rs.Create(c.Request().Context(), &model.Review{
			UserID:   user.ID,
			GadgetID: gadgetID,
			Rating:   req.Rating,
			Title:    req.Title,
			Comment:  req.Comment,
			Pros:     req.Pros,
			Cons:     req.Cons,
		})
		if err != nil {
			return err
		}
		return response.Created(c, "Review created successfully", review)
	}
}

func deleteReviewHandler(rs *services.ReviewService) echo.HandlerFunc {
	return func(c echo.Context) error {
		reviewID, err := pathID(c, "id")
		if err != nil {
			return err
		}
		user := middleware.GetAuthUser(c)
		if err := rs.Delete(c.Request().Context(), reviewID, user.ID, user.Role == model.RoleAdmin); err != nil {
			return err
		}
		return response.OK(c, "Review deleted successfully", nil)
	}
}

func markReviewHelpfulHandler(rs *services.ReviewService) echo.HandlerFunc {
	return func(c echo.Context) error {
		reviewID, err := pathID(c, "id")
		if err != nil {
			return err
		}
		review, err := rs.MarkHelpful(c.Request().Context(), reviewID)
		if err != nil {
			return err
		}
		return response.OK(c, "Review marked as helpful", review)
	}
}

func registerReviewRoutes(api *echo.Group, rs *services.ReviewService, auth *middleware.Authenticator) {
	api.GET("/gadgets/:id/reviews", listReviewsHandler(rs))
	api.POST("/gadgets/:id/reviews", createReviewHandler(rs), auth.Authenticate)

	r := api.Group("/reviews")
	r.DELETE("/:id", deleteReviewHandler(rs), auth.Authenticate)
	r.PATCH("/:id/helpful", markReviewHelpfulHandler(rs), auth.Authenticate)
}
