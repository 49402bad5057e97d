package main

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/siddik-official/evolution-gadget/internal/apperr"
	"github.com/siddik-official/evolution-gadget/internal/middleware"
	"github.com/siddik-official/evolution-gadget/internal/model"
	"github.com/siddik-official/evolution-gadget/internal/query"
	"github.com/siddik-official/evolution-gadget/internal/response"
	"github.com/siddik-official/evolution-gadget/internal/services"
)

type gadgetRequest struct {
	Name           string                `json:"name"`
	Description    string                `json:"description"`
	Price          float64               `json:"price"`
	OriginalPrice  *float64              `json:"originalPrice,omitempty"`
	Category       model.GadgetCategory  `json:"category"`
	Brand          string                `json:"brand"`
	Model          string                `json:"model"`
	Images         []string              `json:"images"`
	Specifications []model.Specification `json:"specifications"`
	Stock          int                   `json:"stock"`
	Tags           []string              `json:"tags"`
}

func (r *gadgetRequest) toModel(id int64) *model.Gadget {
	return &model.Gadget{
		ID:             id,
		Name:           r.Name,
		Description:    r.Description,
		Price:          r.Price,
		OriginalPrice:  r.OriginalPrice,
		Category:       r.Category,
		Brand:          r.Brand,
		Model:          r.Model,
		Images:         r.Images,
		Specifications: r.Specifications,
		Stock:          r.Stock,
		Tags:           r.Tags,
	}
}

func listGadgetsHandler(gs *services.GadgetService) echo.HandlerFunc {
	return func(c echo.Context) error {
		filters, err := query.ParseGadgetFilters(c.QueryParam)
		if err != nil {
			return err
		}
		p := query.ParsePagination(c.QueryParam, query.GadgetDefaultLimit, query.GadgetMaxLimit)
		sort := query.ParseSort(c.QueryParam, query.GadgetSortColumns, "createdAt")

		gadgets, total, err := gs.List(c.Request().Context(), filters, sort, p)
		if err != nil {
			return err
		}
		return response.List(c, "Gadgets retrieved successfully", gadgets, response.Pagination{
			Page: p.Page, Limit: p.Limit, Total: total, Pages: query.Pages(total, p.Limit),
		})
	}
}

func featuredGadgetsHandler(gs *services.GadgetService) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		gadgets, err := gs.Featured(c.Request().Context(), limit)
		if err != nil {
			return err
		}
		return response.OK(c, "Featured gadgets retrieved successfully", gadgets)
	}
}

func searchGadgetsHandler(gs *services.GadgetService) echo.HandlerFunc {
	return func(c echo.Context) error {
		q := c.QueryParam("q")
		if q == "" {
			return apperr.BadRequest("SEARCH_QUERY_REQUIRED", "Search query is required")
		}
		p := query.ParsePagination(c.QueryParam, query.GadgetDefaultLimit, query.GadgetMaxLimit)
		sort := query.Sort{Column: query.GadgetSortColumns["averageRating"], Desc: true}

		gadgets, total, err := gs.List(c.Request().Context(), query.GadgetFilters{Search: q}, sort, p)
		if err != nil {
			return err
		}
		return response.List(c, "Search results retrieved successfully", gadgets, response.Pagination{
			Page: p.Page, Limit: p.Limit, Total: total, Pages: query.Pages(total, p.Limit),
		})
	}
}

func gadgetsByCategoryHandler(gs *services.GadgetService) echo.HandlerFunc {
	return func(c echo.Context) error {
		cat := model.GadgetCategory(c.Param("category"))
		if !cat.Valid() {
			return apperr.BadRequest("INVALID_CATEGORY", "Invalid category")
		}
		p := query.ParsePagination(c.QueryParam, query.GadgetDefaultLimit, query.GadgetMaxLimit)
		sort := query.Sort{Column: query.GadgetSortColumns["createdAt"], Desc: true}

		gadgets, total, err := gs.List(c.Request().Context(), query.GadgetFilters{Category: &cat}, sort, p)
		if err != nil {
			return err
		}
		return response.List(c, string(cat)+" gadgets retrieved successfully", gadgets, response.Pagination{
			Page: p.Page, Limit: p.Limit, Total: total, Pages: query.Pages(total, p.Limit),
		})
	}
}

func gadgetStatsHandler(gs *services.GadgetService) echo.HandlerFunc {
	return func(c echo.Context) error {
		stats, err := gs.Stats(c.Request().Context())
		if err != nil {
			return err
		}
		return response.OK(c, "Gadget statistics retrieved successfully", stats)
	}
}

func getGadgetHandler(gs *services.GadgetService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		gadget, err := gs.Get(c.Request().Context(), id)
		if err != nil {
			return err
		}
		return response.OK(c, "Gadget retrieved successfully", gadget)
	}
}

func listGadgetsAdminHandler(gs *services.GadgetService) echo.HandlerFunc {
	return func(c echo.Context) error {
		filters, err := query.ParseGadgetFilters(c.QueryParam)
		if err != nil {
			return err
		}
		// unlike the public listing, isActive filters only when supplied
		filters.Active = boolQuery(c.QueryParam("isActive"))

		p := query.ParsePagination(c.QueryParam, query.GadgetDefaultLimit, query.GadgetMaxLimit)
		sort := query.ParseSort(c.QueryParam, query.GadgetSortColumns, "createdAt")

		gadgets, total, err := gs.ListAdmin(c.Request().Context(), filters, sort, p)
		if err != nil {
			return err
		}
		return response.List(c, "All gadgets retrieved successfully", gadgets, response.Pagination{
			Page: p.Page, Limit: p.Limit, Total: total, Pages: query.Pages(total, p.Limit),
		})
	}
}

func createGadgetHandler(gs *services.GadgetService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(gadgetRequest)
		if err := c.Bind(req); err != nil {
			return apperr.Validation("Invalid request body")
		}
		gadget, err := gs.Create(c.Request().Context(), req.toModel(0))
		if err != nil {
			return err
		}
		return response.Created(c, "Gadget created successfully", gadget)
	}
}

func updateGadgetHandler(gs *services.GadgetService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		req := new(gadgetRequest)
		if err := c.Bind(req); err != nil {
			return apperr.Validation("Invalid request body")
		}
		gadget, err := gs.Update(c.Request().Context(), req.toModel(id))
		if err != nil {
			return err
		}
		return response.OK(c, "Gadget updated successfully", gadget)
	}
}

func deleteGadgetHandler(gs *services.GadgetService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		gadget, err := gs.SoftDelete(c.Request().Context(), id)
		if err != nil {
			return err
		}
		return response.OK(c, "Gadget deleted successfully", gadget)
	}
}

func permanentDeleteGadgetHandler(gs *services.GadgetService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		if err := gs.PermanentDelete(c.Request().Context(), id); err != nil {
			return err
		}
		return response.OK(c, "Gadget permanently deleted successfully", nil)
	}
}

func registerGadgetRoutes(api *echo.Group, gs *services.GadgetService, auth *middleware.Authenticator) {
	g := api.Group("/gadgets")

	// public catalog
	g.GET("", listGadgetsHandler(gs))
	g.GET("/featured", featuredGadgetsHandler(gs))
	g.GET("/search", searchGadgetsHandler(gs))
	g.GET("/category/:category", gadgetsByCategoryHandler(gs))
	g.GET("/stats", gadgetStatsHandler(gs))
	g.GET("/:id", getGadgetHandler(gs))

	// admin mutations
	admin := g.Group("/admin", auth.Authenticate, middleware.RequireRoles(model.RoleAdmin))
	admin.GET("/all", listGadgetsAdminHandler(gs))
	admin.POST("", createGadgetHandler(gs))
	admin.PUT("/:id", updateGadgetHandler(gs))
	admin.DELETE("/:id", deleteGadgetHandler(gs))
	admin.DELETE("/:id/permanent", permanentDeleteGadgetHandler(gs))
}

// boolQuery maps "true"/"false" to a filter value; anything else means
// unfiltered.
func boolQuery(raw string) *bool {
	switch raw {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}
