package echodash

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Mogeshaue/Happy-Fox-sub000/core/dashboard"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/entity"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/table"
)

func registerDashboardRoutes(e *echo.Echo, auth echo.MiddlewareFunc) {
	e.GET("/", home, auth)

	tabs := e.Group("/tabs", auth)
	tabs.GET("/:type", showTab)
	tabs.POST("/:type", createEntity)
	tabs.POST("/:type/:id/delete", deleteEntity)

	e.POST("/errors/dismiss", dismissError, auth)
	e.GET("/api/tabs/:type", tabData, auth)
}

func tabPath(t entity.Type) string {
	return "/tabs/" + string(t)
}

// selectTab loads the session dashboard and activates the requested tab.
func selectTab(ctx echo.Context) (*dashboard.Dashboard, error) {
	d, err := getContextDashboard(ctx)
	if err != nil {
		return nil, err
	}
	if err = d.Select(entity.Type(ctx.Param("type"))); err != nil {
		return nil, errHttpNotFound
	}
	mount(ctx, d)
	return d, nil
}

// mount fetches the collections once. The first fetch outlives the request that
// triggered it; failures end up in the error banner.
func mount(ctx echo.Context, d *dashboard.Dashboard) {
	_ = d.Mount(context.WithoutCancel(ctx.Request().Context()))
}

func home(ctx echo.Context) error {
	d, err := getContextDashboard(ctx)
	if err != nil {
		return err
	}
	return ctx.Redirect(http.StatusFound, tabPath(d.Active()))
}

func showTab(ctx echo.Context) error {
	d, err := selectTab(ctx)
	if err != nil {
		return err
	}
	return ctx.Render(http.StatusOK, "tabs", d.View())
}

// createEntity submits the create form. Field errors and failed requests are kept in the
// session dashboard and shown once the browser follows the redirect.
func createEntity(ctx echo.Context) error {
	d, err := selectTab(ctx)
	if err != nil {
		return err
	}
	params, err := ctx.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form data")
	}
	if err = d.Submit(ctx.Request().Context(), params); errors.Cause(err) == dashboard.ErrReadOnly {
		return errHttpForbidden
	}
	return ctx.Redirect(http.StatusSeeOther, tabPath(d.Active()))
}

func deleteEntity(ctx echo.Context) error {
	d, err := selectTab(ctx)
	if err != nil {
		return err
	}
	if err = d.Delete(ctx.Request().Context(), ctx.Param("id")); errors.Cause(err) == dashboard.ErrReadOnly {
		return errHttpForbidden
	}
	return ctx.Redirect(http.StatusSeeOther, tabPath(d.Active()))
}

func dismissError(ctx echo.Context) error {
	d, err := getContextDashboard(ctx)
	if err != nil {
		return err
	}
	d.DismissError()

	next := ctx.FormValue("next")
	if !strings.HasPrefix(next, "/tabs/") {
		next = tabPath(d.Active())
	}
	return ctx.Redirect(http.StatusSeeOther, next)
}

type (
	rowData struct {
		ID    string   `json:"id"`
		Cells []string `json:"cells"`
	}

	tabResponse struct {
		Type      entity.Type `json:"type"`
		Label     string      `json:"label"`
		CanMutate bool        `json:"canMutate"`
		Headers   []string    `json:"headers"`
		Rows      []rowData   `json:"rows"`
		Empty     string      `json:"empty,omitempty"`
		Loading   bool        `json:"loading"`
		Error     string      `json:"error,omitempty"`
	}
)

func newTabResponse(v dashboard.View) tabResponse {
	resp := tabResponse{
		Type:      v.Active,
		Label:     v.Label,
		CanMutate: v.CanMutate,
		Headers:   v.Table.Headers,
		Rows:      make([]rowData, 0, len(v.Table.Rows)),
		Loading:   v.Loading,
		Error:     v.Error,
	}
	if resp.Headers == nil {
		resp.Headers = []string{}
	}
	if v.Table.Empty {
		resp.Empty = table.EmptyMessage
	}
	for _, row := range v.Table.Rows {
		rd := rowData{ID: row.ID, Cells: make([]string, len(row.Cells))}
		for i, c := range row.Cells {
			rd.Cells[i] = c.Text
		}
		resp.Rows = append(resp.Rows, rd)
	}
	return resp
}

// tabData returns a tab's table as JSON. The active tab and its form are left alone.
func tabData(ctx echo.Context) error {
	d, err := getContextDashboard(ctx)
	if err != nil {
		return err
	}
	mount(ctx, d)
	v, err := d.Peek(entity.Type(ctx.Param("type")))
	if err != nil {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, newTabResponse(v))
}
