package handlers_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"capboard/handlers"

	"github.com/gofiber/fiber/v2"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRouteIDValidation(t *testing.T) {
	Convey("Given routes that take a numeric :id", t, func() {
		// Services stay uninitialized here; reaching one would panic,
		// so a clean 400 proves the guard stopped the handler first.
		app := fiber.New()
		app.Get("/api/teams/:id", handlers.GetTeam)
		app.Delete("/api/teams/:id", handlers.DeleteTeam)
		app.Delete("/api/reasons/:id", handlers.DeleteReason)

		Convey("When the team id is not a number", func() {
			resp, err := app.Test(httptest.NewRequest("GET", "/api/teams/abc", nil))

			Convey("Then the request fails with a single 400 response", func() {
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, 400)

				body, _ := io.ReadAll(resp.Body)
				So(string(body), ShouldContainSubstring, "Invalid ID")
			})
		})

		Convey("When a delete targets a malformed team id", func() {
			resp, err := app.Test(httptest.NewRequest("DELETE", "/api/teams/seven", nil))

			Convey("Then nothing is deleted and the request fails", func() {
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, 400)
			})
		})

		Convey("When a reason delete targets a malformed id", func() {
			resp, err := app.Test(httptest.NewRequest("DELETE", "/api/reasons/xyz", nil))

			Convey("Then the request fails with 400", func() {
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, 400)
			})
		})
	})
}
