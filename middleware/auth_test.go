package middleware_test

import (
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"capboard/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	. "github.com/smartystreets/goconvey/convey"
)

const testSecret = "test-secret-0123456789abcdef0123456789"

func signedToken(claims jwt.MapClaims) string {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		panic(err)
	}
	return tok
}

func TestAuthMiddleware(t *testing.T) {
	os.Setenv("JWT_SECRET", testSecret)

	Convey("Given routes guarded by AuthMiddleware", t, func() {
		app := fiber.New()
		ran := false
		var gotID uint
		var gotEmail string

		handler := func(c *fiber.Ctx) error {
			ran = true
			gotID, _ = middleware.GetUserID(c)
			gotEmail, _ = middleware.GetEmail(c)
			return c.JSON(fiber.Map{"success": true})
		}
		app.Get("/guarded", middleware.AuthMiddleware, handler)
		app.Delete("/guarded/:id", middleware.AuthMiddleware, handler)

		Convey("When no Authorization header is sent", func() {
			resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))

			Convey("Then the request is rejected and the handler never runs", func() {
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, 401)
				So(ran, ShouldBeFalse)
			})
		})

		Convey("When a mutation is attempted without a token", func() {
			resp, err := app.Test(httptest.NewRequest("DELETE", "/guarded/7", nil))

			Convey("Then nothing past the guard executes", func() {
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, 401)
				So(ran, ShouldBeFalse)
			})
		})

		Convey("When the header is not a bearer token", func() {
			req := httptest.NewRequest("GET", "/guarded", nil)
			req.Header.Set("Authorization", "Basic abc")
			resp, err := app.Test(req)

			Convey("Then the request is rejected", func() {
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, 401)
				So(ran, ShouldBeFalse)
			})
		})

		Convey("When the token is garbage", func() {
			req := httptest.NewRequest("GET", "/guarded", nil)
			req.Header.Set("Authorization", "Bearer not-a-token")
			resp, err := app.Test(req)

			Convey("Then the request is rejected", func() {
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, 401)
				So(ran, ShouldBeFalse)
			})
		})

		Convey("When the token is signed but expired", func() {
			tok := signedToken(jwt.MapClaims{
				"user_id":  7,
				"email":    "member@example.com",
				"is_admin": false,
				"exp":      time.Now().Add(-time.Hour).Unix(),
			})
			req := httptest.NewRequest("GET", "/guarded", nil)
			req.Header.Set("Authorization", "Bearer "+tok)
			resp, err := app.Test(req)

			Convey("Then the request is rejected", func() {
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, 401)
				So(ran, ShouldBeFalse)
			})
		})

		Convey("When the token is valid", func() {
			tok := signedToken(jwt.MapClaims{
				"user_id":  7,
				"email":    "member@example.com",
				"is_admin": false,
				"exp":      time.Now().Add(time.Hour).Unix(),
			})
			req := httptest.NewRequest("GET", "/guarded", nil)
			req.Header.Set("Authorization", "Bearer "+tok)
			resp, err := app.Test(req)

			Convey("Then the handler runs with the caller's identity", func() {
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, 200)
				So(ran, ShouldBeTrue)
				So(gotID, ShouldEqual, 7)
				So(gotEmail, ShouldEqual, "member@example.com")
			})
		})
	})
}

func TestAdminAuthMiddleware(t *testing.T) {
	os.Setenv("JWT_SECRET", testSecret)

	Convey("Given a route guarded by AdminAuthMiddleware", t, func() {
		app := fiber.New()
		ran := false
		app.Get("/admin", middleware.AdminAuthMiddleware, func(c *fiber.Ctx) error {
			ran = true
			return c.SendStatus(200)
		})

		Convey("When no token is sent", func() {
			resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))

			Convey("Then the request is rejected", func() {
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, 401)
				So(ran, ShouldBeFalse)
			})
		})

		Convey("When the caller is authenticated but not an admin", func() {
			tok := signedToken(jwt.MapClaims{
				"user_id":  7,
				"email":    "member@example.com",
				"is_admin": false,
				"exp":      time.Now().Add(time.Hour).Unix(),
			})
			req := httptest.NewRequest("GET", "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+tok)
			resp, err := app.Test(req)

			Convey("Then access is denied without running the handler", func() {
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, 403)
				So(ran, ShouldBeFalse)
			})
		})

		Convey("When the caller holds the admin role", func() {
			tok := signedToken(jwt.MapClaims{
				"user_id":  1,
				"email":    "admin@example.com",
				"is_admin": true,
				"exp":      time.Now().Add(time.Hour).Unix(),
			})
			req := httptest.NewRequest("GET", "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+tok)
			resp, err := app.Test(req)

			Convey("Then the handler runs", func() {
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, 200)
				So(ran, ShouldBeTrue)
			})
		})
	})
}
