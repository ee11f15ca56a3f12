package admin

import (
	"testing"

	"capboard/models"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDemotionLocksBoard(t *testing.T) {
	Convey("Given the admin role change guard", t, func() {
		admin := models.User{Email: "admin@example.com", IsAdmin: true}
		member := models.User{Email: "member@example.com"}

		Convey("When demoting the only remaining admin", func() {
			So(demotionLocksBoard(admin, false, 1), ShouldBeTrue)
		})

		Convey("When demoting one of several admins", func() {
			So(demotionLocksBoard(admin, false, 2), ShouldBeFalse)
		})

		Convey("When re-affirming an admin's role", func() {
			So(demotionLocksBoard(admin, true, 1), ShouldBeFalse)
		})

		Convey("When toggling a regular member", func() {
			So(demotionLocksBoard(member, false, 1), ShouldBeFalse)
			So(demotionLocksBoard(member, true, 1), ShouldBeFalse)
		})
	})
}
