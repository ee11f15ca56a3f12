package services_test

import (
	"testing"

	"capboard/models"
	"capboard/scoring"
	"capboard/services"

	. "github.com/smartystreets/goconvey/convey"
)

func TestAvailableReasons(t *testing.T) {
	Convey("Given the catalog and a team chasing its next cap", t, func() {
		svc := services.NewTeamService(nil)

		catalog := []models.Reason{
			{ID: 1, Reason: "Launch MVP", Points: 500, CapType: "Orange"},
			{ID: 2, Reason: "Weekly Streak", Points: 200, CapType: "Orange"},
			{ID: 3, Reason: "Ship v2", Points: 800, CapType: "Green"},
			{ID: 4, Reason: "Untagged Bonus", Points: 100, CapType: ""},
		}

		Convey("When the team is below the first boundary", func() {
			team := &models.Team{Name: "Rookies", Score: 1200}

			available := svc.AvailableReasons(team, catalog)

			Convey("Then only entries for the chased cap show up", func() {
				names := make([]string, 0, len(available))
				for _, r := range available {
					names = append(names, r.Reason)
				}
				So(names, ShouldResemble, []string{"Launch MVP", "Weekly Streak", "Untagged Bonus"})
			})
		})

		Convey("When the team already claimed a reason", func() {
			team := &models.Team{
				Name:  "Veterans",
				Score: 1200,
				History: scoring.History{
					{Points: 500, Reason: "Launch MVP", Date: "2023-10-01"},
				},
			}

			available := svc.AvailableReasons(team, catalog)

			Convey("Then the spent reason drops out of the dropdown", func() {
				for _, r := range available {
					So(r.Reason, ShouldNotEqual, "Launch MVP")
				}
				So(available, ShouldHaveLength, 2)
			})

			Convey("And a different-case history entry does not hide it", func() {
				team.History = scoring.History{
					{Points: 500, Reason: "launch mvp", Date: "2023-10-01"},
				}
				available := svc.AvailableReasons(team, catalog)
				So(available, ShouldHaveLength, 3)
			})
		})

		Convey("When the team moves into a higher band", func() {
			team := &models.Team{Name: "Climbers", Score: 3500}

			available := svc.AvailableReasons(team, catalog)

			Convey("Then the dropdown switches to the next cap's entries", func() {
				So(available, ShouldHaveLength, 1)
				So(available[0].Reason, ShouldEqual, "Ship v2")
			})
		})

		Convey("When nothing in the catalog fits", func() {
			team := &models.Team{Name: "Summit", Score: 13000}

			available := svc.AvailableReasons(team, catalog)

			Convey("Then the dropdown is empty, not nil", func() {
				So(available, ShouldNotBeNil)
				So(available, ShouldBeEmpty)
			})
		})
	})
}
