// handlers/export.go - Spreadsheet import/export
package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"capboard/database"
	"capboard/middleware"
	"capboard/models"
	"capboard/scoring"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportTeams streams the whole board as an xlsx workbook
// GET /api/teams/export
func ExportTeams(c *fiber.Ctx) error {
	teams, err := teamService.ListTeams()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to retrieve teams",
		})
	}

	rows := make([][]interface{}, 0, len(teams))
	for _, t := range teams {
		historyJSON, err := json.Marshal(t.History)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{
				"success": false,
				"error":   "Failed to serialize history",
			})
		}
		rows = append(rows, []interface{}{t.ID, t.Name, t.Icon, t.Score, string(historyJSON)})
	}

	return sendWorkbook(c, "teams-export.xlsx",
		[]string{"ID", "Name", "Icon", "Score", "History"}, rows)
}

// ImportTeams loads teams from an uploaded xlsx workbook, updating
// rows that match an existing team name and creating the rest
// POST /api/teams/import
func ImportTeams(c *fiber.Ctx) error {
	rows, err := readWorkbook(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	db := database.GetDB()
	created, updated, skipped := 0, 0, 0

	for _, row := range rows {
		name := strings.TrimSpace(cell(row, 1))
		if name == "" {
			skipped++
			continue
		}

		icon := strings.TrimSpace(cell(row, 2))
		score, err := strconv.Atoi(strings.TrimSpace(cell(row, 3)))
		if err != nil {
			skipped++
			continue
		}

		history := scoring.History{}
		if raw := strings.TrimSpace(cell(row, 4)); raw != "" {
			if err := json.Unmarshal([]byte(raw), &history); err != nil {
				skipped++
				continue
			}
		}

		var team models.Team
		if err := db.Where("name = ?", name).First(&team).Error; err == nil {
			team.Icon = icon
			team.Score = score
			team.History = history
			if err := db.Save(&team).Error; err != nil {
				skipped++
				continue
			}
			updated++
		} else {
			team = models.Team{Name: name, Icon: icon, Score: score, History: history}
			if err := db.Create(&team).Error; err != nil {
				skipped++
				continue
			}
			created++
		}
	}

	importer, _ := middleware.GetEmail(c)
	log.Printf("Team import by %s: %d created, %d updated, %d skipped", importer, created, updated, skipped)
	NotifyLeaderboard("teams_updated")

	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Imported %d teams (%d new, %d updated, %d skipped)",
			created+updated, created, updated, skipped),
	})
}

// ExportReasons streams the reason catalog as an xlsx workbook
// GET /api/reasons/export
func ExportReasons(c *fiber.Ctx) error {
	reasons, err := reasonService.ListReasons()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to retrieve reasons",
		})
	}

	rows := make([][]interface{}, 0, len(reasons))
	for _, r := range reasons {
		rows = append(rows, []interface{}{r.ID, r.Reason, r.Description, r.Points, r.CapType})
	}

	return sendWorkbook(c, "reasons-export.xlsx",
		[]string{"ID", "Reason", "Description", "Points", "CapType"}, rows)
}

// ImportReasons loads catalog entries from an uploaded xlsx workbook,
// matching existing entries by reason text (case-insensitive)
// POST /api/reasons/import
func ImportReasons(c *fiber.Ctx) error {
	rows, err := readWorkbook(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	db := database.GetDB()
	created, updated, skipped := 0, 0, 0

	for _, row := range rows {
		text := strings.TrimSpace(cell(row, 1))
		if text == "" {
			skipped++
			continue
		}

		description := strings.TrimSpace(cell(row, 2))
		points, err := strconv.Atoi(strings.TrimSpace(cell(row, 3)))
		if err != nil {
			skipped++
			continue
		}
		capType := strings.TrimSpace(cell(row, 4))

		var reason models.Reason
		if err := db.Where("LOWER(reason) = ?", strings.ToLower(text)).First(&reason).Error; err == nil {
			reason.Description = description
			reason.Points = points
			reason.CapType = capType
			if err := db.Save(&reason).Error; err != nil {
				skipped++
				continue
			}
			updated++
		} else {
			reason = models.Reason{Reason: text, Description: description, Points: points, CapType: capType}
			if err := db.Create(&reason).Error; err != nil {
				skipped++
				continue
			}
			created++
		}
	}

	importer, _ := middleware.GetEmail(c)
	log.Printf("Reason import by %s: %d created, %d updated, %d skipped", importer, created, updated, skipped)

	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Imported %d reasons (%d new, %d updated, %d skipped)",
			created+updated, created, updated, skipped),
	})
}

// sendWorkbook builds a single-sheet workbook and streams it as a
// download.
func sendWorkbook(c *fiber.Ctx, filename string, headers []string, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	for i, h := range headers {
		name, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, name, h); err != nil {
			return c.Status(500).JSON(fiber.Map{
				"success": false,
				"error":   "Failed to build workbook",
			})
		}
	}

	for r, row := range rows {
		for i, v := range row {
			name, _ := excelize.CoordinatesToCellName(i+1, r+2)
			if err := f.SetCellValue(sheet, name, v); err != nil {
				return c.Status(500).JSON(fiber.Map{
					"success": false,
					"error":   "Failed to build workbook",
				})
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to write workbook",
		})
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

// readWorkbook pulls the data rows (header stripped) out of the first
// sheet of the uploaded file.
func readWorkbook(c *fiber.Ctx) ([][]string, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("no file uploaded")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload")
	}
	defer src.Close()

	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("file is not a valid xlsx workbook")
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook rows")
	}

	if len(rows) <= 1 {
		return nil, fmt.Errorf("workbook has no data rows")
	}
	return rows[1:], nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
