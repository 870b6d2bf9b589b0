// Package export renders check-in and draw ledgers as xlsx workbooks.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/Eursukkul/expo-draw-service/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	CheckinsSheet = "checkins"
	DrawsSheet    = "draws"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	timeLayout = "2006-01-02 15:04:05"
)

type column struct {
	header string
	width  float64
}

var checkinColumns = []column{
	{"展会", 20},
	{"公司名称", 24},
	{"签到人", 16},
	{"手机", 16},
	{"签到地点", 20},
	{"签到时间", 22},
	{"抽奖结果", 16},
}

var drawColumns = []column{
	{"姓名", 16},
	{"手机号", 16},
	{"抽奖结果", 20},
	{"抽奖时间", 22},
}

// CheckinsWorkbook writes one row per check-in, in the given order.
func CheckinsWorkbook(rows []models.CheckinWithDraw) ([]byte, error) {
	values := make([][]any, 0, len(rows))
	for _, r := range rows {
		values = append(values, []any{
			r.ExhibitionName,
			r.CompanyName,
			r.SignerName,
			r.Phone,
			r.Location,
			formatTime(r.CheckinTime),
			r.DrawResult,
		})
	}
	return render(CheckinsSheet, checkinColumns, values)
}

// DrawsWorkbook writes one row per draw record, in the given order.
func DrawsWorkbook(rows []models.DrawPreview) ([]byte, error) {
	values := make([][]any, 0, len(rows))
	for _, r := range rows {
		values = append(values, []any{r.Name, r.Phone, r.Result, formatTime(r.DrawTime)})
	}
	return render(DrawsSheet, drawColumns, values)
}

func render(sheet string, columns []column, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// A new file starts with "Sheet1"; rename it rather than add a second sheet.
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c.header
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, name, name, c.width); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		// Phones stay text so leading digits are not reformatted.
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}
