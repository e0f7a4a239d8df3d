package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Mdmuzammil18/BayerHealthCare/config"
	"github.com/Mdmuzammil18/BayerHealthCare/internal/dto"
	"github.com/Mdmuzammil18/BayerHealthCare/internal/model"
	"github.com/Mdmuzammil18/BayerHealthCare/internal/repository"
	pkgerrors "github.com/Mdmuzammil18/BayerHealthCare/pkg/errors"
)

// ErrExportGenerateFail 导出文件生成失败
var ErrExportGenerateFail = pkgerrors.Define(pkgerrors.KindInternal, 50001, "生成导出文件失败")

const defaultCalendarDays = 30

// ExportService 导出业务接口
//
// 导出内容以 bytes.Buffer 返回，由 Handler 层设置 Content-Type / Content-Disposition 后写入响应。
type ExportService interface {
	// ExportAttendance 导出日期范围内的出勤记录为 Excel（仅管理员）
	ExportAttendance(ctx context.Context, id Identity, req *dto.ExportAttendanceRequest) (*bytes.Buffer, string, error)
	// ExportCalendar 导出人员的班次为 iCalendar，便于导入手机日历
	ExportCalendar(ctx context.Context, id Identity, req *dto.ExportCalendarRequest) (*bytes.Buffer, string, error)
}

type exportService struct {
	loc    *time.Location
	now    func() time.Time
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(cfg *config.RosterConfig, repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{loc: cfg.Location(), now: time.Now, repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportAttendance: 出勤记录导出为 Excel
// ═══════════════════════════════════════════════════════════
//
// 单 Sheet "出勤记录"，每行一条出勤：
// | 日期 | 班次 | 时间 | 姓名 | 邮箱 | 科室 | 岗位 | 状态 | 签到 | 签退 | 备注 |

func (s *exportService) ExportAttendance(ctx context.Context, id Identity, req *dto.ExportAttendanceRequest) (*bytes.Buffer, string, error) {
	if err := requireAdmin(id); err != nil {
		return nil, "", err
	}

	from, err := parseDate(req.StartDate)
	if err != nil {
		return nil, "", err
	}
	to, err := parseDate(req.EndDate)
	if err != nil {
		return nil, "", err
	}
	if to.Before(from) {
		return nil, "", ErrInvalidDateRange
	}

	list, err := s.repo.Attendance.List(ctx, repository.AttendanceFilter{
		From:   &from,
		To:     &to,
		Status: model.AttendanceStatus(req.Status),
	})
	if err != nil {
		return nil, "", unavailable(s.logger, "查询出勤记录失败", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "出勤记录"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		s.logger.Error("创建 Sheet 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{"日期", "班次", "时间", "姓名", "邮箱", "科室", "岗位", "状态", "签到", "签退", "备注"}
	widths := []float64{12, 10, 14, 14, 26, 14, 12, 12, 20, 20, 30}
	for i, h := range headers {
		col := colName(i)
		f.SetCellValue(sheetName, cell(col, 1), h)
		f.SetColWidth(sheetName, col, col, widths[i])
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	f.SetCellStyle(sheetName, "A1", cell(colName(len(headers)-1), 1), headerStyle)
	f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	row := 2
	for i := range list {
		a := &list[i]
		values := []interface{}{"", "", "", "", "", "", "", string(a.Status), s.formatClock(a.CheckIn), s.formatClock(a.CheckOut), deref(a.Remarks)}
		if a.Shift != nil {
			values[0] = formatDate(a.Shift.Date)
			values[1] = a.Shift.Type
			values[2] = a.Shift.StartTime + "-" + a.Shift.EndTime
		}
		if a.User != nil {
			values[3] = a.User.Name
			values[4] = a.User.Email
			values[5] = deref(a.User.Department)
			values[6] = deref(a.User.StaffRole)
		}
		for c, v := range values {
			f.SetCellValue(sheetName, cell(colName(c), row), v)
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("attendance_%s_%s.xlsx", req.StartDate, req.EndDate)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportCalendar: 个人班次导出为 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 每个排班对应一个 VEVENT，UID 取排班 ID，跨午夜班次的 DTEND 落在次日。

func (s *exportService) ExportCalendar(ctx context.Context, id Identity, req *dto.ExportCalendarRequest) (*bytes.Buffer, string, error) {
	target := ""
	if req.UserID != nil {
		target = *req.UserID
	}
	subject, err := resolveSubject(id, target)
	if err != nil {
		return nil, "", err
	}

	from := calendarDate(s.now(), s.loc)
	if req.StartDate != "" {
		if from, err = parseDate(req.StartDate); err != nil {
			return nil, "", err
		}
	}
	days := req.Days
	if days <= 0 {
		days = defaultCalendarDays
	}
	to := from.AddDate(0, 0, days-1)

	assignments, err := s.repo.Assignment.ListByUserInRange(ctx, subject, from, to)
	if err != nil {
		return nil, "", unavailable(s.logger, "查询个人排班失败", err)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//BayerHealthCare//Shift Roster//CN")
	cal.SetXWRCalName("排班表")

	stamp := s.now().UTC()
	for i := range assignments {
		a := &assignments[i]
		if a.Shift == nil {
			continue
		}
		window, err := shiftWindow(a.Shift, s.loc)
		if err != nil {
			return nil, "", err
		}
		event := cal.AddEvent(a.AssignmentID + "@bayer-roster")
		event.SetDtStampTime(stamp)
		event.SetStartAt(window.Start)
		event.SetEndAt(window.End)
		event.SetSummary(shiftTypeLabel(a.Shift.Type))
		event.SetDescription(fmt.Sprintf("班次 %s，容量 %d", describeShift(a.Shift), a.Shift.Capacity))
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("shifts_%s.ics", formatDate(from))
	return buf, filename, nil
}

// ── 辅助函数 ──

func shiftTypeLabel(t string) string {
	switch t {
	case model.ShiftTypeMorning:
		return "早班"
	case model.ShiftTypeAfternoon:
		return "中班"
	case model.ShiftTypeNight:
		return "夜班"
	default:
		return t
	}
}

func (s *exportService) formatClock(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(s.loc).Format("2006-01-02 15:04")
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
