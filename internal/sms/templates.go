package sms

import (
	"fmt"
	"strings"
	"time"

	"github.com/tuanasish/leave-request/internal/constants"
)

// OTPMessage 验证码短信（无音调，便于服务商审核模板）
func OTPMessage(code string, expireMinutes int) string {
	if expireMinutes <= 0 {
		expireMinutes = 5
	}
	return fmt.Sprintf("Ma OTP cua ban la %s. Hieu luc %d phut.", code, expireMinutes)
}

// LeaveStatusMessage 审批结果短信
func LeaveStatusMessage(dates, status, note, companyName string) string {
	companyName = companyOrDefault(companyName)
	cleanNote := ""
	if strings.TrimSpace(note) != "" {
		cleanNote = ". Ghi chu: " + note
	}
	if status == constants.LeaveStatusApproved {
		return fmt.Sprintf("[%s] Don xin nghi ngay %s cua ban da duoc DUYET%s", companyName, dates, cleanNote)
	}
	return fmt.Sprintf("[%s] Don xin nghi ngay %s cua ban da bi TU CHOI%s", companyName, dates, cleanNote)
}

// LeaveReminderMessage 休假提醒短信
func LeaveReminderMessage(dates, companyName string) string {
	return fmt.Sprintf("[%s] Nhac nho: ban co lich nghi phep ngay %s", companyOrDefault(companyName), dates)
}

// FormatDateRange 格式化为 dd/MM - dd/MM/yyyy
func FormatDateRange(start, end time.Time) string {
	return fmt.Sprintf("%s - %s", start.Format("02/01"), end.Format("02/01/2006"))
}

func companyOrDefault(name string) string {
	if strings.TrimSpace(name) == "" {
		return constants.DefaultCompanyName
	}
	return name
}
