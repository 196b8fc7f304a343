package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/tuanasish/leave-request/internal/config"
	"github.com/tuanasish/leave-request/internal/constants"
	"github.com/tuanasish/leave-request/internal/logger"
	"github.com/tuanasish/leave-request/internal/models"
)

type demoProfile struct {
	email    string
	phone    string
	fullName string
	role     string
}

type demoLeave struct {
	email     string
	offset    int
	days      int
	reason    string
	status    string
	adminNote string
}

func main() {
	adminEmail := flag.String("admin-email", "admin@example.com", "演示管理员邮箱")
	flag.Parse()

	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	db, err := models.OpenDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, false)
	if err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(db); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}
	if err := models.EnsureDefaultSettings(db); err != nil {
		stdLog.Fatalf("Failed to seed settings: %v", err)
	}

	// 添加演示用户
	profiles := []demoProfile{
		{email: *adminEmail, phone: "0900000001", fullName: "Quản trị viên", role: constants.RoleAdmin},
		{email: "nguyen.an@example.com", phone: "0912345678", fullName: "Nguyễn Văn An", role: constants.RoleUser},
		{email: "tran.binh@example.com", phone: "0987654321", fullName: "Trần Thị Bình", role: constants.RoleUser},
		{email: "le.chi@example.com", phone: "", fullName: "Lê Minh Chí", role: constants.RoleUser},
	}
	userIDs := map[string]string{}
	now := time.Now()
	for _, item := range profiles {
		var existing models.Profile
		if err := db.Where("email = ?", item.email).First(&existing).Error; err == nil {
			stdLog.Printf("Profile already exists: %s", item.email)
			userIDs[item.email] = existing.ID
			continue
		}
		profile := models.Profile{
			Email:            item.email,
			Phone:            item.phone,
			FullName:         item.fullName,
			Role:             item.role,
			IsVerified:       true,
			EmailConfirmedAt: &now,
		}
		if err := db.Create(&profile).Error; err != nil {
			stdLog.Printf("Failed to create profile %s: %v", item.email, err)
			continue
		}
		stdLog.Printf("Created profile: %s", item.email)
		userIDs[item.email] = profile.ID
	}

	// 添加演示请假申请（日期相对今天）
	today := models.NewDate(now.In(cfg.Server.Location()))
	leaves := []demoLeave{
		{email: "nguyen.an@example.com", offset: 1, days: 2, reason: "Về quê dự đám cưới", status: constants.LeaveStatusApproved, adminNote: "Đồng ý"},
		{email: "nguyen.an@example.com", offset: 14, days: 1, reason: "Khám sức khỏe định kỳ", status: constants.LeaveStatusPending},
		{email: "tran.binh@example.com", offset: 0, days: 3, reason: "Chăm con ốm", status: constants.LeaveStatusApproved},
		{email: "tran.binh@example.com", offset: -10, days: 1, reason: "Việc cá nhân", status: constants.LeaveStatusRejected, adminNote: "Trùng lịch dự án"},
		{email: "le.chi@example.com", offset: 7, days: 5, reason: "Du lịch cùng gia đình", status: constants.LeaveStatusPending},
	}
	adminID := userIDs[*adminEmail]
	created := 0
	for _, item := range leaves {
		userID, ok := userIDs[item.email]
		if !ok {
			continue
		}
		start := models.NewDate(today.AddDate(0, 0, item.offset))
		var count int64
		if err := db.Model(&models.LeaveRequest{}).
			Where("user_id = ? AND start_date = ?", userID, start).
			Count(&count).Error; err == nil && count > 0 {
			stdLog.Printf("Leave request already exists: %s %s", item.email, start.String())
			continue
		}
		leave := models.LeaveRequest{
			UserID:    userID,
			StartDate: start,
			EndDate:   models.NewDate(start.AddDate(0, 0, item.days-1)),
			Reason:    item.reason,
			Status:    item.status,
		}
		if item.status != constants.LeaveStatusPending && adminID != "" {
			reviewedAt := now
			leave.ReviewedBy = &adminID
			leave.ReviewedAt = &reviewedAt
			if item.adminNote != "" {
				note := item.adminNote
				leave.AdminNote = &note
			}
		}
		if err := db.Create(&leave).Error; err != nil {
			stdLog.Printf("Failed to create leave request for %s: %v", item.email, err)
			continue
		}
		created++
	}

	fmt.Println("\n✅ Demo data created successfully!")
	fmt.Println("Summary:")
	fmt.Printf("- %d Profiles (admin: %s)\n", len(userIDs), *adminEmail)
	fmt.Printf("- %d Leave requests\n", created)
	fmt.Println("- Default settings")
}
