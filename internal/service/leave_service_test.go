package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tuanasish/leave-request/internal/cache"
	"github.com/tuanasish/leave-request/internal/constants"
	"github.com/tuanasish/leave-request/internal/models"
	"github.com/tuanasish/leave-request/internal/repository"
)

type stubStatusNotifier struct {
	ids []string
}

func (n *stubStatusNotifier) QueueLeaveStatus(_ context.Context, id string) {
	n.ids = append(n.ids, id)
}

func TestLeaveCreateValidatesDates(t *testing.T) {
	db := setupServiceTest(t)
	svc := NewLeaveRequestService(repository.NewLeaveRequestRepository(db), cache.New(nil))
	ctx := context.Background()
	owner := createTestProfile(t, db, &models.Profile{FullName: "Đỗ E"}).ID

	if _, err := svc.Create(ctx, owner, CreateLeaveInput{StartDate: "2026-03-05", EndDate: "2026-03-04", Reason: "Về quê"}); !errors.Is(err, ErrLeaveDateRangeInvalid) {
		t.Fatalf("expected date range error, got %v", err)
	}
	if _, err := svc.Create(ctx, owner, CreateLeaveInput{StartDate: "05/03/2026", EndDate: "2026-03-06", Reason: "Về quê"}); !errors.Is(err, ErrLeaveDateInvalid) {
		t.Fatalf("expected date format error, got %v", err)
	}
	if _, err := svc.Create(ctx, owner, CreateLeaveInput{StartDate: "2026-03-05", EndDate: "2026-03-05", Reason: "  "}); !errors.Is(err, ErrLeaveReasonRequired) {
		t.Fatalf("expected reason error, got %v", err)
	}

	req, err := svc.Create(ctx, owner, CreateLeaveInput{StartDate: "2026-03-05", EndDate: "2026-03-05", Reason: "Khám bệnh"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if req.Status != constants.LeaveStatusPending || req.ID == "" {
		t.Fatalf("unexpected created request: %+v", req)
	}
}

func TestLeaveCancelOnlyPendingOwnRequest(t *testing.T) {
	db := setupServiceTest(t)
	leaves := repository.NewLeaveRequestRepository(db)
	svc := NewLeaveRequestService(leaves, cache.New(nil))
	admin := NewAdminLeaveService(leaves, repository.NewProfileRepository(db), cache.New(nil), nil, time.UTC)
	ctx := context.Background()
	owner := createTestProfile(t, db, &models.Profile{FullName: "Owner"}).ID
	other := createTestProfile(t, db, &models.Profile{FullName: "Other"}).ID

	req, err := svc.Create(ctx, owner, CreateLeaveInput{StartDate: "2026-03-05", EndDate: "2026-03-06", Reason: "Việc riêng"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.Cancel(ctx, other, req.ID); !errors.Is(err, ErrLeaveCancelNotAllowed) {
		t.Fatalf("other users cannot cancel, got %v", err)
	}
	if _, err := admin.Review(ctx, "admin-1", req.ID, ReviewLeaveInput{Status: constants.LeaveStatusApproved}); err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if err := svc.Cancel(ctx, owner, req.ID); !errors.Is(err, ErrLeaveCancelNotAllowed) {
		t.Fatalf("reviewed requests cannot be cancelled, got %v", err)
	}

	pending, _ := svc.Create(ctx, owner, CreateLeaveInput{StartDate: "2026-04-01", EndDate: "2026-04-01", Reason: "Việc riêng"})
	if err := svc.Cancel(ctx, owner, pending.ID); err != nil {
		t.Fatalf("cancel pending failed: %v", err)
	}
	if _, err := svc.Get(ctx, owner, pending.ID); !errors.Is(err, ErrLeaveNotFound) {
		t.Fatalf("cancelled request should be gone, got %v", err)
	}

	stats, err := svc.Stats(ctx, owner)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalRequests != 1 || stats.ApprovedRequests != 1 || stats.PendingRequests != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestAdminReviewTransitions(t *testing.T) {
	db := setupServiceTest(t)
	leaves := repository.NewLeaveRequestRepository(db)
	notifier := &stubStatusNotifier{}
	admin := NewAdminLeaveService(leaves, repository.NewProfileRepository(db), cache.New(nil), notifier, time.UTC)
	ctx := context.Background()

	profile := createTestProfile(t, db, &models.Profile{FullName: "Lê Văn C", Phone: "0987654321"})
	req, err := NewLeaveRequestService(leaves, cache.New(nil)).Create(ctx, profile.ID, CreateLeaveInput{StartDate: "2026-03-10", EndDate: "2026-03-12", Reason: "Du lịch"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := admin.Review(ctx, "admin-1", req.ID, ReviewLeaveInput{Status: "pending"}); !errors.Is(err, ErrLeaveStatusInvalid) {
		t.Fatalf("expected invalid status, got %v", err)
	}
	reviewed, err := admin.Review(ctx, "admin-1", req.ID, ReviewLeaveInput{Status: constants.LeaveStatusRejected, AdminNote: " Thiếu người "})
	if err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if reviewed.Status != constants.LeaveStatusRejected || reviewed.AdminNote == nil || *reviewed.AdminNote != "Thiếu người" {
		t.Fatalf("unexpected reviewed request: %+v", reviewed)
	}
	if reviewed.ReviewedBy == nil || *reviewed.ReviewedBy != "admin-1" || reviewed.ReviewedAt == nil {
		t.Fatalf("reviewer should be recorded: %+v", reviewed)
	}
	if reviewed.Profile == nil || reviewed.Profile.FullName != "Lê Văn C" {
		t.Fatalf("reviewed request should include profile")
	}
	if len(notifier.ids) != 1 || notifier.ids[0] != req.ID {
		t.Fatalf("expected one status notification, got %v", notifier.ids)
	}

	if _, err := admin.Review(ctx, "admin-1", req.ID, ReviewLeaveInput{Status: constants.LeaveStatusApproved}); !errors.Is(err, ErrLeaveNotPending) {
		t.Fatalf("second review must fail, got %v", err)
	}
	if _, err := admin.Review(ctx, "admin-1", "missing", ReviewLeaveInput{Status: constants.LeaveStatusApproved}); !errors.Is(err, ErrLeaveNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(notifier.ids) != 1 {
		t.Fatalf("failed reviews must not notify")
	}
}

func TestAdminStatsUsesBusinessTimezone(t *testing.T) {
	db := setupServiceTest(t)
	leaves := repository.NewLeaveRequestRepository(db)
	loc := time.FixedZone("ICT", 7*3600)
	admin := NewAdminLeaveService(leaves, repository.NewProfileRepository(db), cache.New(nil), nil, loc)
	// 2026-03-04 18:00 UTC 已是越南时间 3 月 5 日
	admin.now = func() time.Time { return time.Date(2026, 3, 4, 18, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	profile := createTestProfile(t, db, &models.Profile{FullName: "Phạm D"})
	user := NewLeaveRequestService(leaves, cache.New(nil))
	onLeave, _ := user.Create(ctx, profile.ID, CreateLeaveInput{StartDate: "2026-03-05", EndDate: "2026-03-06", Reason: "Nghỉ phép"})
	_, _ = user.Create(ctx, profile.ID, CreateLeaveInput{StartDate: "2026-03-20", EndDate: "2026-03-21", Reason: "Nghỉ phép"})
	if _, err := admin.Review(ctx, "admin-1", onLeave.ID, ReviewLeaveInput{Status: constants.LeaveStatusApproved}); err != nil {
		t.Fatalf("review failed: %v", err)
	}

	stats, err := admin.Stats(ctx)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalRequests != 2 || stats.PendingRequests != 1 || stats.CurrentAbsences != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.ActiveAbsencesList[0].Profile == nil || stats.ActiveAbsencesList[0].Profile.FullName != "Phạm D" {
		t.Fatalf("absence list should include profile")
	}
}

func TestAdminListAndEmployees(t *testing.T) {
	db := setupServiceTest(t)
	leaves := repository.NewLeaveRequestRepository(db)
	admin := NewAdminLeaveService(leaves, repository.NewProfileRepository(db), cache.New(nil), nil, time.UTC)
	user := NewLeaveRequestService(leaves, cache.New(nil))
	ctx := context.Background()

	anna := createTestProfile(t, db, &models.Profile{FullName: "Anna Tran"})
	binh := createTestProfile(t, db, &models.Profile{FullName: "Binh Le"})
	_, _ = user.Create(ctx, anna.ID, CreateLeaveInput{StartDate: "2026-03-05", EndDate: "2026-03-05", Reason: "A"})
	_, _ = user.Create(ctx, binh.ID, CreateLeaveInput{StartDate: "2026-03-06", EndDate: "2026-03-06", Reason: "B"})

	list, err := admin.List(ctx, "", "ANNA")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 1 || list[0].UserID != anna.ID {
		t.Fatalf("unexpected search result: %+v", list)
	}
	list, _ = admin.List(ctx, constants.LeaveStatusApproved, "")
	if len(list) != 0 {
		t.Fatalf("no approved requests expected, got %d", len(list))
	}

	employees, err := admin.Employees(ctx)
	if err != nil {
		t.Fatalf("employees failed: %v", err)
	}
	if len(employees) != 2 || employees[0].FullName != "Anna Tran" {
		t.Fatalf("employees should be sorted by name: %+v", employees)
	}
}
