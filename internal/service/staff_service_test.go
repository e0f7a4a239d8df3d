package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Mdmuzammil18/BayerHealthCare/internal/dto"
	"github.com/Mdmuzammil18/BayerHealthCare/internal/model"
)

func setupTestStaffService() (StaffService, *memStore) {
	store := newMemStore()
	return NewStaffService(newMockRepository(store), zap.NewNop()), store
}

func validStaffRequest(email string) *dto.CreateStaffRequest {
	return &dto.CreateStaffRequest{
		Name:       "王医生",
		Email:      email,
		Password:   "secret123",
		StaffRole:  model.StaffRoleDoctor,
		Department: model.DeptEmergency,
	}
}

func TestCreateStaff_Success(t *testing.T) {
	svc, store := setupTestStaffService()

	resp, err := svc.Create(context.Background(), adminID, validStaffRequest("wang@hospital.test"))
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if resp.Role != model.RoleStaff || resp.StaffRole == nil || *resp.StaffRole != model.StaffRoleDoctor {
		t.Errorf("人员响应不正确: %+v", resp)
	}

	stored := store.users[resp.ID]
	if stored == nil {
		t.Fatalf("人员未写入")
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")) != nil {
		t.Errorf("密码应以 bcrypt 哈希存储")
	}
}

func TestCreateStaff_EmailTaken(t *testing.T) {
	svc, _ := setupTestStaffService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, adminID, validStaffRequest("wang@hospital.test")); err != nil {
		t.Fatalf("首次创建应成功: %v", err)
	}
	_, err := svc.Create(ctx, adminID, validStaffRequest("WANG@hospital.test"))
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("邮箱大小写不敏感，期望 ErrEmailTaken，实际: %v", err)
	}
}

func TestStaff_AdminOnly(t *testing.T) {
	svc, store := setupTestStaffService()
	seedStaff(store, "nurse-1", "张护士")
	nurse := staffIdentity("nurse-1")
	ctx := context.Background()

	if _, err := svc.Create(ctx, nurse, validStaffRequest("x@hospital.test")); !errors.Is(err, ErrForbidden) {
		t.Errorf("Create 期望 ErrForbidden，实际: %v", err)
	}
	if _, err := svc.GetByID(ctx, nurse, "nurse-1"); !errors.Is(err, ErrForbidden) {
		t.Errorf("GetByID 期望 ErrForbidden，实际: %v", err)
	}
	if _, _, err := svc.List(ctx, nurse, &dto.StaffListRequest{}); !errors.Is(err, ErrForbidden) {
		t.Errorf("List 期望 ErrForbidden，实际: %v", err)
	}
	if err := svc.Delete(ctx, nurse, "nurse-1"); !errors.Is(err, ErrForbidden) {
		t.Errorf("Delete 期望 ErrForbidden，实际: %v", err)
	}
}

func TestListStaff_FilterAndPaging(t *testing.T) {
	svc, store := setupTestStaffService()
	seedStaff(store, "nurse-1", "A护士")
	seedStaff(store, "nurse-2", "B护士")
	seedStaff(store, "nurse-3", "C护士")
	seedAdmin(store, "admin-002")

	list, total, err := svc.List(context.Background(), adminID, &dto.StaffListRequest{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 3 {
		t.Errorf("管理员不计入人员列表，期望总数 3，实际: %d", total)
	}
	if len(list) != 1 || list[0].ID != "nurse-3" {
		t.Errorf("第 2 页应只有 nurse-3，实际: %+v", list)
	}
}

func TestUpdateStaff(t *testing.T) {
	svc, store := setupTestStaffService()
	seedStaff(store, "nurse-1", "张护士")
	seedStaff(store, "nurse-2", "李护士")
	ctx := context.Background()

	resp, err := svc.Update(ctx, adminID, "nurse-1", &dto.UpdateStaffRequest{
		Name:       ptrTo("张主管"),
		Department: ptrTo(model.DeptSurgery),
	})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if resp.Name != "张主管" || *resp.Department != model.DeptSurgery {
		t.Errorf("更新未生效: %+v", resp)
	}

	_, err = svc.Update(ctx, adminID, "nurse-1", &dto.UpdateStaffRequest{Email: ptrTo("nurse-2@hospital.test")})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("期望 ErrEmailTaken，实际: %v", err)
	}

	if _, err := svc.Update(ctx, adminID, "ghost", &dto.UpdateStaffRequest{}); !errors.Is(err, ErrStaffNotFound) {
		t.Errorf("期望 ErrStaffNotFound，实际: %v", err)
	}
}

func TestDeleteStaff_CascadesAssignments(t *testing.T) {
	svc, store := setupTestStaffService()
	seedStaff(store, "nurse-1", "张护士")
	seedShift(store, "shift-a", testDay, "08:00", "16:00", 2)
	seedAssignment(store, "shift-a", "nurse-1")

	if err := svc.Delete(context.Background(), adminID, "nurse-1"); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if len(store.assignments) != 0 || len(store.attendances) != 0 {
		t.Errorf("人员的排班与出勤应随之删除")
	}
	if err := svc.Delete(context.Background(), adminID, "nurse-1"); !errors.Is(err, ErrStaffNotFound) {
		t.Errorf("期望 ErrStaffNotFound，实际: %v", err)
	}
}
