package usecase_test

import (
	"context"
	"testing"
	"time"

	"freshmart/internal/domain/model"
	repo "freshmart/internal/repository"
	"freshmart/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAdminOrderUsecase_UpdateStatus_UnauthorizedActor(t *testing.T) {
	uc := usecase.NewAdminOrderUsecase(new(TxManagerMock))

	err := uc.UpdateStatus(context.Background(), 0, 1, usecase.AdminUpdateOrderStatusInput{Status: "confirmed"})
	assertErrContains(t, err, "unauthorized")
}

func TestAdminOrderUsecase_UpdateStatus_InvalidStatus(t *testing.T) {
	uc := usecase.NewAdminOrderUsecase(new(TxManagerMock))

	err := uc.UpdateStatus(context.Background(), 1, 1, usecase.AdminUpdateOrderStatusInput{Status: "teleported"})
	assertErrContains(t, err, "invalid status")
}

func TestAdminOrderUsecase_UpdateStatus_NotFound(t *testing.T) {
	tx := new(TxManagerMock)
	ordersRepo := new(OrderRepoMock)

	tx.Repos = &TxReposMock{orders: ordersRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(99)).Return(model.Order{}, repo.ErrNotFound)

	uc := usecase.NewAdminOrderUsecase(tx)

	err := uc.UpdateStatus(context.Background(), 1, 99, usecase.AdminUpdateOrderStatusInput{Status: "confirmed"})
	assertErrContains(t, err, "order not found")
}

func TestAdminOrderUsecase_UpdateStatus_ForwardOnly(t *testing.T) {
	tx := new(TxManagerMock)
	ordersRepo := new(OrderRepoMock)

	tx.Repos = &TxReposMock{orders: ordersRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	//shipped から confirmed へは戻れない
	ordersRepo.On("FindByID", mock.Anything, int64(501)).Return(model.Order{
		ID: 501, Status: model.OrderStatusShipped,
	}, nil)

	uc := usecase.NewAdminOrderUsecase(tx)

	err := uc.UpdateStatus(context.Background(), 1, 501, usecase.AdminUpdateOrderStatusInput{Status: "confirmed"})
	assertErrContains(t, err, "invalid status transition")

	ordersRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminOrderUsecase_UpdateStatus_TerminalOrderIsFrozen(t *testing.T) {
	tx := new(TxManagerMock)
	ordersRepo := new(OrderRepoMock)

	tx.Repos = &TxReposMock{orders: ordersRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(501)).Return(model.Order{
		ID: 501, Status: model.OrderStatusCancelled,
	}, nil)

	uc := usecase.NewAdminOrderUsecase(tx)

	err := uc.UpdateStatus(context.Background(), 1, 501, usecase.AdminUpdateOrderStatusInput{Status: "confirmed"})
	assertErrContains(t, err, "invalid status transition")
}

func TestAdminOrderUsecase_UpdateStatus_DeliveredStampsTimestamp(t *testing.T) {
	tx := new(TxManagerMock)
	ordersRepo := new(OrderRepoMock)
	auditRepo := new(AuditLogRepoMock)

	tx.Repos = &TxReposMock{orders: ordersRepo, auditLogs: auditRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(501)).Return(model.Order{
		ID: 501, Status: model.OrderStatusShipped,
	}, nil)
	ordersRepo.On("UpdateStatus", mock.Anything, int64(501), model.OrderStatusDelivered, mock.MatchedBy(func(ts *time.Time) bool {
		return ts != nil
	})).Return(nil)
	auditRepo.On("Create", mock.Anything, mock.AnythingOfType("model.AuditLog")).Run(func(args mock.Arguments) {
		l := args.Get(1).(model.AuditLog)
		assert.Equal(t, int64(9), l.ActorUserID)
		assert.Equal(t, model.AuditActionUpdateOrderStatus, l.Action)
		assert.Equal(t, int64(501), l.ResourceID)
		assert.Contains(t, l.BeforeJSON, "shipped")
		assert.Contains(t, l.AfterJSON, "delivered")
	}).Return(nil)

	uc := usecase.NewAdminOrderUsecase(tx)

	err := uc.UpdateStatus(context.Background(), 9, 501, usecase.AdminUpdateOrderStatusInput{Status: "delivered"})
	assert.NoError(t, err)

	ordersRepo.AssertExpectations(t)
	auditRepo.AssertExpectations(t)
}

func TestAdminOrderUsecase_UpdateStatus_CancelFromProcessing(t *testing.T) {
	tx := new(TxManagerMock)
	ordersRepo := new(OrderRepoMock)
	auditRepo := new(AuditLogRepoMock)

	tx.Repos = &TxReposMock{orders: ordersRepo, auditLogs: auditRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(501)).Return(model.Order{
		ID: 501, Status: model.OrderStatusProcessing,
	}, nil)
	ordersRepo.On("UpdateStatus", mock.Anything, int64(501), model.OrderStatusCancelled, (*time.Time)(nil)).Return(nil)
	auditRepo.On("Create", mock.Anything, mock.AnythingOfType("model.AuditLog")).Return(nil)

	uc := usecase.NewAdminOrderUsecase(tx)

	err := uc.UpdateStatus(context.Background(), 9, 501, usecase.AdminUpdateOrderStatusInput{Status: "cancelled"})
	assert.NoError(t, err)

	ordersRepo.AssertExpectations(t)
}
