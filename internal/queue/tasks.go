package queue

import (
	"encoding/json"

	"github.com/raviroshan224/MiniDeliveryApp/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderSync 单笔订单同步任务
	TaskOrderSync = constants.TaskOrderSync
	// TaskSyncSweep 待同步清扫任务
	TaskSyncSweep = constants.TaskSyncSweep
)

// OrderSyncPayload 单笔订单同步任务载荷
type OrderSyncPayload struct {
	OrderID string `json:"order_id"`
}

// NewOrderSyncTask 创建单笔订单同步任务
func NewOrderSyncTask(payload OrderSyncPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderSync, body), nil
}

// NewSyncSweepTask 创建待同步清扫任务
func NewSyncSweepTask() (*asynq.Task, error) {
	return asynq.NewTask(TaskSyncSweep, nil), nil
}
