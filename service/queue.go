package service

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"ReelsWizard-server/config"

	"github.com/hibiken/asynq"
)

const (
	TypeRenderVideo = "render:video"
)

type RenderTaskPayload struct {
	TaskID string `json:"task_id"`
}

var QueueClient *asynq.Client

func InitQueue() {
	QueueClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.Redis.Addr,
		Password: config.AppConfig.Redis.Password,
	})
}

// EnqueueRenderTask queues a stored render task for the async worker.
func EnqueueRenderTask(taskID string) error {
	payload, err := json.Marshal(RenderTaskPayload{TaskID: taskID})
	if err != nil {
		return fmt.Errorf("marshal payload failed: %w", err)
	}

	task := asynq.NewTask(TypeRenderVideo, payload,
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Minute), // rendering on the GPU worker is slow
		asynq.Retention(24*time.Hour),
	)

	info, err := QueueClient.Enqueue(task)
	if err != nil {
		return fmt.Errorf("enqueue failed: %w", err)
	}

	log.Printf("[Queue] render task enqueued: task=%s queue_id=%s", taskID, info.ID)
	return nil
}
