package api

import (
	"net/http"
	"time"

	"ReelsWizard-server/models"
	"ReelsWizard-server/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GetTaskStatus reads a render task by id.
// GET /api/tasks/:task_id
func GetTaskStatus(c *gin.Context) {
	taskID := c.Param("task_id")
	t, err := models.GetRenderTaskByID(models.GormDB, taskID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": t})
}

// CancelTask stops an in-flight render: cancels the poll loop, tells the
// worker to drop the job, and marks the task failed.
// DELETE /api/tasks/:task_id
func CancelTask(c *gin.Context) {
	taskID := c.Param("task_id")
	t, err := models.GetRenderTaskByID(models.GormDB, taskID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found: " + err.Error()})
		return
	}
	if t.Status == models.TaskStatusFinished || t.Status == models.TaskStatusFailed {
		c.JSON(http.StatusConflict, gin.H{"error": "task already " + t.Status})
		return
	}

	polled := service.CancelPollTask(taskID)
	if t.Result.WorkerJobID != "" {
		if err := service.CancelWorkerJob(t.Result.WorkerJobID); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "worker cancel failed: " + err.Error(), "poll_canceled": polled})
			return
		}
	}
	t.UpdateStatus(models.GormDB, models.TaskStatusFailed, nil, "canceled by user")
	c.JSON(http.StatusOK, gin.H{"task_id": taskID, "canceled": true})
}

// TaskProgressWebSocket pushes render progress from the DB. The processor
// writes progress rows as it polls the worker; this handler only watches the
// DB and forwards changes.
// GET /tasks/:task_id/wss
func TaskProgressWebSocket(c *gin.Context) {
	taskID := c.Param("task_id")
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "websocket upgrade failed"})
		return
	}
	defer conn.Close()

	t, err := models.GetRenderTaskByID(models.GormDB, taskID)
	if err != nil {
		conn.WriteJSON(map[string]interface{}{"error": "task not found: " + err.Error()})
		return
	}
	_ = conn.WriteJSON(t)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	prevStatus := t.Status
	prevProgress := t.Progress

	for range ticker.C {
		cur, err := models.GetRenderTaskByID(models.GormDB, taskID)
		if err != nil {
			continue
		}

		if cur.Status != prevStatus || cur.Progress != prevProgress {
			if err := conn.WriteJSON(cur); err != nil {
				break
			}
			prevStatus = cur.Status
			prevProgress = cur.Progress
		}

		if cur.Status == models.TaskStatusFinished || cur.Status == models.TaskStatusFailed {
			_ = conn.WriteJSON(cur)
			break
		}
	}
}
