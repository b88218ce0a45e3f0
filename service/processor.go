package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"ReelsWizard-server/config"
	"ReelsWizard-server/models"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

// CancelWorkerJob asks the render worker to drop a running job.
func CancelWorkerJob(workerJobID string) error {
	if workerJobID == "" {
		return fmt.Errorf("empty worker job id")
	}
	url := config.AppConfig.Worker.RenderAddr + "/v1/jobs/" + workerJobID
	req, err := http.NewRequest(http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("create delete request failed: %w", err)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("worker delete request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var respData map[string]interface{}
		_ = json.NewDecoder(resp.Body).Decode(&respData)
		return fmt.Errorf("worker delete status: %d, body: %+v", resp.StatusCode, respData)
	}
	return nil
}

// Poll cancellation registry, taskID -> cancelFunc. The cancel API reaches
// into a running HandleRenderTask through here.
var pollCancelRegistry = struct {
	sync.RWMutex
	m map[string]context.CancelFunc
}{
	m: make(map[string]context.CancelFunc),
}

func RegisterPollCancel(taskID string, cancel context.CancelFunc) {
	pollCancelRegistry.Lock()
	defer pollCancelRegistry.Unlock()
	pollCancelRegistry.m[taskID] = cancel
}

func UnregisterPollCancel(taskID string) {
	pollCancelRegistry.Lock()
	defer pollCancelRegistry.Unlock()
	delete(pollCancelRegistry.m, taskID)
}

// CancelPollTask cancels an in-flight poll loop. Returns whether the task
// was actually being polled.
func CancelPollTask(taskID string) bool {
	pollCancelRegistry.Lock()
	defer pollCancelRegistry.Unlock()
	if cancel, ok := pollCancelRegistry.m[taskID]; ok {
		cancel()
		delete(pollCancelRegistry.m, taskID)
		return true
	}
	return false
}

// taskSettled reports whether a render task already reached a terminal
// status, such as a cancellation that landed before the queue delivered it.
func taskSettled(status string) bool {
	return status == models.TaskStatusFinished || status == models.TaskStatusFailed
}

// Processor consumes queued render tasks.
type Processor struct {
	DB             *gorm.DB
	WorkerEndpoint string
}

func NewProcessor(db *gorm.DB) *Processor {
	return &Processor{
		DB:             db,
		WorkerEndpoint: config.AppConfig.Worker.RenderAddr,
	}
}

func (p *Processor) StartProcessor(concurrency int) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     config.AppConfig.Redis.Addr,
			Password: config.AppConfig.Redis.Password,
		},
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeRenderVideo, p.HandleRenderTask)

	log.Printf("Starting render processor with concurrency %d...", concurrency)
	go func() {
		if err := srv.Run(mux); err != nil {
			log.Fatalf("could not run asynq server: %v", err)
		}
	}()
}

// HandleRenderTask runs one stored render task end to end: build the
// multipart submission from the session snapshot and object storage, hand it
// to the render worker, poll until done, then store the finished video.
func (p *Processor) HandleRenderTask(ctx context.Context, t *asynq.Task) error {
	var payload RenderTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}

	task, err := models.GetRenderTaskByID(p.DB, payload.TaskID)
	if err != nil {
		return fmt.Errorf("render task not found: %v", err)
	}
	if taskSettled(task.Status) {
		// canceled or completed while still queued, nothing left to do
		log.Printf("render task %s already %s, skipping", task.ID, task.Status)
		return nil
	}

	log.Printf("Processing render task: %s | job: %s", task.ID, task.JobId)
	if err := task.UpdateStatus(p.DB, models.TaskStatusProcessing, nil, ""); err != nil {
		log.Printf("UpdateStatus processing failed: %v", err)
	}

	job, err := models.GetJobByID(p.DB, task.JobId)
	if err != nil {
		task.UpdateStatus(p.DB, models.TaskStatusFailed, nil, fmt.Sprintf("job not found: %v", err))
		return fmt.Errorf("job not found: %v: %w", err, asynq.SkipRetry)
	}

	sess, ok := LookupSession(task.JobId)
	if !ok {
		task.UpdateStatus(p.DB, models.TaskStatusFailed, nil, "job record is gone")
		return fmt.Errorf("job %s gone: %w", task.JobId, asynq.SkipRetry)
	}

	workerJobID, err := p.dispatchRender(ctx, sess.Snapshot(), task)
	if err != nil {
		log.Printf("render dispatch failed: %v", err)
		task.UpdateStatus(p.DB, models.TaskStatusFailed, nil, fmt.Sprintf("worker request failed: %v", err))
		job.UpdateStatus(p.DB, models.JobStatusFailed, "", err.Error())
		return err // retryable
	}
	if err := task.UpdateStatus(p.DB, models.TaskStatusProcessing, &models.RenderResult{WorkerJobID: workerJobID}, ""); err != nil {
		log.Printf("store worker job id failed: %v", err)
	}
	job.UpdateStatus(p.DB, models.JobStatusRendering, "", "")

	log.Printf("render submitted, worker job %s, polling...", workerJobID)
	pollCtx, cancel := context.WithCancel(ctx)
	RegisterPollCancel(task.ID, cancel)
	defer UnregisterPollCancel(task.ID)

	videoURL, err := p.pollRenderResult(pollCtx, task.ID, workerJobID)
	if err != nil {
		log.Printf("render poll failed: %v", err)
		task.UpdateStatus(p.DB, models.TaskStatusFailed, &models.RenderResult{WorkerJobID: workerJobID}, fmt.Sprintf("render failed: %v", err))
		job.UpdateStatus(p.DB, models.JobStatusFailed, "", err.Error())
		return nil // worker-side failure, no retry
	}

	objectName := JobOutputObject(task.JobId, "output.mp4")
	finalURL, err := downloadAndStore(ctx, videoURL, objectName)
	if err != nil {
		log.Printf("store rendered video failed: %v", err)
		task.UpdateStatus(p.DB, models.TaskStatusFailed, &models.RenderResult{WorkerJobID: workerJobID}, err.Error())
		job.UpdateStatus(p.DB, models.JobStatusFailed, "", err.Error())
		return nil
	}

	task.UpdateStatus(p.DB, models.TaskStatusFinished, &models.RenderResult{
		WorkerJobID: workerJobID,
		VideoURL:    finalURL,
	}, "")
	job.UpdateStatus(p.DB, models.JobStatusCompleted, finalURL, "")
	log.Printf("render task %s completed", task.ID)
	return nil
}

// dispatchRender posts the multipart render form and returns the worker's
// job id.
func (p *Processor) dispatchRender(ctx context.Context, snap SessionSnapshot, task *models.RenderTask) (string, error) {
	fields, err := RenderFormFields(snap, task.Parameters)
	if err != nil {
		return "", err
	}

	files := make([]SlotFile, 0, len(snap.Media))
	var closers []io.Closer
	defer func() {
		for _, c := range closers {
			c.Close()
		}
	}()
	for _, item := range snap.Media {
		rc, _, err := FetchFromMinIO(ctx, item.ObjectName)
		if err != nil {
			return "", fmt.Errorf("open slot %d media: %w", item.SlotIndex, err)
		}
		closers = append(closers, rc)
		files = append(files, SlotFile{SlotIndex: item.SlotIndex, Ext: item.Ext(), Content: rc})
	}

	var body bytes.Buffer
	contentType, err := BuildRenderForm(&body, fields, files)
	if err != nil {
		return "", err
	}

	fullURL := p.WorkerEndpoint + "/v1/render"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	log.Printf("POST %s (%d media parts)", fullURL, len(files))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusAccepted {
		return "", fmt.Errorf("worker status code: %d", resp.StatusCode)
	}

	var respData map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&respData); err != nil {
		return "", fmt.Errorf("decode response failed: %v", err)
	}
	if id, ok := respData["id"].(string); ok {
		return id, nil
	}
	if jobID, ok := respData["job_id"].(string); ok {
		return jobID, nil
	}
	return "", fmt.Errorf("response missing 'id'")
}

// pollRenderResult polls GET /v1/jobs/{id} until the worker finishes,
// mirroring progress into the task row, and returns the worker's video URL.
func (p *Processor) pollRenderResult(ctx context.Context, taskID, workerJobID string) (string, error) {
	jobURL := fmt.Sprintf("%s/v1/jobs/%s", p.WorkerEndpoint, workerJobID)

	timeout := time.After(30 * time.Minute)
	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()

	httpClient := &http.Client{}

	for {
		select {
		case <-timeout:
			return "", fmt.Errorf("polling timeout")
		case <-ctx.Done():
			return "", fmt.Errorf("polling canceled: %v", ctx.Err())
		case <-ticker.C:
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, jobURL, nil)
			if err != nil {
				log.Printf("create poll request failed: %v", err)
				continue
			}

			resp, err := httpClient.Do(req)
			if err != nil {
				log.Printf("poll network error (retrying): %v", err)
				continue
			}

			var raw struct {
				Status   string `json:"status"`
				Progress int    `json:"progress"`
				Message  string `json:"message"`
				VideoURL string `json:"video_url"`
				Error    string `json:"error"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
				resp.Body.Close()
				log.Printf("decode poll response failed: %v", err)
				continue
			}
			resp.Body.Close()

			if err := models.UpdateRenderTaskProgress(taskID, &raw.Progress, &raw.Message); err != nil {
				log.Printf("update task progress failed: %v", err)
			}

			switch raw.Status {
			case "success", "succeeded", "completed", "finished":
				if raw.VideoURL == "" {
					return "", fmt.Errorf("worker finished without a video url")
				}
				return raw.VideoURL, nil
			case "failed", "error":
				return "", fmt.Errorf("worker reported failure: %s", raw.Error)
			}
			// still running
		}
	}
}

// downloadAndStore pulls the worker's artifact and re-homes it in the bucket.
func downloadAndStore(ctx context.Context, sourceURL, objectName string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download status: %d", resp.StatusCode)
	}
	return UploadToMinIO(ctx, resp.Body, objectName, resp.ContentLength)
}
