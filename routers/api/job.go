package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"ReelsWizard-server/config"
	"ReelsWizard-server/models"
	"ReelsWizard-server/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// sessionOr404 resolves the wizard session for a job id path param.
func sessionOr404(c *gin.Context) (*service.Session, bool) {
	return sessionByID(c, c.Param("job_id"))
}

func sessionByID(c *gin.Context, jobID string) (*service.Session, bool) {
	sess, ok := service.LookupSession(jobID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found: " + jobID})
		return nil, false
	}
	return sess, true
}

// CreateJobFolder starts a wizard session and its backing job row.
// POST /api/create-job-folder
func CreateJobFolder(c *gin.Context) {
	var req struct {
		UserEmail string `json:"user_email"`
		Title     string `json:"title"`
	}
	// body is optional on first open
	_ = c.ShouldBindJSON(&req)

	jobID := uuid.NewString()
	job := &models.Job{
		ID:        jobID,
		UserEmail: req.UserEmail,
		Title:     req.Title,
		Status:    models.JobStatusCreated,
	}
	if err := models.CreateJob(models.GormDB, job); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create job failed: " + err.Error()})
		return
	}
	service.Sessions.Create(jobID)

	log.Printf("[Job] created: %s", jobID)
	c.JSON(http.StatusOK, gin.H{"job_id": jobID})
}

// CleanupJobFolder tears a wizard session down: session state, media
// objects, and the DB rows.
// POST /api/cleanup-job-folder
func CleanupJobFolder(c *gin.Context) {
	var req struct {
		JobID string `json:"job_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()
	if err := service.RemoveJobObjects(ctx, req.JobID); err != nil {
		log.Printf("[Job] cleanup objects failed for %s: %v", req.JobID, err)
	}
	if err := models.DeleteMediaAssetsByJobID(models.GormDB, req.JobID); err != nil {
		log.Printf("[Job] cleanup media rows failed for %s: %v", req.JobID, err)
	}
	if err := models.DeleteJobByID(models.GormDB, req.JobID); err != nil {
		log.Printf("[Job] cleanup job row failed for %s: %v", req.JobID, err)
	}
	service.Sessions.Delete(req.JobID)

	c.JSON(http.StatusOK, gin.H{"job_id": req.JobID, "cleaned": true})
}

// GetOAuthConfig hands the frontend its Google sign-in client id.
// GET /api/oauth-config
func GetOAuthConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"google_client_id": config.AppConfig.OAuthClientID})
}

// GetJobStatus reports the job row plus its latest render task, if any.
// GET /api/job-status/:job_id
func GetJobStatus(c *gin.Context) {
	jobID := c.Param("job_id")
	job, err := models.GetJobByID(models.GormDB, jobID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found: " + err.Error()})
		return
	}
	resp := gin.H{"job": job}
	if task, err := models.GetLatestRenderTaskByJobID(models.GormDB, jobID); err == nil {
		resp["task"] = task
	}
	c.JSON(http.StatusOK, resp)
}
