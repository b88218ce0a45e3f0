package routers

import (
	"ReelsWizard-server/routers/api"

	"github.com/gin-gonic/gin"
)

func InitRouter() *gin.Engine {
	r := gin.Default()
	r.Static("/static", "./static")
	v1 := r.Group("/api")
	{
		v1.POST("/create-job-folder", api.CreateJobFolder)
		v1.POST("/cleanup-job-folder", api.CleanupJobFolder)
		v1.GET("/job-status/:job_id", api.GetJobStatus)
		v1.GET("/oauth-config", api.GetOAuthConfig)

		v1.PUT("/jobs/:job_id/content", api.UpdateContent)
		v1.POST("/jobs/:job_id/mode", api.SetAllocationMode)
		v1.GET("/jobs/:job_id/pairs", api.GetPairs)
		v1.POST("/jobs/:job_id/prompt", api.SetCustomPrompt)
		v1.POST("/jobs/:job_id/panning", api.SetPanning)
		v1.POST("/jobs/:job_id/edited-texts", api.SetEditedTexts)

		v1.POST("/jobs/:job_id/media/:slot", api.UploadMedia)
		v1.DELETE("/jobs/:job_id/media/:slot", api.DeleteMedia)
		v1.GET("/jobs/:job_id/media", api.ListMedia)

		v1.POST("/generate-images", api.GenerateImages)
		v1.POST("/generate-single-image", api.GenerateSingleImage)
		v1.GET("/jobs/:job_id/slot-status", api.GetSlotStatus)

		v1.GET("/bookmark-videos", api.ListBookmarkVideos)
		v1.GET("/bookmark-images", api.ListBookmarkImages)
		v1.POST("/copy-bookmark-video", api.CopyBookmarkVideo)
		v1.POST("/copy-bookmark-image", api.CopyBookmarkImage)

		v1.GET("/bgm-list", api.ListBGM)
		v1.GET("/bgm/:mood", api.ListBGMByMood)

		v1.POST("/generate-video", api.GenerateVideo)
		v1.POST("/generate-video-async", api.GenerateVideoAsync)
		v1.GET("/tasks/:task_id", api.GetTaskStatus)
		v1.DELETE("/tasks/:task_id", api.CancelTask)
	}
	r.GET("/tasks/:task_id/wss", api.TaskProgressWebSocket)
	return r
}
