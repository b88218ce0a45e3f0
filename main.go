package main

import (
	"fmt"

	"ReelsWizard-server/config"
	"ReelsWizard-server/engine"
	"ReelsWizard-server/models"
	"ReelsWizard-server/routers"
	"ReelsWizard-server/service"
)

func main() {
	config.InitConfig()
	fmt.Println("Server starting on port", config.AppConfig.Server.Port)
	models.InitDB()
	fmt.Println("Database initialized")

	service.InitQueue()
	fmt.Println("Queue initialized")

	service.InitMinIO()
	fmt.Println("MinIO initialized")

	service.InitSessions(engine.Limits{
		PerSlotBytes: int64(config.AppConfig.Upload.PerSlotLimitMB) << 20,
		SingleBytes:  int64(config.AppConfig.Upload.SingleLimitMB) << 20,
	})

	processor := service.NewProcessor(models.GormDB)
	processor.StartProcessor(3)

	r := routers.InitRouter()
	r.Run(config.AppConfig.Server.Port)
}
