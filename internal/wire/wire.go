package wire

import (
	"BuilderCentral/internal/api"
	"BuilderCentral/internal/api/config"
	"BuilderCentral/internal/api/handler"
	"BuilderCentral/internal/job"
	"BuilderCentral/internal/pkg/cron"
	"BuilderCentral/internal/pkg/es"
	"BuilderCentral/internal/pkg/kafka"
	"BuilderCentral/internal/pkg/minio"
	"BuilderCentral/internal/pkg/preview"
	"BuilderCentral/internal/pkg/redis"
	"BuilderCentral/internal/pkg/security"
	"BuilderCentral/internal/repository"
	"BuilderCentral/internal/service"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// Infrastructure main 中初始化好的外部连接
type Infrastructure struct {
	Mongo    *mongo.Database
	Redis    *redis.Store
	Elastic  *elasticsearch.TypedClient
	Storage  *minio.Storage
	Producer *kafka.ActivityProducer
}

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

func BuildApplication(infra *Infrastructure, cfg *config.Config) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(infra.Mongo)
	toolRepo := repository.NewToolRepo(infra.Mongo)
	activityRepo := repository.NewActivityRepo(infra.Mongo)
	toolSearch := es.NewToolRepo(infra.Elastic, cfg.Elastic.Indices.ToolIndex)

	jwtManager := security.NewJWTManager(cfg.JWT)
	fetcher := preview.NewFetcher(cfg.Preview)

	tracker := service.NewActivityTracker(userRepo, toolRepo, activityRepo, infra.Producer, infra.Redis)
	userService := service.NewUserService(userRepo, toolRepo, toolSearch, infra.Redis, jwtManager)
	toolService := service.NewToolService(toolRepo, userRepo, toolSearch, infra.Redis, tracker)
	toolActionService := service.NewToolActionService(toolService, toolRepo, tracker, infra.Redis, fetcher)
	dashboardService := service.NewDashboardService(userRepo, toolRepo, activityRepo, infra.Redis,
		time.Duration(cfg.Dashboard.CacheTTLSeconds)*time.Second)
	mediaService := service.NewMediaService(infra.Storage)

	handlers := &api.HandlersGroup{
		UserHandler:       handler.NewUserHandler(userService),
		ToolHandler:       handler.NewToolHandler(toolService, toolActionService),
		ToolActionHandler: handler.NewToolActionHandler(toolActionService),
		DashboardHandler:  handler.NewDashboardHandler(dashboardService),
		MediaHandler:      handler.NewMediaHandler(mediaService),
	}

	router := api.SetupRouter(handlers, api.RouterDeps{
		JWT:       jwtManager,
		Blacklist: infra.Redis,
		Logstash:  cfg.Logstash,
	})

	kafkaMgr, err := kafka.NewConsumerManager(cfg, kafka.NewActivityHandler(infra.Redis, toolRepo))
	if err != nil {
		return nil, err
	}

	cronMgr := cron.NewCronManager(job.NewToolIndexJob(infra.Redis, toolRepo, toolSearch))

	return &ApplicationContainer{
		Router:       router,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
	}, nil
}
