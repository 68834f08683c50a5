package bootstrap

import (
	"context"
	"log"

	"school-mgmt-be/internal/config"
	"school-mgmt-be/internal/controller"
	"school-mgmt-be/internal/pkg/logger"
	"school-mgmt-be/internal/pkg/mailer"
	"school-mgmt-be/internal/repository/memory"
	"school-mgmt-be/internal/repository/unitofwork"
	"school-mgmt-be/internal/service"
	pkgNats "school-mgmt-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	PlanController         controller.IPlanController
	TenantController       controller.ITenantController
	SubscriptionController controller.ISubscriptionController
	InvoiceController      controller.IInvoiceController
	ActivityController     controller.IActivityController
	WebhookController      controller.IWebhookController

	// Services exposed for entrypoints
	RenewalService      service.IRenewalService
	MailConsumerService service.IMailConsumerService

	Logger logger.ILogger
	Redis  *redis.Client

	natsPublisher *pkgNats.Publisher
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.AppEnv)

	emailService := mailer.NewEmailService(
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUser,
		cfg.SMTPPassword,
		cfg.MailFrom,
	)

	// In-process queue for outbound mail
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)

	// NATS for cross-service lifecycle events
	natsPub, err := pkgNats.NewPublisher(cfg.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis, used by the sweep lock
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	planCache := memory.NewPlanCache()

	// NATS publisher is optional; a nil interface keeps services from
	// publishing into a dead connection.
	var eventPublisher service.EventPublisher
	if natsPub != nil {
		eventPublisher = natsPub
	}

	// Services
	mailDispatchService := service.NewMailDispatchService(pubSub)
	mailConsumerService := service.NewMailConsumerService(pubSub, uowFactory, emailService, sysLogger)
	invoiceService := service.NewInvoiceService(uowFactory, mailDispatchService, sysLogger, cfg.TaxRatePercent)
	subscriptionService := service.NewSubscriptionService(uowFactory, invoiceService, eventPublisher, sysLogger)
	paymentService := service.NewPaymentService(uowFactory, sysLogger, cfg.MidtransServerKey, cfg.TaxRatePercent, cfg.MidtransEnabled, cfg.MidtransProduction)
	renewalService := service.NewRenewalService(uowFactory, subscriptionService, paymentService, eventPublisher, sysLogger, cfg.WarnWindow, cfg.RenewWindow)
	planService := service.NewPlanService(uowFactory, planCache, sysLogger)
	tenantService := service.NewTenantService(uowFactory, sysLogger)
	activityService := service.NewActivityService(uowFactory)

	return &Container{
		PlanController:         controller.NewPlanController(planService, cfg.JWTSecret),
		TenantController:       controller.NewTenantController(tenantService, cfg.JWTSecret),
		SubscriptionController: controller.NewSubscriptionController(subscriptionService, cfg.JWTSecret),
		InvoiceController:      controller.NewInvoiceController(invoiceService, cfg.JWTSecret),
		ActivityController:     controller.NewActivityController(activityService, cfg.JWTSecret),
		WebhookController:      controller.NewWebhookController(paymentService),

		RenewalService:      renewalService,
		MailConsumerService: mailConsumerService,

		Logger: sysLogger,
		Redis:  rdb,

		natsPublisher: natsPub,
	}
}

// Close releases external connections.
func (c *Container) Close() {
	if c.natsPublisher != nil {
		c.natsPublisher.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
