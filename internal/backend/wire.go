package backend

import (
	"database/sql"

	"github.com/alexanderramin/gantt/internal/db"
	"github.com/alexanderramin/gantt/internal/repository"
	"github.com/alexanderramin/gantt/internal/service"
	"github.com/rs/zerolog"
)

// Bundle is every service built over one database.
type Bundle struct {
	Users         service.UserService
	Activities    service.ActivityService
	Topics        service.TopicService
	SubTasks      service.SubTaskService
	Gantt         service.GanttService
	Notifications service.NotificationService
	Imports       service.ImportService
}

type bundleConfig struct {
	observers []service.UseCaseObserver
	txLog     zerolog.Logger
}

// BundleOption configures NewBundle.
type BundleOption func(*bundleConfig)

// WithObservers receives an event for every service use case.
func WithObservers(observers ...service.UseCaseObserver) BundleOption {
	return func(c *bundleConfig) { c.observers = append(c.observers, observers...) }
}

// WithTxLogger logs transaction rollbacks of multi-row writes.
func WithTxLogger(log zerolog.Logger) BundleOption {
	return func(c *bundleConfig) { c.txLog = log }
}

// NewBundle wires repositories and services over database.
func NewBundle(database *sql.DB, opts ...BundleOption) *Bundle {
	cfg := bundleConfig{txLog: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	observers := cfg.observers

	users := repository.NewSQLiteUserRepo(database)
	activities := repository.NewSQLiteActivityRepo(database)
	topics := repository.NewSQLiteTopicRepo(database)
	subtasks := repository.NewSQLiteSubTaskRepo(database)
	notifications := repository.NewSQLiteNotificationRepo(database)
	uow := db.NewSQLiteUnitOfWork(database, db.WithTxLogger(cfg.txLog))

	return &Bundle{
		Users:         service.NewUserService(users),
		Activities:    service.NewActivityService(activities, users, observers...),
		Topics:        service.NewTopicService(topics, activities),
		SubTasks:      service.NewSubTaskService(subtasks, uow, observers...),
		Gantt:         service.NewGanttService(activities, topics, subtasks, users),
		Notifications: service.NewNotificationService(notifications),
		Imports:       service.NewImportService(uow, observers...),
	}
}

// Services returns the subset Local delegates to.
func (b *Bundle) Services() Services {
	return Services{
		Activities: b.Activities,
		Topics:     b.Topics,
		SubTasks:   b.SubTasks,
		Gantt:      b.Gantt,
	}
}
