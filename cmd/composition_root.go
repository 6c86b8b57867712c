package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	httpin "pickingpacking/internal/adapters/in/http"
	"pickingpacking/internal/adapters/in/layout"
	seqstore "pickingpacking/internal/adapters/out/badger"
	"pickingpacking/internal/adapters/out/memory"
	"pickingpacking/internal/adapters/out/postgres"
	"pickingpacking/internal/adapters/out/rabbitmq"
	"pickingpacking/internal/core/application/controller"
	"pickingpacking/internal/core/application/usecases/commands"
	"pickingpacking/internal/core/application/usecases/queries"
	"pickingpacking/internal/core/domain/model/kernel"
	"pickingpacking/internal/core/ports"
	"pickingpacking/internal/jobs"
	"pickingpacking/internal/platform/observability"

	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const instrumentationName = "pickingpacking"

// CompositionRoot wires adapters, use cases and background workers for one
// process. Close releases what NewCompositionRoot opened.
type CompositionRoot struct {
	cfg         Config
	logger      *slog.Logger
	instruments *observability.Instruments

	uowFactory ports.UnitOfWorkFactory
	clock      *kernel.Clock
	publisher  ports.StatusChangePublisher
	controller *controller.Controller

	closers []func() error
}

// OpenDatabase connects to the configured PostgreSQL database.
func OpenDatabase(cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open(gorm_postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return db, nil
}

// NewCompositionRoot opens the store, the stamp sequence and the status
// publisher selected by cfg and builds the controller on top of them.
//
// Store selection:
//   - DB_HOST set: PostgreSQL through gorm, migrated when DB_AUTO_MIGRATE is on
//   - otherwise: the in-memory store
//
// Sequence selection:
//   - BADGER_PATH set: durable badger sequence
//   - otherwise: an in-process counter
//
// Either sequence starts above the highest stamp already stored.
func NewCompositionRoot(ctx context.Context, cfg Config, instruments *observability.Instruments) (*CompositionRoot, error) {
	c := &CompositionRoot{cfg: cfg, instruments: instruments, logger: slog.Default()}
	if instruments != nil && instruments.Logger != nil {
		c.logger = instruments.Logger
	}

	if err := c.openStore(ctx); err != nil {
		return nil, errors.Join(err, c.Close())
	}
	if err := c.openClock(ctx); err != nil {
		return nil, errors.Join(err, c.Close())
	}
	if err := c.openPublisher(); err != nil {
		return nil, errors.Join(err, c.Close())
	}

	feed := c.statusFeed()
	process := commands.NewProcessOrderEventsCommandHandler(c.fullUoWFactory(), c.recorder(), feed)
	c.controller = controller.New(c.uowFactory, process,
		controller.WithPoolSize(cfg.WorkerPoolSize),
		controller.WithLogger(c.logger),
		controller.WithTracer(instruments.Tracer(instrumentationName)),
		controller.WithMeter(instruments.Meter(instrumentationName)),
	)
	return c, nil
}

func (c *CompositionRoot) openStore(ctx context.Context) error {
	if !c.cfg.UsesPostgres() {
		c.logger.Warn("DB_HOST is empty, using the in-memory store")
		c.uowFactory = memory.NewUnitOfWorkFactory(memory.NewStore())
		return nil
	}

	db, err := OpenDatabase(c.cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		c.closers = append(c.closers, sqlDB.Close)
	}
	if c.cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
	}
	c.uowFactory = postgres.NewGormUnitOfWorkFactory(db)
	return nil
}

func (c *CompositionRoot) openClock(ctx context.Context) error {
	uow := c.uowFactory.Create()
	eventSeq, err := uow.EventRepository().MaxSeq(ctx)
	if err != nil {
		return err
	}
	historySeq, err := uow.HistoryRepository().MaxSeq(ctx)
	if err != nil {
		return err
	}
	floor := uint64(max(eventSeq, historySeq, 0))

	if c.cfg.BadgerPath == "" {
		c.clock = kernel.NewClock(kernel.NewAtomicSequence(floor))
		return nil
	}

	source, err := seqstore.Open(c.cfg.BadgerPath, floor)
	if err != nil {
		return err
	}
	c.closers = append(c.closers, source.Close)
	c.clock = kernel.NewClock(source)
	return nil
}

func (c *CompositionRoot) openPublisher() error {
	if c.cfg.AMQPURL == "" {
		c.publisher = memory.NewStatusFeed()
		return nil
	}

	publisher, closeFn, err := rabbitmq.Dial(c.cfg.AMQPURL, c.cfg.AMQPExchange)
	if err != nil {
		return err
	}
	c.closers = append(c.closers, closeFn)
	c.publisher = publisher
	return nil
}

// Close releases the resources in reverse order of acquisition.
func (c *CompositionRoot) Close() error {
	var err error
	for i := len(c.closers) - 1; i >= 0; i-- {
		err = errors.Join(err, c.closers[i]())
	}
	c.closers = nil
	return err
}

func (c *CompositionRoot) Logger() *slog.Logger {
	return c.logger
}

func (c *CompositionRoot) Controller() *controller.Controller {
	return c.controller
}

func (c *CompositionRoot) recorder() commands.HistoryRecorder {
	return commands.NewHistoryRecorder(c.clock, c.logger)
}

func (c *CompositionRoot) statusFeed() commands.StatusFeed {
	return commands.NewStatusFeed(c.publisher, c.logger)
}

func (c *CompositionRoot) fullUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateIngestOrderCommandHandler() commands.IngestOrderCommandHandler {
	var f commands.IngestUoWFactory = FuncIngestUoWFactory(func() commands.IngestUoW {
		return c.uowFactory.Create()
	})
	return commands.NewIngestOrderCommandHandler(f, c.recorder())
}

func (c *CompositionRoot) CreateSubmitEventCommandHandler() commands.SubmitEventCommandHandler {
	var f commands.EventUoWFactory = FuncEventUoWFactory(func() commands.EventUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSubmitEventCommandHandler(f, c.clock, c.controller)
}

func (c *CompositionRoot) CreateAssignSessionCommandHandler() commands.AssignSessionCommandHandler {
	return commands.NewAssignSessionCommandHandler(c.fullUoWFactory(), c.recorder(), c.statusFeed())
}

func (c *CompositionRoot) CreateReportStepCommandHandler() commands.ReportStepCommandHandler {
	return commands.NewReportStepCommandHandler(c.fullUoWFactory(), c.recorder(), c.statusFeed(), c.controller)
}

func (c *CompositionRoot) CreateChangeSessionCommandHandler() commands.ChangeSessionCommandHandler {
	return commands.NewChangeSessionCommandHandler(c.fullUoWFactory(), c.recorder(), c.statusFeed(), c.controller)
}

func (c *CompositionRoot) CreateGetOrderStatusQueryHandler() queries.GetOrderStatusQueryHandler {
	return queries.NewGetOrderStatusQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateGetHistoryQueryHandler() queries.GetHistoryQueryHandler {
	return queries.NewGetHistoryQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateGetConnectorStatusQueryHandler() queries.GetConnectorStatusQueryHandler {
	return queries.NewGetConnectorStatusQueryHandler(c.uowFactory)
}

// CreateHTTPServer builds the API server over every use case.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		IngestOrder:        c.CreateIngestOrderCommandHandler(),
		SubmitEvent:        c.CreateSubmitEventCommandHandler(),
		AssignSession:      c.CreateAssignSessionCommandHandler(),
		ReportStep:         c.CreateReportStepCommandHandler(),
		ChangeSession:      c.CreateChangeSessionCommandHandler(),
		GetOrderStatus:     c.CreateGetOrderStatusQueryHandler(),
		GetHistory:         c.CreateGetHistoryQueryHandler(),
		GetConnectorStatus: c.CreateGetConnectorStatusQueryHandler(),
	}, c.logger)
}

func (c *CompositionRoot) CreateLayoutSeeder() layout.Seeder {
	return layout.NewSeeder(c.uowFactory, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.logger,
		jobs.NewControllerPassJob(c.controller, c.cfg.Schedule, c.logger),
	)
}

type FuncIngestUoWFactory func() commands.IngestUoW

func (f FuncIngestUoWFactory) Create() commands.IngestUoW {
	return f()
}

type FuncEventUoWFactory func() commands.EventUoW

func (f FuncEventUoWFactory) Create() commands.EventUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
