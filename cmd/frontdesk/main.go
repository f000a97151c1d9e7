package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"frontdesk/internal/app/commands"
	auditapp "frontdesk/internal/app/handlers/audit"
	bookingapp "frontdesk/internal/app/handlers/booking"
	pricingapp "frontdesk/internal/app/handlers/pricing"
	"frontdesk/internal/app/middleware"
	appoutbox "frontdesk/internal/app/outbox"
	"frontdesk/internal/app/queries"
	"frontdesk/internal/app/uow"
	domainhotel "frontdesk/internal/domain/hotel"
	domainpricing "frontdesk/internal/domain/pricing"
	domainroom "frontdesk/internal/domain/room"
	domainshift "frontdesk/internal/domain/shift"
	domainrange "frontdesk/internal/domain/shared/daterange"
	kafkabroker "frontdesk/internal/infra/broker/kafka"
	"frontdesk/internal/infra/config"
	mongostore "frontdesk/internal/infra/db/mongo"
	ginserver "frontdesk/internal/infra/http/gin"
	"frontdesk/internal/infra/obs"
	infraoutbox "frontdesk/internal/infra/outbox"
	"frontdesk/internal/infra/progress"
	"frontdesk/internal/infra/storage/memory"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	metrics := obs.NewMetrics("frontdesk")

	app, err := buildApplication(ctx, cfg, logger, metrics)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}
	defer app.close(logger)

	if cfg.StoreMode == "memory" {
		fixturesPath := getenv("HOTEL_FIXTURES", defaultHotelFixturesPath())
		if err := app.loadHotelFixtures(ctx, fixturesPath, logger); err != nil {
			logger.Warn("hotel fixtures load failed", "error", err, "path", fixturesPath)
		}
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Checks: app.checks,
	}, app.handlers)

	for _, worker := range app.workers {
		run := worker
		go func() {
			if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("background worker failed", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "store", cfg.StoreMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	checks   []obs.ReadyCheck
	workers  []func(context.Context) error
	closers  []func() error

	seed *seedRepos
}

// seedRepos keeps direct handles on the memory stores so fixtures can be
// loaded after wiring.
type seedRepos struct {
	rates     *memory.RateRepository
	roomTypes *memory.RoomTypeRepository
	campaigns *memory.CampaignRepository
	hotels    *memory.HotelRepository
	rooms     *memory.RoomRepository
	shifts    *memory.ShiftRepository
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger, metrics *obs.Metrics) (*application, error) {
	app := &application{}

	var (
		factory uow.UoWFactory
		box     appoutbox.Outbox
		idStore middleware.IdempotencyStore
	)

	switch cfg.StoreMode {
	case "mongo":
		client, err := mongostore.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("mongo connect: %w", err)
		}
		app.closers = append(app.closers, client.Close)
		auditRepo := mongostore.NewAuditRepository(client.DB)
		if err := auditRepo.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		factory = mongostore.Factory{
			DB:            client.DB,
			RatesRepo:     mongostore.NewRateRepository(client.DB),
			RoomTypesRepo: mongostore.NewRoomTypeRepository(client.DB),
			CampaignsRepo: mongostore.NewCampaignRepository(client.DB),
			BookingsRepo:  mongostore.NewBookingRepository(client.DB),
			ShiftsRepo:    mongostore.NewShiftRepository(client.DB),
			AuditsRepo:    auditRepo,
			RoomsRepo:     mongostore.NewRoomRepository(client.DB),
			HotelsRepo:    mongostore.NewHotelRepository(client.DB),
		}
		app.checks = append(app.checks, obs.ReadyCheck{Name: "mongo", Probe: client.Ping})

		store := infraoutbox.NewStore(client.DB)
		box = infraoutbox.NewDurableOutbox(store)
		idStore = memory.NewIdempotencyStore()

		if len(cfg.KafkaBrokers) > 0 {
			producer, err := kafkabroker.NewProducer(cfg.KafkaBrokers, nil)
			if err != nil {
				return nil, fmt.Errorf("kafka producer: %w", err)
			}
			app.closers = append(app.closers, producer.Close)
			worker := &infraoutbox.Worker{
				Store:       store,
				Producer:    producer,
				Interval:    cfg.OutboxPollInterval,
				TopicPrefix: cfg.KafkaTopicPrefix,
				Backoff:     cfg.RetryBackoff,
			}
			app.workers = append(app.workers, worker.Run)
		} else {
			logger.Warn("no kafka brokers configured, outbox events stay queued")
		}

	case "memory":
		seed := &seedRepos{
			rates:     memory.NewRateRepository(),
			roomTypes: memory.NewRoomTypeRepository(),
			campaigns: memory.NewCampaignRepository(),
			hotels:    memory.NewHotelRepository(),
			rooms:     memory.NewRoomRepository(),
			shifts:    memory.NewShiftRepository(),
		}
		app.seed = seed
		factory = memory.Factory{
			RatesRepo:     seed.rates,
			RoomTypesRepo: seed.roomTypes,
			CampaignsRepo: seed.campaigns,
			BookingsRepo:  memory.NewBookingRepository(),
			ShiftsRepo:    seed.shifts,
			AuditsRepo:    memory.NewAuditRepository(),
			RoomsRepo:     seed.rooms,
			HotelsRepo:    seed.hotels,
		}
		box = memory.NewOutbox()
		idStore = memory.NewIdempotencyStore()
		if len(cfg.KafkaBrokers) > 0 {
			logger.Warn("kafka brokers ignored with STORE_MODE=memory")
		}

	default:
		return nil, fmt.Errorf("unsupported store mode %q", cfg.StoreMode)
	}

	var tracker progress.Tracker
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Warn("redis unreachable, falling back to in-process progress", "error", err)
			tracker = progress.NewMemoryTracker(cfg.ProgressTTL)
		} else {
			app.closers = append(app.closers, client.Close)
			app.checks = append(app.checks, obs.ReadyCheck{Name: "redis", Probe: func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			}})
			tracker = progress.NewRedisTracker(client, cfg.ProgressTTL)
		}
	} else {
		tracker = progress.NewMemoryTracker(cfg.ProgressTTL)
	}

	encoder := appoutbox.JSONEventEncoder{}
	steps := auditapp.Steps{
		UoWFactory: factory,
		Outbox:     box,
		Encoder:    encoder,
		Progress:   tracker,
	}

	commandBus := commands.NewRegistry()
	commands.Register(commandBus, auditapp.StartAuditCommand{}.Key(), &auditapp.StartAuditHandler{Steps: steps})
	commands.Register(commandBus, auditapp.ProcessNoShowsCommand{}.Key(), &auditapp.ProcessNoShowsHandler{Steps: steps})
	commands.Register(commandBus, auditapp.RolloverRoomsCommand{}.Key(), &auditapp.RolloverRoomsHandler{Steps: steps})
	commands.Register(commandBus, auditapp.CloseShiftsCommand{}.Key(), &auditapp.CloseShiftsHandler{Steps: steps})
	commands.Register(commandBus, auditapp.RolloverDateCommand{}.Key(), &auditapp.RolloverDateHandler{Steps: steps})
	commands.Register(commandBus, auditapp.FinalizeAuditCommand{}.Key(), &auditapp.FinalizeAuditHandler{Steps: steps})
	commands.Register(commandBus, bookingapp.RequestBookingCommand{}.Key(), &bookingapp.RequestBookingHandler{
		UoWFactory: factory,
		Outbox:     box,
		Encoder:    encoder,
	})

	queryBus := queries.NewRegistry()
	queries.Register(queryBus, pricingapp.QuoteStayQuery{}.Key(), &pricingapp.QuoteStayHandler{UoWFactory: factory})
	queries.Register(queryBus, auditapp.GetCurrentAuditQuery{}.Key(), &auditapp.GetCurrentAuditHandler{Steps: steps})
	queries.Register(queryBus, auditapp.GetNoShowsQuery{}.Key(), &auditapp.GetNoShowsHandler{Steps: steps})
	queries.Register(queryBus, auditapp.GetCashierDataQuery{}.Key(), &auditapp.GetCashierDataHandler{Steps: steps})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(idStore, nil),
		middleware.Metrics(metrics),
		middleware.Transaction(factory, nil),
		middleware.OutboxFlush(box),
	)
	queryBusWithMiddleware := middleware.ChainQueries(
		queryBus,
		middleware.QueryMetrics(metrics),
	)

	app.handlers = ginserver.Handlers{
		Pricing: ginserver.PricingHandler{Queries: queryBusWithMiddleware},
		Booking: ginserver.BookingHandler{Commands: commandBusWithMiddleware},
		Audit: ginserver.AuditHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
			Progress: tracker,
		},
		MetricsMiddleware: metrics.HTTPMiddleware(),
		MetricsEndpoint:   obs.MetricsHandler(),
	}
	return app, nil
}

func (a *application) close(logger *slog.Logger) {
	for _, closer := range a.closers {
		if err := closer(); err != nil {
			logger.Warn("close failed", "error", err)
		}
	}
}

func (a *application) loadHotelFixtures(ctx context.Context, path string, logger *slog.Logger) error {
	if a.seed == nil {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("hotel fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	var fixtures []hotelFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	now := time.Now().UTC()
	for _, fx := range fixtures {
		businessDate, err := time.Parse("2006-01-02", fx.BusinessDate)
		if err != nil {
			logger.Error("fixture invalid business date", "hotel_id", fx.ID, "error", err)
			continue
		}
		if err := a.seed.hotels.Save(ctx, &domainhotel.Hotel{
			ID:           fx.ID,
			Name:         fx.Name,
			BusinessDate: businessDate,
			UpdatedAt:    now,
		}); err != nil {
			logger.Error("cannot store fixture hotel", "hotel_id", fx.ID, "error", err)
			continue
		}
		for _, rt := range fx.RoomTypes {
			a.seed.roomTypes.Put(&domainpricing.RoomType{
				ID:           rt.ID,
				HotelID:      fx.ID,
				Name:         rt.Name,
				MinAdults:    rt.MinAdults,
				MaxOccupancy: rt.MaxOccupancy,
			})
		}
		for _, rf := range fx.Rates {
			rate, err := rf.toRate(fx.ID)
			if err != nil {
				logger.Error("fixture rate invalid", "hotel_id", fx.ID, "error", err)
				continue
			}
			a.seed.rates.Put(rate)
		}
		for _, cf := range fx.Campaigns {
			campaign, err := cf.toCampaign()
			if err != nil {
				logger.Error("fixture campaign invalid", "hotel_id", fx.ID, "campaign_id", cf.ID, "error", err)
				continue
			}
			a.seed.campaigns.Put(fx.ID, campaign)
		}
		for _, rm := range fx.Rooms {
			room := &domainroom.Room{
				ID:           fx.ID + ":" + rm.Number,
				HotelID:      fx.ID,
				Number:       rm.Number,
				RoomTypeID:   rm.RoomTypeID,
				Status:       domainroom.Status(rm.Status),
				Housekeeping: domainroom.HousekeepingClean,
				UpdatedAt:    now,
			}
			if rm.DueOut != "" {
				dueOut, err := time.Parse("2006-01-02", rm.DueOut)
				if err == nil {
					room.DueOut = dueOut
				}
			}
			if err := a.seed.rooms.Save(ctx, room); err != nil {
				logger.Error("cannot store fixture room", "hotel_id", fx.ID, "number", rm.Number, "error", err)
			}
		}
		for _, sf := range fx.Shifts {
			shift := domainshift.Open(sf.ID, fx.ID, sf.CashierID, sf.OpeningCash, now)
			if err := a.seed.shifts.Save(ctx, shift); err != nil {
				logger.Error("cannot store fixture shift", "hotel_id", fx.ID, "shift_id", sf.ID, "error", err)
			}
		}
		logger.Info("hotel fixture imported", "hotel_id", fx.ID, "rates", len(fx.Rates), "rooms", len(fx.Rooms))
	}
	return nil
}

type hotelFixture struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	BusinessDate string            `json:"business_date"`
	RoomTypes    []roomTypeFixture `json:"room_types"`
	Rates        []rateFixture     `json:"rates"`
	Campaigns    []campaignFixture `json:"campaigns"`
	Rooms        []roomFixture     `json:"rooms"`
	Shifts       []shiftFixture    `json:"shifts"`
}

type roomTypeFixture struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MinAdults    int    `json:"min_adults"`
	MaxOccupancy int    `json:"max_occupancy"`
}

type tierFixture struct {
	Base             decimal.Decimal `json:"base"`
	ExtraAdult       decimal.Decimal `json:"extra_adult"`
	SingleSupplement decimal.Decimal `json:"single_supplement"`
	ChildBands       []bandFixture   `json:"child_bands"`
}

type bandFixture struct {
	MinAge int             `json:"min_age"`
	MaxAge int             `json:"max_age"`
	Kind   string          `json:"kind"`
	Value  decimal.Decimal `json:"value"`
}

type rateFixture struct {
	RoomTypeID    string `json:"room_type_id"`
	MealPlanID    string `json:"meal_plan_id"`
	MarketID      string `json:"market_id"`
	Date          string `json:"date"`
	Mode          string `json:"mode"`
	BaseOccupancy int    `json:"base_occupancy"`

	HotelCost tierFixture `json:"hotel_cost"`
	B2C       tierFixture `json:"b2c"`
	B2B       tierFixture `json:"b2b"`

	StopSale          bool `json:"stop_sale"`
	SingleStop        bool `json:"single_stop"`
	ClosedToArrival   bool `json:"closed_to_arrival"`
	ClosedToDeparture bool `json:"closed_to_departure"`
	MinStay           int  `json:"min_stay"`
}

func (f rateFixture) toRate(hotelID string) (*domainpricing.Rate, error) {
	date, err := time.Parse("2006-01-02", f.Date)
	if err != nil {
		return nil, err
	}
	mode := domainpricing.PricingMode(f.Mode)
	if mode == "" {
		mode = domainpricing.PerRoom
	}
	return &domainpricing.Rate{
		HotelID:       hotelID,
		RoomTypeID:    f.RoomTypeID,
		MealPlanID:    f.MealPlanID,
		MarketID:      f.MarketID,
		Date:          domainrange.Day(date),
		Mode:          mode,
		BaseOccupancy: f.BaseOccupancy,
		HotelCost:     f.HotelCost.toTierPrices(),
		B2C:           f.B2C.toTierPrices(),
		B2B:           f.B2B.toTierPrices(),
		Restrictions: domainpricing.Restrictions{
			StopSale:          f.StopSale,
			SingleStop:        f.SingleStop,
			ClosedToArrival:   f.ClosedToArrival,
			ClosedToDeparture: f.ClosedToDeparture,
			MinStay:           f.MinStay,
		},
	}, nil
}

func (f tierFixture) toTierPrices() domainpricing.TierPrices {
	tp := domainpricing.TierPrices{
		Base:             f.Base,
		ExtraAdult:       f.ExtraAdult,
		SingleSupplement: f.SingleSupplement,
	}
	for _, band := range f.ChildBands {
		tp.ChildBands = append(tp.ChildBands, domainpricing.ChildBand{
			MinAge: band.MinAge,
			MaxAge: band.MaxAge,
			Rule: domainpricing.ChildRule{
				Kind:  domainpricing.ChildRuleKind(band.Kind),
				Value: band.Value,
			},
		})
	}
	return tp
}

type campaignFixture struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Kind           string          `json:"kind"`
	Value          decimal.Decimal `json:"value"`
	Priority       int             `json:"priority"`
	Combinable     bool            `json:"combinable"`
	ValidFrom      string          `json:"valid_from"`
	ValidTo        string          `json:"valid_to"`
	MinNights      int             `json:"min_nights"`
	MinAdvanceDays int             `json:"min_advance_days"`
	Markets        []string        `json:"markets"`
}

func (f campaignFixture) toCampaign() (domainpricing.Campaign, error) {
	c := domainpricing.Campaign{
		ID:             f.ID,
		Name:           f.Name,
		Kind:           domainpricing.CampaignKind(f.Kind),
		Value:          f.Value,
		Priority:       f.Priority,
		Combinable:     f.Combinable,
		MinNights:      f.MinNights,
		MinAdvanceDays: f.MinAdvanceDays,
		Markets:        f.Markets,
	}
	if f.ValidFrom != "" {
		from, err := time.Parse("2006-01-02", f.ValidFrom)
		if err != nil {
			return domainpricing.Campaign{}, err
		}
		c.ValidFrom = from
	}
	if f.ValidTo != "" {
		to, err := time.Parse("2006-01-02", f.ValidTo)
		if err != nil {
			return domainpricing.Campaign{}, err
		}
		c.ValidTo = to
	}
	return c, nil
}

type roomFixture struct {
	Number     string `json:"number"`
	RoomTypeID string `json:"room_type_id"`
	Status     string `json:"status"`
	DueOut     string `json:"due_out"`
}

type shiftFixture struct {
	ID          string          `json:"id"`
	CashierID   string          `json:"cashier_id"`
	OpeningCash decimal.Decimal `json:"opening_cash"`
}

func defaultHotelFixturesPath() string {
	return filepath.Join("fixtures", "hotels.json")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
