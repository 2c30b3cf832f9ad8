package handlers

import (
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Guanghan-Li/Athlete-Data-Analytic/internal/logic"
	"github.com/Guanghan-Li/Athlete-Data-Analytic/internal/models"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// IngestQueue defines the interface for the record ingestion worker pool
type IngestQueue interface {
	Enqueue(record *models.SensorRecord) bool
	QueueDepth() int
}

type Config struct {
	WorkerPool IngestQueue
	Postgres   *pgxpool.Pool
	ClickHouse driver.Conn
	Redis      *redis.Client
	Logger     *zap.Logger

	ReportCacheTTL time.Duration
	SquadSize      int

	// Services
	Aggregator  logic.AggregatorService
	Benchmarks  logic.BenchmarkService
	Trainer     logic.TrainerService
	Predictor   logic.PredictorService
	Reports     logic.ReportService
	Models      logic.ModelStore
	Sessions    logic.SessionStore
	Roster      logic.RosterStore
	Predictions logic.PredictionStore
}

type Handler struct {
	pool      IngestQueue
	pg        *pgxpool.Pool
	ch        driver.Conn
	redis     *redis.Client
	logger    *zap.SugaredLogger
	validator *validator.Validate

	squadSize int
	reportTTL time.Duration

	aggregator  logic.AggregatorService
	benchmarks  logic.BenchmarkService
	trainer     logic.TrainerService
	predictor   logic.PredictorService
	reports     logic.ReportService
	models      logic.ModelStore
	sessions    logic.SessionStore
	roster      logic.RosterStore
	predictions logic.PredictionStore
}

func New(cfg Config) *Handler {
	return &Handler{
		pool:        cfg.WorkerPool,
		pg:          cfg.Postgres,
		ch:          cfg.ClickHouse,
		redis:       cfg.Redis,
		logger:      cfg.Logger.Sugar(),
		validator:   validator.New(),
		squadSize:   cfg.SquadSize,
		reportTTL:   cfg.ReportCacheTTL,
		aggregator:  cfg.Aggregator,
		benchmarks:  cfg.Benchmarks,
		trainer:     cfg.Trainer,
		predictor:   cfg.Predictor,
		reports:     cfg.Reports,
		models:      cfg.Models,
		sessions:    cfg.Sessions,
		roster:      cfg.Roster,
		predictions: cfg.Predictions,
	}
}
