package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/CedarRidgeStays/booking/internal/httpapi"
	"github.com/CedarRidgeStays/booking/internal/payment"
	"github.com/CedarRidgeStays/booking/internal/store/gormstore"
	"github.com/CedarRidgeStays/booking/internal/store/memstore"
	"github.com/CedarRidgeStays/booking/pkg/booking"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	flagDatabaseURL    = "database-url"
	flagListenAddr     = "listen-addr"
	flagAllowedOrigins = "allowed-origins"
	flagDefaultUserID  = "default-user"
	flagPaymentDelay   = "payment-delay"
	flagPaymentTimeout = "payment-timeout"

	configKeyDatabaseURL    = "database_url"
	configKeyListenAddr     = "listen_addr"
	configKeyAllowedOrigins = "allowed_origins"
	configKeyDefaultUserID  = "default_user_id"
	configKeyPaymentDelay   = "payment_delay"
	configKeyPaymentTimeout = "payment_timeout"

	defaultDatabaseURL    = "memory://"
	defaultListenAddr     = ":8080"
	defaultPaymentDelay   = 2 * time.Second
	defaultPaymentTimeout = 10 * time.Second

	driverMemory   = "memory"
	driverSQLite   = "sqlite"
	driverPostgres = "postgres"

	seedReservationID = "res-initial-1"
	seedPaymentID     = "pay_initial_xyz123"
	seedLeadDays      = 3
)

type runtimeConfig struct {
	DatabaseURL    string
	ListenAddr     string
	AllowedOrigins []string
	DefaultUserID  string
	PaymentDelay   time.Duration
	PaymentTimeout time.Duration
}

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "cabind: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := &runtimeConfig{}
	cmd := &cobra.Command{
		Use:           "cabind",
		Short:         "Cabin booking HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd, cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg)
		},
	}

	cmd.Flags().String(flagDatabaseURL, defaultDatabaseURL, "Store DSN: memory://, sqlite://path, or a PostgreSQL URL")
	cmd.Flags().String(flagListenAddr, defaultListenAddr, "HTTP listen address")
	cmd.Flags().String(flagAllowedOrigins, "", "Comma-delimited CORS origins")
	cmd.Flags().String(flagDefaultUserID, "", "User id assumed for requests that omit one")
	cmd.Flags().Duration(flagPaymentDelay, defaultPaymentDelay, "Simulated payment gateway delay")
	cmd.Flags().Duration(flagPaymentTimeout, defaultPaymentTimeout, "Deadline applied to each payment attempt")

	return cmd
}

func loadConfig(cmd *cobra.Command, cfg *runtimeConfig) error {
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	bindings := map[string]string{
		configKeyDatabaseURL:    "DATABASE_URL",
		configKeyListenAddr:     "LISTEN_ADDR",
		configKeyAllowedOrigins: "ALLOWED_ORIGINS",
		configKeyDefaultUserID:  "DEFAULT_USER_ID",
		configKeyPaymentDelay:   "PAYMENT_DELAY",
		configKeyPaymentTimeout: "PAYMENT_TIMEOUT",
	}
	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			return err
		}
	}
	flags := map[string]string{
		configKeyDatabaseURL:    flagDatabaseURL,
		configKeyListenAddr:     flagListenAddr,
		configKeyAllowedOrigins: flagAllowedOrigins,
		configKeyDefaultUserID:  flagDefaultUserID,
		configKeyPaymentDelay:   flagPaymentDelay,
		configKeyPaymentTimeout: flagPaymentTimeout,
	}
	for key, flag := range flags {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return err
		}
	}

	cfg.DatabaseURL = viper.GetString(configKeyDatabaseURL)
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = defaultDatabaseURL
	}
	cfg.ListenAddr = viper.GetString(configKeyListenAddr)
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaultListenAddr
	}
	cfg.AllowedOrigins = httpapi.ParseAllowedOrigins(viper.GetString(configKeyAllowedOrigins))
	cfg.DefaultUserID = viper.GetString(configKeyDefaultUserID)
	cfg.PaymentDelay = viper.GetDuration(configKeyPaymentDelay)
	cfg.PaymentTimeout = viper.GetDuration(configKeyPaymentTimeout)
	return nil
}

func runServer(ctx context.Context, cfg *runtimeConfig) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	catalog, err := booking.NewCatalog(booking.DefaultCabins())
	if err != nil {
		return fmt.Errorf("catalog init: %w", err)
	}

	store, cleanup, driver, err := openStore(ctx, cfg.DatabaseURL, catalog)
	if err != nil {
		return fmt.Errorf("store open: %w", err)
	}
	defer func() { _ = cleanup() }()
	logger.Info("store ready", zap.String("driver", driver))

	clock := func() time.Time { return time.Now().UTC() }
	service, err := booking.NewService(store, catalog, clock, uuid.NewString,
		booking.WithOperationLogger(httpapi.NewOperationLogger(logger)),
		booking.WithPaymentProvider(payment.NewSimulator(cfg.PaymentDelay)),
		booking.WithPaymentTimeout(cfg.PaymentTimeout),
	)
	if err != nil {
		return fmt.Errorf("booking service init: %w", err)
	}

	if err := seedDemoReservation(ctx, store, catalog, clock); err != nil {
		return fmt.Errorf("seed reservation: %w", err)
	}

	apiConfig := httpapi.Config{
		ListenAddr:     cfg.ListenAddr,
		AllowedOrigins: cfg.AllowedOrigins,
		DefaultUserID:  cfg.DefaultUserID,
	}
	return httpapi.Run(ctx, apiConfig, service, logger)
}

// openStore resolves the DSN to one of the Store implementations. The
// volatile in-memory store is the default deployment.
func openStore(ctx context.Context, dsn string, catalog *booking.Catalog) (booking.Store, func() error, string, error) {
	driver, sqlitePath, err := resolveDriver(dsn)
	if err != nil {
		return nil, nil, "", err
	}
	if driver == driverMemory {
		return memstore.New(), func() error { return nil }, driverMemory, nil
	}

	var db *gorm.DB
	gormConfig := &gorm.Config{}
	switch driver {
	case driverPostgres:
		db, err = gorm.Open(postgres.Open(dsn), gormConfig)
	case driverSQLite:
		db, err = gorm.Open(sqlite.Open(sqlitePath), gormConfig)
	default:
		return nil, nil, "", fmt.Errorf("unsupported database scheme %q", driver)
	}
	if err != nil {
		return nil, nil, "", err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, "", err
	}
	cleanup := func() error { return sqlDB.Close() }

	if err := gormstore.Migrate(db); err != nil {
		_ = cleanup()
		return nil, nil, "", err
	}
	store := gormstore.New(db.WithContext(ctx))
	if err := store.SeedCatalog(ctx, catalog.ListCabins()); err != nil {
		_ = cleanup()
		return nil, nil, "", err
	}
	return store, cleanup, driver, nil
}

func resolveDriver(dsn string) (string, string, error) {
	if dsn == "" || dsn == driverMemory || strings.HasPrefix(dsn, "memory://") {
		return driverMemory, "", nil
	}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return driverPostgres, "", nil
	}
	if strings.HasPrefix(dsn, "sqlite://") {
		parsed, err := url.Parse(dsn)
		if err != nil {
			return "", "", fmt.Errorf("parse sqlite url: %w", err)
		}
		path := parsed.Path
		if path == "" {
			path = parsed.Host
		}
		if path == "" || path == "/" {
			path = "booking.db"
		}
		sqlitePath, err := normalizeSQLitePath(path)
		return driverSQLite, sqlitePath, err
	}
	// Treat everything else as a direct sqlite path.
	sqlitePath, err := normalizeSQLitePath(dsn)
	return driverSQLite, sqlitePath, err
}

func normalizeSQLitePath(path string) (string, error) {
	if path == ":memory:" {
		return path, nil
	}
	if strings.HasPrefix(path, "/") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", err
		}
		return path, nil
	}
	abs := filepath.Join(".", path)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", err
	}
	return abs, nil
}

// seedDemoReservation inserts the fixture reservation the application
// ships with: Lakeside Retreat, three days out, already confirmed.
func seedDemoReservation(ctx context.Context, store booking.Store, catalog *booking.Catalog, clock func() time.Time) error {
	cabinID, err := booking.NewCabinID("cabin1")
	if err != nil {
		return err
	}
	cabin, err := catalog.CabinByID(cabinID)
	if err != nil {
		return err
	}
	reservationID, err := booking.NewReservationID(seedReservationID)
	if err != nil {
		return err
	}
	userID, err := booking.NewUserID("user123")
	if err != nil {
		return err
	}
	paymentID, err := booking.NewPaymentID(seedPaymentID)
	if err != nil {
		return err
	}
	checkIn := booking.StayDateOf(clock().AddDate(0, 0, seedLeadDays))
	reservation, err := booking.NewReservation(
		reservationID,
		cabinID,
		cabin.Name,
		userID,
		checkIn,
		booking.NightlyRate(cabin.BasePrice, checkIn),
		booking.StatusConfirmed,
		&paymentID,
		clock(),
	)
	if err != nil {
		return err
	}
	err = store.InsertReservation(ctx, reservation)
	if errors.Is(err, booking.ErrReservationExists) {
		// A durable store keeps the fixture across restarts.
		return nil
	}
	return err
}
