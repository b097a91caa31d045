package myhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"ride-booking/internal/config"
	"ride-booking/internal/mylogger"
	"ride-booking/internal/ride-service/adapters/driven/bm"
	"ride-booking/internal/ride-service/adapters/driven/consumer"
	"ride-booking/internal/ride-service/adapters/driven/credentials"
	"ride-booking/internal/ride-service/adapters/driven/db"
	"ride-booking/internal/ride-service/adapters/driven/notification"
	"ride-booking/internal/ride-service/adapters/driver/myhttp/handle"
	"ride-booking/internal/ride-service/adapters/driver/myhttp/middleware"
	"ride-booking/internal/ride-service/adapters/driver/myhttp/ws"
	"ride-booking/internal/ride-service/core/ports"
	"ride-booking/internal/ride-service/core/services"
)

var ErrServerClosed = errors.New("Server closed")

const (
	WaitTime    = 10
	serviceName = "ride-service"
)

type Server struct {
	mux        *http.ServeMux
	cfg        *config.Config
	srv        *http.Server
	mylog      mylogger.Logger
	db         *db.DB
	mb         ports.IRidesBroker
	rabbit     *bm.RabbitMQ
	dispatcher *ws.Dispatcher
	ctx        context.Context
	cancel     context.CancelFunc
	appCtx     context.Context
	mu         sync.Mutex
	wg         sync.WaitGroup
}

// NewServer builds a server whose background workers live until ctx is done
// or Stop is called.
func NewServer(ctx, appCtx context.Context, mylog mylogger.Logger, cfg *config.Config) *Server {
	s := &Server{
		appCtx: appCtx,
		cfg:    cfg,
		mylog:  mylog,
		mux:    http.NewServeMux(),
	}
	s.ctx, s.cancel = context.WithCancel(ctx)

	return s
}

// Run initializes routes and starts listening. It returns when the server stops.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	// Initialize database connection
	db, err := db.New(s.ctx, s.cfg.DB, mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	if err := s.db.CreateSchema(s.ctx); err != nil {
		return err
	}
	mylog.Info("Successful database connection")

	// Initialize the event broker
	switch s.cfg.Broker.Kind {
	case config.BrokerRabbitMQ:
		rabbit, err := bm.New(s.appCtx, *s.cfg.RabbitMq, s.mylog)
		if err != nil {
			return fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
		s.rabbit = rabbit
		s.mb = rabbit
	case config.BrokerKafka:
		s.mb = bm.NewKafka(*s.cfg.Kafka, s.mylog)
	}
	mylog.Info("Event broker ready", "kind", s.cfg.Broker.Kind)

	// Configure routes and handlers
	s.Configure()

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%v", s.cfg.Srv.RideServicePort),
		Handler:           middleware.RequestLogger(s.mylog)(s.mux),
		ReadHeaderTimeout: WaitTime * time.Second,
	}
	s.mu.Unlock()

	mylog = mylog.WithGroup("details").With("port", s.cfg.Srv.RideServicePort)

	mylog.Info("server is running")
	return s.startHTTPServer()
}

// Stop provides a programmatic shutdown. Accepts a context for timeout control.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Info("Shutting down HTTP server...")

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	if s.dispatcher != nil {
		s.dispatcher.CloseAll()
	}
	s.cancel()
	s.wg.Wait()

	if s.mb != nil {
		if err := s.mb.Close(); err != nil {
			s.mylog.Error("Failed to close event broker", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.mylog.Error("Failed to close database", err)
			return fmt.Errorf("db close: %w", err)
		}
		s.mylog.Info("Database closed")
	}

	s.mylog.Info("HTTP server shut down gracefully")
	return nil
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Configure wires repositories, services and handlers, and registers the routes.
func (s *Server) Configure() {
	// Repositories
	ridesRepo := db.NewRidesRepo(s.db)
	usersRepo := db.NewUsersRepo(s.db)
	driversRepo := db.NewDriversRepo(s.db)

	auth := credentials.New(usersRepo, s.cfg.App.JwtSecret, s.cfg.App.TokenTTL, s.cfg.App.BcryptCost)
	s.dispatcher = ws.NewDispatcher(s.mylog, auth, s.cfg.WS.AuthTimeout, s.cfg.WS.PingPeriod)

	// With RabbitMQ the websocket clients are fed from the exchange, so every
	// instance sees every ride change. Otherwise they are fed directly.
	var events ports.IRideEventSink
	switch {
	case s.rabbit != nil:
		events = notification.New(s.mylog, s.rabbit)
		consumer.New(s.ctx, &s.wg, s.mylog, s.rabbit, s.dispatcher).Run()
	case s.mb != nil:
		events = notification.New(s.mylog, s.mb, s.dispatcher)
	default:
		events = notification.New(s.mylog, s.dispatcher)
	}

	// services
	assignment := services.NewAssignmentService(s.mylog, ridesRepo, usersRepo, events,
		services.WithPermissiveStatus(s.cfg.App.PermissiveStatus))
	rides := services.NewRidesService(s.mylog, ridesRepo)
	accounts := services.NewAccountService(s.mylog, usersRepo, driversRepo, auth)

	var broker handle.IBrokerHealth
	if s.mb != nil {
		broker = s.mb
	}

	Routes(s.mux, Handlers{
		Rides:   handle.NewRidesHandler(assignment, rides, s.mylog),
		Users:   handle.NewUsersHandler(accounts, s.mylog),
		Drivers: handle.NewDriversHandler(accounts, assignment, s.mylog),
		Health:  handle.Health(serviceName, s.db, broker),
		Ws:      s.dispatcher.WsHandler(),
		Auth:    middleware.NewAuthMiddleware(auth),
	})
}
