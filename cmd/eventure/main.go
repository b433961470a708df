package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventure/internal/config"
	"eventure/internal/geocoding"
	"eventure/internal/http-server/handlers/booking/cancelBooking"
	"eventure/internal/http-server/handlers/booking/createBooking"
	"eventure/internal/http-server/handlers/booking/downloadTicket"
	"eventure/internal/http-server/handlers/booking/getBooking"
	"eventure/internal/http-server/handlers/event/createEvent"
	"eventure/internal/http-server/handlers/event/getAllEvents"
	"eventure/internal/http-server/handlers/event/getEventInfo"
	"eventure/internal/http-server/handlers/event/getOrganizerEvents"
	"eventure/internal/http-server/handlers/event/getUserEvents"
	"eventure/internal/http-server/handlers/event/updateEvent"
	"eventure/internal/http-server/middleware/mwlogger"
	"eventure/internal/http-server/middleware/mwuser"
	"eventure/internal/lib/logger/handlers/slogpretty"
	"eventure/internal/lib/logger/sl"
	"eventure/internal/models"
	"eventure/internal/notify"
	"eventure/internal/notify/email"
	"eventure/internal/services/booking"
	"eventure/internal/services/event"
	"eventure/internal/storage/cache"
	"eventure/internal/storage/memory"
	"eventure/internal/storage/postgres"
	"eventure/internal/ticket/pdf"
	"eventure/internal/ticket/qr"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

type store interface {
	cache.EventStore
	booking.UserProvider
	booking.BookingStore
	event.BookingLister
	Close() error
}

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting eventure", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	storage, err := setupStorage(log, cfg)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	var events cache.EventStore = storage

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		events = cache.New(log, storage, rdb, cfg.Redis.TTL)

		log.Info("event cache enabled", slog.String("addr", cfg.Redis.Addr))
	}

	sender, err := email.NewSender(cfg.SMTP)
	if err != nil {
		log.Error("failed to init email sender", sl.Err(err))
		os.Exit(1)
	}

	dispatcher := notify.NewDispatcher(log, sender, notify.Config{
		QueueSize:   cfg.Notifier.QueueSize,
		Workers:     cfg.Notifier.Workers,
		SendTimeout: cfg.Notifier.SendTimeout,
	})
	if err = dispatcher.Start(); err != nil {
		log.Error("failed to start notifier", sl.Err(err))
		os.Exit(1)
	}

	geocoder := geocoding.New(log, cfg.Geocoding.BaseURL, cfg.Geocoding.APIKey, cfg.Geocoding.Timeout)
	qrGen := qr.New()

	bookings := booking.New(log, storage, events, storage, dispatcher, qrGen, pdf.New(qrGen))
	eventManager := event.New(log, storage, events, storage, geocoder)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwlogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(mwuser.New())

	router.Route("/events", func(r chi.Router) {
		r.Post("/", createEvent.New(log, eventManager))
		r.Get("/", getAllEvents.New(log, eventManager))
		r.Get("/{id}", getEventInfo.New(log, eventManager))
		r.Patch("/{id}", updateEvent.New(log, eventManager))
	})
	router.Get("/organizers/{id}/events", getOrganizerEvents.New(log, eventManager))
	router.Get("/users/{id}/events", getUserEvents.New(log, eventManager))

	router.Route("/bookings", func(r chi.Router) {
		r.Post("/", createBooking.New(log, bookings))
		r.Get("/{id}", getBooking.New(log, bookings))
		r.Post("/{id}/cancel", cancelBooking.New(log, bookings))
		r.Get("/{id}/pdf", downloadTicket.New(log, bookings))
	})

	log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", sl.Err(err))
			stop <- syscall.SIGTERM
		}
	}()

	sign := <-stop

	log.Info("application stopping", slog.String("signal", sign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err = srv.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server", sl.Err(err))
	}

	dispatcher.Stop()
	log.Info("notifier stopped")

	if rdb != nil {
		if err = rdb.Close(); err != nil {
			log.Error("failed to close redis connection", sl.Err(err))
		}
	}

	if err = storage.Close(); err != nil {
		log.Error("failed to close storage", sl.Err(err))
	}

	log.Info("application stopped")
}

func setupStorage(log *slog.Logger, cfg *config.Config) (store, error) {
	switch cfg.Storage.Driver {
	case "memory":
		st := memory.New()
		for _, u := range cfg.Storage.Users {
			st.AddUser(models.User{
				ID:        u.ID,
				FirstName: u.FirstName,
				LastName:  u.LastName,
				Email:     u.Email,
				UserType:  u.UserType,
			})
		}

		log.Warn("using in-memory storage, data is lost on restart", slog.Int("users", len(cfg.Storage.Users)))

		return st, nil
	case "postgres":
		st, err := postgres.InitDB(&cfg.Database)
		if err != nil {
			return nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err = st.Migrate(ctx); err != nil {
			_ = st.Close()
			return nil, err
		}

		log.Info("postgres storage ready", slog.String("host", cfg.Database.Host))

		return st, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	h := opts.NewPrettyHandler(os.Stdout)

	return slog.New(h)
}
