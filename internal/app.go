package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"breakd/internal/controllers"
	"breakd/internal/jobs/interfaces"
	"breakd/internal/providers"
	"breakd/internal/scheduler"
	"breakd/internal/storage"
	"breakd/internal/structures"
	"breakd/internal/tabs"
)

type App struct {
	WebServer *http.Server
}

func NewApp(
	sockets *controllers.SocketController,
	healthController *controllers.HealthController,
	runner interfaces.RunnerInterface,
	sched scheduler.SchedulerInterface,
	hub tabs.HubInterface,
	fileManager *storage.FileManager,
	conf *structures.Config,
	logger providers.Logger,
	router providers.RouterProviderInterface,
	metrics providers.MetricsProviderInterface,
) (*App, error) {
	// Inner mux: API routes
	apiMux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		apiMux.Handle(route.Url, route.Handler)
	}

	instrumentedAPI := providers.MetricsMiddleware(metrics, apiMux)

	// Outer mux: sockets and infrastructure stay outside the middleware,
	// its response writer cannot be hijacked.
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", sockets.Tab)
	mux.HandleFunc("/ws/status", sockets.Status)
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumentedAPI)

	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)
	if err := runner.Restore(); err != nil {
		logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}

	installCtx, cancelInstall := context.WithTimeout(context.Background(), conf.Scheduler.StoreTimeout)
	err := sched.Install(installCtx)
	cancelInstall()
	if err != nil {
		return nil, fmt.Errorf("install defaults: %w", err)
	}

	app := &App{
		WebServer: &http.Server{
			Addr:              conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}

	runner.Init()

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof(providers.TypeApp, "Listening HTTP clients on %s:%d", conf.WebServer.Host, conf.WebServer.Port)
		if err := app.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		runner.Stop()
		return nil, fmt.Errorf("server error: %w", err)
	}

	runner.Stop()
	hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err = app.WebServer.Shutdown(ctx); err != nil {
		return nil, err
	}
	err = runner.Persist()
	fileManager.Close()
	if err != nil {
		return nil, err
	}
	logger.Infof(providers.TypeApp, "gracefully stopped")
	return app, nil
}
