package internal

import (
	"net/http"

	"breakd/internal/controllers"
	"breakd/internal/providers"
)

func InitRoutes(messages *controllers.MessageController, settings *controllers.SettingsController, stats *controllers.StatsController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/activity", http.HandlerFunc(messages.Activity))
	routers.Get("/should-show", http.HandlerFunc(messages.ShouldShow))
	routers.Post("/break-completed", http.HandlerFunc(messages.BreakCompleted))
	routers.Get("/time-remaining", http.HandlerFunc(messages.TimeRemaining))
	routers.Post("/restart", http.HandlerFunc(messages.Restart))
	routers.Post("/message", http.HandlerFunc(messages.Message))
	routers.Get("/badge", http.HandlerFunc(messages.Badge))

	routers.Get("/settings", http.HandlerFunc(settings.Get))
	routers.Post("/settings", http.HandlerFunc(settings.Update))
	routers.Post("/settings/toggle", http.HandlerFunc(settings.Toggle))
	routers.Post("/settings/domains", http.HandlerFunc(settings.Domains))

	routers.Get("/stats", http.HandlerFunc(stats.Get))
	routers.Post("/stats/reset", http.HandlerFunc(stats.Reset))
	return routers
}
