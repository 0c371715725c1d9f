// Package interfaces groups the wire providers for the interface layer.
package interfaces

import (
	"github.com/google/wire"

	"github.com/glowdesk/voice-console/internal/interfaces/httpserver"
	"github.com/glowdesk/voice-console/internal/interfaces/httpserver/handlers"
	"github.com/glowdesk/voice-console/internal/interfaces/httpserver/routes"
)

// InterfacesProvider provides all interface dependencies.
var InterfacesProvider = wire.NewSet(
	handlers.HandlerProvider,
	routes.RouteProvider,
	httpserver.New,
)
