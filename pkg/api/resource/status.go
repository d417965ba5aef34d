package resource

import (
	"time"

	"github.com/nsyszr/rcm/pkg/storage"
)

type HealthResource struct {
	Status           string    `json:"status"`
	Timestamp        time.Time `json:"timestamp"`
	Database         string    `json:"database"`
	MongoDBConnected bool      `json:"mongodb_connected"`
}

// NewHealth reports the liveness of the process together with the store
// state. The process itself is always "ok".
func NewHealth(state storage.State, now time.Time) *HealthResource {
	return &HealthResource{
		Status:           "ok",
		Timestamp:        now.UTC().Truncate(time.Millisecond),
		Database:         state.String(),
		MongoDBConnected: state == storage.StateConnected,
	}
}

type ErrorResource struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Details []string `json:"details,omitempty"`
}

type DeletedResource struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type EndpointsResource struct {
	GET    string `json:"GET"`
	POST   string `json:"POST"`
	DELETE string `json:"DELETE"`
}

type IndexResource struct {
	Message   string `json:"message"`
	Version   string `json:"version"`
	Endpoints struct {
		Health   string             `json:"health"`
		Events   *EndpointsResource `json:"events"`
		Planning *EndpointsResource `json:"planning"`
		Realtime string             `json:"realtime"`
		Metrics  string             `json:"metrics"`
		UI       string             `json:"ui"`
	} `json:"endpoints"`
}

func NewIndex(version string) *IndexResource {
	out := &IndexResource{
		Message: "Railway Management API",
		Version: version,
	}
	out.Endpoints.Health = "/api/health"
	out.Endpoints.Events = &EndpointsResource{
		GET:    "/api/events",
		POST:   "/api/events",
		DELETE: "/api/events/:id",
	}
	out.Endpoints.Planning = &EndpointsResource{
		GET:    "/api/planning",
		POST:   "/api/planning",
		DELETE: "/api/planning/:id",
	}
	out.Endpoints.Realtime = "/api/realtime-events"
	out.Endpoints.Metrics = "/metrics"
	out.Endpoints.UI = "/app/"
	return out
}
