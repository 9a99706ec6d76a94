package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PlacesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "places_created_total",
			Help: "Total number of places created",
		},
	)

	PlacesUpdated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "places_updated_total",
			Help: "Total number of places updated",
		},
	)

	PlacesDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "places_deleted_total",
			Help: "Total number of places deleted",
		},
	)

	OwnershipDenied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "place_ownership_denied_total",
			Help: "Total number of place mutations rejected by the ownership check",
		},
		[]string{"operation"},
	)

	ImagesStored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "images_stored_total",
			Help: "Total number of uploaded images stored",
		},
		[]string{"backend"},
	)

	ImagesDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "images_deleted_total",
			Help: "Total number of stored images deleted",
		},
		[]string{"backend", "result"},
	)
)
