package listings

import (
	"context"
	"errors"

	"lckr_backend/internal/events"
	"lckr_backend/platform/apperr"
	"lckr_backend/platform/logger"
	"lckr_backend/platform/sanitize"
)

// Service saves listing locations.
type Service struct {
	presets *Presets
	client  MarketplaceClient
	bus     events.Bus
	log     *logger.Logger
}

// NewService creates the listings service.
func NewService(presets *Presets, client MarketplaceClient, bus events.Bus, log *logger.Logger) *Service {
	return &Service{presets: presets, client: client, bus: bus, log: log}
}

// Presets returns the preset catalogue.
func (s *Service) Presets() *Presets {
	return s.presets
}

// UpdateLocation validates the submitted location step, writes it to the
// marketplace and announces the change.
func (s *Service) UpdateLocation(ctx context.Context, listingID string, values FormValues) (LocationUpdate, error) {
	values.Building = sanitize.Text(values.Building)
	update, err := BuildLocationUpdate(s.presets, values)
	if err != nil {
		switch {
		case errors.Is(err, ErrAddressRequired), errors.Is(err, ErrAddressNotRecognized), errors.Is(err, ErrUnknownPreset):
			return LocationUpdate{}, apperr.Validation(err.Error()).WithDetails(map[string]string{"field": fieldFor(err)})
		default:
			return LocationUpdate{}, err
		}
	}

	if err := s.client.UpdateListingLocation(ctx, listingID, update); err != nil {
		return LocationUpdate{}, apperr.Unavailable("failed to save listing location", err)
	}

	s.bus.Publish(ctx, events.ListingLocationUpdated{
		BaseEvent:    events.NewBaseEvent(),
		ListingID:    listingID,
		Address:      update.PublicData.Location.Address,
		Building:     update.PublicData.Location.Building,
		Lat:          update.Geolocation.Lat,
		Lng:          update.Geolocation.Lng,
		LockerSelect: update.PublicData.LockerSelect,
	})
	s.log.Info("listing location updated", "listingId", listingID, "lckrSelect", update.PublicData.LockerSelect)

	return update, nil
}

func fieldFor(err error) string {
	if errors.Is(err, ErrUnknownPreset) {
		return "lckrSelect"
	}
	return "location"
}
