package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abira1/nijhum-deep/internal/adapter"
	"github.com/abira1/nijhum-deep/internal/clock"
	"github.com/abira1/nijhum-deep/internal/config"
	"github.com/abira1/nijhum-deep/internal/logger"
	"github.com/abira1/nijhum-deep/internal/store"
	"github.com/abira1/nijhum-deep/models"
)

// finalizer implements [Finalizer]. A date is sealed at most once: the local
// day_finalizations table is the idempotency guard, and the remote record at
// finalizations/<date> is created through the same dual path as any other
// write, so an offline seal survives restarts inside the pending queue.
type finalizer struct {
	local       store.LocalStore
	gateway     adapter.RemoteGateway
	coordinator SyncCoordinator
	clock       *clock.Service
	cfg         config.ClientFinalize
	logger      *logger.Logger

	bus *eventBus[models.FinalizationEvent]
}

// NewFinalizer constructs a [Finalizer].
func NewFinalizer(local store.LocalStore, gateway adapter.RemoteGateway, coordinator SyncCoordinator, clockSvc *clock.Service, cfg config.ClientFinalize, logger *logger.Logger) Finalizer {
	return &finalizer{
		local:       local,
		gateway:     gateway,
		coordinator: coordinator,
		clock:       clockSvc,
		cfg:         cfg,
		logger:      logger,
		bus:         newEventBus[models.FinalizationEvent](logger),
	}
}

// Finalize implements [Finalizer].
func (f *finalizer) Finalize(ctx context.Context, date models.Date) error {
	log := logger.FromContext(ctx)

	if existing, err := f.local.GetFinalization(ctx, date); err == nil && existing.Sealed {
		log.Debug().
			Str("func", "finalizer.Finalize").
			Str("date", date.String()).
			Msg("date already sealed, skipping")
		return nil
	} else if err != nil && !errors.Is(err, store.ErrFinalizationNotFound) {
		return fmt.Errorf("check finalization for %s: %w", date, err)
	}

	if f.clock.IsFuture(date) {
		return fmt.Errorf("%w: %s", ErrFutureDate, date)
	}

	records, err := f.gather(ctx, date)
	if err != nil {
		return fmt.Errorf("gather records for %s: %w", date, err)
	}

	rec := models.NewDayFinalizationRecord(date, records, f.clock.TimeZone(), time.Now())
	path := models.CollectionFinalizations + "/" + date.String()

	if f.coordinator.Online() {
		if _, pushErr := f.gateway.PushNew(ctx, path, rec.Payload()); pushErr != nil {
			switch {
			case errors.Is(pushErr, adapter.ErrNetwork):
				// connectivity died under us; queue the seal instead
				f.coordinator.SetOnline(false)
				if enqErr := f.enqueueSeal(ctx, path, rec); enqErr != nil {
					return enqErr
				}
			case errors.Is(pushErr, adapter.ErrConflict):
				// another device sealed the date first; our local seal
				// below converges on the same state
				log.Debug().
					Str("func", "finalizer.Finalize").
					Str("date", date.String()).
					Msg("date already sealed remotely")
			default:
				return fmt.Errorf("push finalization for %s: %w", date, pushErr)
			}
		}
	} else {
		if enqErr := f.enqueueSeal(ctx, path, rec); enqErr != nil {
			return enqErr
		}
	}

	if err = f.local.SaveFinalization(ctx, rec); err != nil {
		return fmt.Errorf("save finalization for %s: %w", date, err)
	}

	if err = f.local.SetMeta(ctx, store.MetaLastKnownDate, f.clock.Today().String()); err != nil {
		log.Err(err).Str("func", "finalizer.Finalize").Msg("failed to advance last known date")
	}

	log.Info().
		Str("func", "finalizer.Finalize").
		Str("date", date.String()).
		Int("record_count", rec.RecordCount).
		Int("participants", len(rec.ParticipantIDs)).
		Msg("date sealed")

	f.bus.publish(models.FinalizationEvent{
		Date:    date,
		Records: records,
		Record:  rec,
	})

	return nil
}

func (f *finalizer) enqueueSeal(ctx context.Context, path string, rec models.DayFinalizationRecord) error {
	_, err := f.local.Enqueue(ctx, models.PendingOperation{
		Kind:          models.OperationCreate,
		CollectionKey: path,
		Payload:       rec.Payload(),
	})
	if err != nil {
		return fmt.Errorf("enqueue finalization for %s: %w", rec.Date, err)
	}
	return nil
}

// gather collects the records that belong to date across all record
// collections. Online it reads the remote truth and mirrors it into the
// cache; locally dirty records win over their remote versions because they
// carry changes the remote has not seen yet. Offline the cache alone is
// used.
func (f *finalizer) gather(ctx context.Context, date models.Date) ([]models.CachedRecord, error) {
	log := logger.FromContext(ctx)
	online := f.coordinator.Online()

	var matched []models.CachedRecord

	for _, collection := range models.RecordCollections {
		locals, err := f.local.GetRecords(ctx, collection)
		if err != nil {
			return nil, fmt.Errorf("read local %s: %w", collection, err)
		}

		localByID := make(map[string]models.CachedRecord, len(locals))
		for _, rec := range locals {
			localByID[rec.RecordID] = rec
		}

		if online {
			remote, readErr := f.gateway.ReadAll(ctx, collection)
			if readErr != nil {
				if errors.Is(readErr, adapter.ErrNetwork) {
					f.coordinator.SetOnline(false)
					online = false
				} else {
					log.Err(readErr).
						Str("func", "finalizer.gather").
						Str("collection", collection).
						Msg("remote read failed, falling back to cache")
				}
			} else {
				now := time.Now()
				for id, payload := range remote {
					if existing, ok := localByID[id]; ok && existing.Dirty {
						continue
					}
					mirrored := models.CachedRecord{
						CollectionKey: collection,
						RecordID:      id,
						Payload:       payload,
						CachedAt:      now,
						LastSyncedAt:  now,
						Dirty:         false,
					}
					if putErr := f.local.PutRecord(ctx, mirrored); putErr != nil {
						log.Err(putErr).
							Str("func", "finalizer.gather").
							Str("collection", collection).
							Str("record_id", id).
							Msg("failed to mirror remote record")
					}
					localByID[id] = mirrored
				}
			}
		}

		for _, rec := range localByID {
			if recDate, ok := rec.Payload.Date(); ok && recDate == date {
				matched = append(matched, rec)
			}
		}
	}

	return matched, nil
}

// CatchUp implements [Finalizer]. Failures on individual dates are logged
// and skipped; the date stays open for the next attempt.
func (f *finalizer) CatchUp(ctx context.Context) error {
	log := logger.FromContext(ctx)
	today := f.clock.Today()

	for i := 1; i <= f.cfg.CatchUpDays; i++ {
		date := today.Add(-i)

		existing, err := f.local.GetFinalization(ctx, date)
		if err == nil && existing.Sealed {
			continue
		}
		if err != nil && !errors.Is(err, store.ErrFinalizationNotFound) {
			log.Err(err).
				Str("func", "finalizer.CatchUp").
				Str("date", date.String()).
				Msg("failed to check finalization")
			continue
		}

		if err = f.Finalize(ctx, date); err != nil {
			log.Err(err).
				Str("func", "finalizer.CatchUp").
				Str("date", date.String()).
				Msg("failed to finalize during catch-up")
		}
	}

	return nil
}

// HandleDayTransition implements [Finalizer]. Multi-day gaps are covered by
// a full catch-up instead of sealing just the previous date.
func (f *finalizer) HandleDayTransition(transition models.DayTransition) {
	ctx := context.Background()
	log := f.logger

	if err := f.Finalize(ctx, transition.Previous); err != nil {
		log.Err(err).
			Str("func", "finalizer.HandleDayTransition").
			Str("date", transition.Previous.String()).
			Msg("failed to finalize previous day")
	}

	if models.DaysBetween(transition.Previous, transition.Current) > 1 {
		_ = f.CatchUp(ctx)
	}

	if err := f.local.SetMeta(ctx, store.MetaLastKnownDate, transition.Current.String()); err != nil {
		log.Err(err).
			Str("func", "finalizer.HandleDayTransition").
			Msg("failed to update last known date")
	}
}

// OnFinalization implements [Finalizer].
func (f *finalizer) OnFinalization(cb func(models.FinalizationEvent)) func() {
	return f.bus.subscribe(cb)
}
