package attachment

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"jan-server/services/media-attach/internal/config"
)

// TagReader retrieves the tag set currently attached to a storage object.
type TagReader interface {
	GetTags(ctx context.Context, bucket, key string) (map[string]string, error)
}

// Writer applies one attachment as a single all-or-nothing transaction.
// It must return an ALREADY_ATTACHED error when the photo record exists.
type Writer interface {
	Attach(ctx context.Context, a Attachment) error
}

// Service runs the attachment pipeline: tags, identity, transactional write.
type Service struct {
	tags         TagReader
	writer       Writer
	distribution string
	cacheBust    bool
	now          func() time.Time
	log          zerolog.Logger
}

// NewService wires the attachment pipeline over the given tag reader and writer.
func NewService(cfg *config.Config, tags TagReader, writer Writer, log zerolog.Logger) *Service {
	return &Service{
		tags:         tags,
		writer:       writer,
		distribution: strings.TrimRight(cfg.MediaDistribution, "/"),
		cacheBust:    cfg.CacheBust,
		now:          time.Now,
		log:          log.With().Str("component", "attachment-service").Logger(),
	}
}

// WithClock replaces the clock used for cache-busting display URLs.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Dispatch handles one raw notification payload end to end.
// A replayed event is acknowledged like a first delivery.
func (s *Service) Dispatch(ctx context.Context, raw json.RawMessage) (Ack, error) {
	entry := s.log.Info()
	if json.Valid(raw) {
		entry = entry.RawJSON("event", raw)
	} else {
		entry = entry.Str("event", string(raw))
	}
	entry.Msg("received notification")

	event, err := ParseEvent(raw)
	if err != nil {
		s.log.Error().Err(err).Msg("rejected notification")
		return Ack{}, err
	}

	res, err := s.Attach(ctx, event)
	if err != nil {
		return Ack{}, err
	}
	return Ack{Status: AckOK.Status, Replay: res.Replay}, nil
}

// Attach routes the object in event to its workout and records it exactly once.
func (s *Service) Attach(ctx context.Context, event Event) (*Result, error) {
	log := s.log.With().Str("bucket", event.Bucket).Str("key", event.Key).Logger()

	owner, err := s.ResolveOwnership(ctx, event.Bucket, event.Key)
	if err != nil {
		log.Error().Err(err).Msg("resolve ownership")
		return nil, err
	}

	a := Attachment{
		UserID:    owner.UserID,
		WorkoutID: owner.WorkoutID,
		PhotoID:   PhotoID(event.EventTime, event.Key),
		URL:       s.DisplayURL(event.Key),
		ImageKey:  event.Key,
	}
	log = log.With().
		Str("user_id", a.UserID).
		Str("workout_id", a.WorkoutID).
		Str("photo_id", a.PhotoID).
		Logger()

	status := StatusUnattempted
	err = s.writer.Attach(ctx, a)
	switch {
	case err == nil:
		status, _ = status.TransitionTo(StatusAttached)
		log.Info().Msg("attached photo")
		return &Result{Attachment: a, Status: status}, nil
	case errors.Is(err, ErrAlreadyAttached):
		log.Info().Bool("replay", true).Msg("photo already attached")
		return &Result{Attachment: a, Status: StatusAttached, Replay: true}, nil
	default:
		if CodeOf(err) == "" {
			err = NewStorageWriteFailed(err)
		}
		log.Error().Err(err).Msg("attach photo")
		return nil, err
	}
}

// ResolveOwnership reads the object's tags and extracts the owning user and workout.
func (s *Service) ResolveOwnership(ctx context.Context, bucket, key string) (Ownership, error) {
	tags, err := s.tags.GetTags(ctx, bucket, key)
	if err != nil {
		if CodeOf(err) != "" {
			return Ownership{}, err
		}
		return Ownership{}, NewStorageReadFailed("get object tagging", err)
	}
	return OwnershipFromTags(tags)
}

// OwnershipFromTags requires both ownership tags; a partial match is rejected.
func OwnershipFromTags(tags map[string]string) (Ownership, error) {
	userID, hasUser := tags[TagUserID]
	workoutID, hasWorkout := tags[TagWorkoutID]
	if !hasUser || !hasWorkout || userID == "" || workoutID == "" {
		return Ownership{}, NewInvalidTagging(tags)
	}
	return Ownership{UserID: userID, WorkoutID: workoutID}, nil
}

// DisplayURL builds the public URL for key, cache-busted with the current time when enabled.
// The decoded key is path-escaped so "#", "?" and "%" stay part of the object path.
func (s *Service) DisplayURL(key string) string {
	u := s.distribution + (&url.URL{Path: "/" + key}).EscapedPath()
	if !s.cacheBust {
		return u
	}
	return u + "?v=" + s.now().UTC().Format(time.RFC3339Nano)
}
