package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/query"
)

const (
	featuredSpeakerTemplate = "Featured speaker: %s. Sessions: %s"
	// featuredSpeakerMinSessions is how many sessions a speaker needs in one conference to be featured.
	featuredSpeakerMinSessions = 2
)

type sessionService struct {
	sessionRepo    domain.SessionRepository
	speakerRepo    domain.SpeakerRepository
	conferenceRepo domain.ConferenceRepository
	profileRepo    domain.ProfileRepository
	cache          domain.Cache
	tasks          domain.TaskDispatcher
	opts           Options
}

// NewSessionService creates a SessionService with the given repositories and collaborators.
func NewSessionService(
	sessionRepo domain.SessionRepository,
	speakerRepo domain.SpeakerRepository,
	conferenceRepo domain.ConferenceRepository,
	profileRepo domain.ProfileRepository,
	cache domain.Cache,
	tasks domain.TaskDispatcher,
	opts Options,
) domain.SessionService {
	return &sessionService{
		sessionRepo:    sessionRepo,
		speakerRepo:    speakerRepo,
		conferenceRepo: conferenceRepo,
		profileRepo:    profileRepo,
		cache:          cache,
		tasks:          tasks,
		opts:           opts.withDefaults(),
	}
}

func (s *sessionService) CreateSpeaker(ctx context.Context, sp *domain.Speaker) error {
	ctx, cancel := s.opts.context(ctx)
	defer cancel()

	sp.Name = strings.TrimSpace(sp.Name)
	if sp.Name == "" {
		return domain.InvalidInput("speaker 'name' field required")
	}
	sp.CreatedAt = s.opts.Now()
	if err := s.speakerRepo.Create(ctx, sp); err != nil {
		return fmt.Errorf("create speaker: %w", err)
	}
	return nil
}

func (s *sessionService) ListSpeakersByConference(ctx context.Context, conferenceID string) ([]*domain.Speaker, error) {
	ctx, cancel := s.opts.context(ctx)
	defer cancel()

	sessions, err := s.listByConference(ctx, conferenceID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(sessions))
	seen := make(map[string]struct{}, len(sessions))
	for _, sess := range sessions {
		if _, ok := seen[sess.SpeakerID]; ok {
			continue
		}
		seen[sess.SpeakerID] = struct{}{}
		ids = append(ids, sess.SpeakerID)
	}
	speakers, err := s.speakerRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list speakers: %w", err)
	}
	return speakers, nil
}

func (s *sessionService) CreateSession(ctx context.Context, caller domain.Identity, sess *domain.Session) error {
	ctx, cancel := s.opts.context(ctx)
	defer cancel()

	if caller.UserID == "" {
		return domain.ErrUnauthorized
	}
	if strings.TrimSpace(sess.Title) == "" {
		return domain.InvalidInput("session 'title' field required")
	}
	conference, err := s.conferenceRepo.GetByID(ctx, sess.ConferenceID)
	if err != nil {
		return fmt.Errorf("get conference: %w", err)
	}
	if conference.OrganizerUserID != caller.UserID {
		return fmt.Errorf("%w: only the conference organizer can add sessions", domain.ErrUnauthorized)
	}
	speaker, err := s.speakerRepo.GetByID(ctx, sess.SpeakerID)
	if err != nil {
		return fmt.Errorf("get speaker: %w", err)
	}

	sess.OrganizerUserID = caller.UserID
	sess.SpeakerName = speaker.Name
	sess.CreatedAt = s.opts.Now()
	if err := s.sessionRepo.Create(ctx, sess); err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	count, err := s.countSpeakerSessions(ctx, sess.SpeakerID, sess.ConferenceID)
	if err != nil {
		s.opts.Logger.Warn("count speaker sessions", "speaker_id", sess.SpeakerID, "error", err)
		return nil
	}
	if count >= featuredSpeakerMinSessions {
		task := domain.Task{
			Name: domain.TaskSetFeaturedSpeaker,
			Params: map[string]string{
				domain.TaskParamSpeakerID:    sess.SpeakerID,
				domain.TaskParamConferenceID: sess.ConferenceID,
			},
		}
		if err := s.tasks.Dispatch(ctx, task); err != nil {
			s.opts.Logger.Error("dispatch featured speaker", "speaker_id", sess.SpeakerID, "error", err)
		}
	}
	return nil
}

func (s *sessionService) countSpeakerSessions(ctx context.Context, speakerID, conferenceID string) (int, error) {
	items, err := s.speakerSessions(ctx, speakerID, conferenceID)
	return len(items), err
}

func (s *sessionService) speakerSessions(ctx context.Context, speakerID, conferenceID string) ([]*domain.Session, error) {
	return s.run(ctx, query.Sessions.MustTranslate(
		query.Eq("SPEAKER_ID", speakerID),
		query.Eq("CONFERENCE", conferenceID),
	))
}

func (s *sessionService) ListByConference(ctx context.Context, conferenceID string) ([]*domain.Session, error) {
	ctx, cancel := s.opts.context(ctx)
	defer cancel()
	return s.listByConference(ctx, conferenceID)
}

func (s *sessionService) listByConference(ctx context.Context, conferenceID string) ([]*domain.Session, error) {
	if _, err := s.conferenceRepo.GetByID(ctx, conferenceID); err != nil {
		return nil, fmt.Errorf("get conference: %w", err)
	}
	return s.run(ctx, query.Sessions.MustTranslate(query.Eq("CONFERENCE", conferenceID)))
}

func (s *sessionService) ListByType(ctx context.Context, conferenceID, sessionType string) ([]*domain.Session, error) {
	ctx, cancel := s.opts.context(ctx)
	defer cancel()

	if _, err := s.conferenceRepo.GetByID(ctx, conferenceID); err != nil {
		return nil, fmt.Errorf("get conference: %w", err)
	}
	return s.run(ctx, query.Sessions.MustTranslate(
		query.Eq("CONFERENCE", conferenceID),
		query.Eq("TYPE", sessionType),
	))
}

func (s *sessionService) ListByLocation(ctx context.Context, conferenceID, location string) ([]*domain.Session, error) {
	ctx, cancel := s.opts.context(ctx)
	defer cancel()

	location = strings.TrimSpace(location)
	if location == "" {
		return nil, domain.InvalidInput("location is required")
	}
	filters := []domain.QueryFilter{query.Eq("LOCATION", location)}
	if conferenceID != "" {
		filters = append(filters, query.Eq("CONFERENCE", conferenceID))
	}
	return s.run(ctx, query.Sessions.MustTranslate(filters...))
}

func (s *sessionService) QuerySessions(ctx context.Context, filters []domain.QueryFilter) ([]*domain.Session, error) {
	ctx, cancel := s.opts.context(ctx)
	defer cancel()

	plan, err := query.Sessions.Translate(filters)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	items, err := s.run(ctx, plan)
	s.opts.Metrics.ObserveQuery("sessions", time.Since(start))
	return items, err
}

func (s *sessionService) ListBeforeExcludingType(ctx context.Context, excludedType, before string) ([]*domain.Session, error) {
	ctx, cancel := s.opts.context(ctx)
	defer cancel()

	byType, err := query.Sessions.Translate([]domain.QueryFilter{{Field: "TYPE", Operator: "NE", Value: excludedType}})
	if err != nil {
		return nil, err
	}
	byTime, err := query.Sessions.Translate([]domain.QueryFilter{{Field: "START_TIME", Operator: "LT", Value: before}})
	if err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() { s.opts.Metrics.ObserveQuery("sessions", time.Since(start)) }()
	keep := make(map[string]bool)
	for sess, err := range s.sessionRepo.Query(ctx, byType) {
		if err != nil {
			return nil, fmt.Errorf("query sessions by type: %w", err)
		}
		keep[sess.ID] = true
	}
	out := make([]*domain.Session, 0)
	for sess, err := range s.sessionRepo.Query(ctx, byTime) {
		if err != nil {
			return nil, fmt.Errorf("query sessions by start time: %w", err)
		}
		if keep[sess.ID] {
			out = append(out, sess)
		}
	}
	return out, nil
}

func (s *sessionService) run(ctx context.Context, plan *domain.QueryPlan) ([]*domain.Session, error) {
	out := make([]*domain.Session, 0)
	for sess, err := range s.sessionRepo.Query(ctx, plan) {
		if err != nil {
			return nil, fmt.Errorf("query sessions: %w", err)
		}
		out = append(out, sess)
	}
	return out, nil
}

func (s *sessionService) GetFeaturedSpeaker(ctx context.Context) (string, error) {
	msg, _ := s.cache.Get(domain.CacheKeyFeaturedSpeaker)
	return msg, nil
}

func (s *sessionService) SetFeaturedSpeaker(ctx context.Context, speakerID, conferenceID string) error {
	ctx, cancel := s.opts.context(ctx)
	defer cancel()

	speaker, err := s.speakerRepo.GetByID(ctx, speakerID)
	if err != nil {
		return fmt.Errorf("get speaker: %w", err)
	}
	sessions, err := s.speakerSessions(ctx, speakerID, conferenceID)
	if err != nil {
		return err
	}
	if len(sessions) < featuredSpeakerMinSessions {
		return nil
	}
	titles := make([]string, 0, len(sessions))
	for _, sess := range sessions {
		titles = append(titles, sess.Title)
	}
	s.cache.Set(domain.CacheKeyFeaturedSpeaker, fmt.Sprintf(featuredSpeakerTemplate, speaker.Name, strings.Join(titles, ", ")))
	return nil
}

func (s *sessionService) GetWishlist(ctx context.Context, caller domain.Identity) ([]*domain.Session, error) {
	ctx, cancel := s.opts.context(ctx)
	defer cancel()

	profile, err := ensureProfile(ctx, s.profileRepo, caller, s.opts.Now())
	if err != nil {
		return nil, err
	}
	items, err := s.sessionRepo.ListByIDs(ctx, profile.SessionKeysWishlist)
	if err != nil {
		return nil, fmt.Errorf("list wishlist sessions: %w", err)
	}
	return items, nil
}

func (s *sessionService) AddToWishlist(ctx context.Context, caller domain.Identity, sessionID string) (bool, error) {
	ctx, cancel := s.opts.context(ctx)
	defer cancel()

	if _, err := s.sessionRepo.GetByID(ctx, sessionID); err != nil {
		return false, fmt.Errorf("get session: %w", err)
	}
	if err := s.updateWishlist(ctx, caller, func(p *domain.Profile) (bool, error) {
		return p.AddToWishlist(sessionID), nil
	}); err != nil {
		return false, err
	}
	return true, nil
}

func (s *sessionService) RemoveFromWishlist(ctx context.Context, caller domain.Identity, sessionID string) (bool, error) {
	ctx, cancel := s.opts.context(ctx)
	defer cancel()

	var removed bool
	err := s.updateWishlist(ctx, caller, func(p *domain.Profile) (bool, error) {
		removed = p.RemoveFromWishlist(sessionID)
		return removed, nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

func (s *sessionService) updateWishlist(ctx context.Context, caller domain.Identity, fn domain.ProfileMutation) error {
	if _, err := ensureProfile(ctx, s.profileRepo, caller, s.opts.Now()); err != nil {
		return err
	}
	err := s.opts.retryTx(ctx, "wishlist", func() error {
		_, err := s.profileRepo.Update(ctx, caller.UserID, fn)
		return err
	})
	if err != nil {
		return fmt.Errorf("update wishlist: %w", err)
	}
	return nil
}
