package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/metrics"
	"conferencecentral/internal/query"
)

const (
	announcementTemplate = "Last chance to attend! The following conferences are nearly sold out: %s"
	// nearlySoldOutSeats is the highest seat count still announced as nearly sold out.
	nearlySoldOutSeats = 5
)

type conferenceService struct {
	conferenceRepo   domain.ConferenceRepository
	profileRepo      domain.ProfileRepository
	registrationRepo domain.RegistrationRepository
	cache            domain.Cache
	tasks            domain.TaskDispatcher
	opts             Options
}

// NewConferenceService creates a ConferenceService with the given repositories and collaborators.
func NewConferenceService(
	conferenceRepo domain.ConferenceRepository,
	profileRepo domain.ProfileRepository,
	registrationRepo domain.RegistrationRepository,
	cache domain.Cache,
	tasks domain.TaskDispatcher,
	opts Options,
) domain.ConferenceService {
	return &conferenceService{
		conferenceRepo:   conferenceRepo,
		profileRepo:      profileRepo,
		registrationRepo: registrationRepo,
		cache:            cache,
		tasks:            tasks,
		opts:             opts.withDefaults(),
	}
}

func (s *conferenceService) CreateConference(ctx context.Context, caller domain.Identity, c *domain.Conference) (*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := s.opts.context(ctx)
	defer cancel()

	profile, err := ensureProfile(ctx, s.profileRepo, caller, s.opts.Now())
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(c.Name) == "" {
		return nil, domain.InvalidInput("conference 'name' field required")
	}
	now := s.opts.Now()
	c.OrganizerUserID = profile.ID
	c.CreatedAt = now
	c.UpdatedAt = now
	if err := s.conferenceRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create conference: %w", err)
	}

	task := domain.Task{
		Name: domain.TaskSendConfirmationEmail,
		Params: map[string]string{
			domain.TaskParamEmail:          profile.MainEmail,
			domain.TaskParamConferenceInfo: conferenceSummary(c),
		},
	}
	if profile.MainEmail == "" {
		s.opts.Logger.Warn("no email on profile, skipping confirmation", "profile_id", profile.ID, "conference_id", c.ID)
	} else if err := s.tasks.Dispatch(ctx, task); err != nil {
		s.opts.Logger.Error("dispatch confirmation email", "conference_id", c.ID, "error", err)
	}
	s.refreshAfterSeatChange(ctx)

	return &domain.ConferenceWithOrganizer{Conference: c, OrganizerDisplayName: profile.DisplayName}, nil
}

// conferenceSummary is the plain-text description sent in the confirmation email.
func conferenceSummary(c *domain.Conference) string {
	var b strings.Builder
	b.WriteString(c.Name)
	if c.City != "" {
		fmt.Fprintf(&b, " in %s", c.City)
	}
	if c.StartDate != nil {
		fmt.Fprintf(&b, ", from %s", c.StartDate.Format(time.DateOnly))
		if c.EndDate != nil {
			fmt.Fprintf(&b, " to %s", c.EndDate.Format(time.DateOnly))
		}
	}
	if len(c.Topics) > 0 {
		fmt.Fprintf(&b, ". Topics: %s", strings.Join(c.Topics, ", "))
	}
	fmt.Fprintf(&b, ". Capacity: %d", c.MaxAttendees)
	return b.String()
}

func (s *conferenceService) UpdateConference(ctx context.Context, caller domain.Identity, conferenceID string, patch domain.ConferencePatch) (*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := s.opts.context(ctx)
	defer cancel()

	profile, err := ensureProfile(ctx, s.profileRepo, caller, s.opts.Now())
	if err != nil {
		return nil, err
	}
	var updated *domain.Conference
	err = s.opts.retryTx(ctx, "update_conference", func() error {
		var err error
		updated, err = s.conferenceRepo.Update(ctx, conferenceID, func(c *domain.Conference) error {
			if c.OrganizerUserID != profile.ID {
				return fmt.Errorf("%w: only the owner can update the conference", domain.ErrForbidden)
			}
			return patch(c)
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("update conference: %w", err)
	}
	s.refreshAfterSeatChange(ctx)
	return &domain.ConferenceWithOrganizer{Conference: updated, OrganizerDisplayName: profile.DisplayName}, nil
}

func (s *conferenceService) GetConference(ctx context.Context, conferenceID string) (*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := s.opts.context(ctx)
	defer cancel()

	c, err := s.conferenceRepo.GetByID(ctx, conferenceID)
	if err != nil {
		return nil, fmt.Errorf("get conference: %w", err)
	}
	out, err := s.withOrganizers(ctx, []*domain.Conference{c})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (s *conferenceService) ListCreated(ctx context.Context, caller domain.Identity) ([]*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := s.opts.context(ctx)
	defer cancel()

	profile, err := ensureProfile(ctx, s.profileRepo, caller, s.opts.Now())
	if err != nil {
		return nil, err
	}
	items, err := s.conferenceRepo.ListByOrganizer(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("list conferences by organizer: %w", err)
	}
	out := make([]*domain.ConferenceWithOrganizer, 0, len(items))
	for _, c := range items {
		out = append(out, &domain.ConferenceWithOrganizer{Conference: c, OrganizerDisplayName: profile.DisplayName})
	}
	return out, nil
}

func (s *conferenceService) QueryConferences(ctx context.Context, filters []domain.QueryFilter) ([]*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := s.opts.context(ctx)
	defer cancel()

	plan, err := query.Conferences.Translate(filters)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	items := make([]*domain.Conference, 0)
	for c, err := range s.conferenceRepo.Query(ctx, plan) {
		if err != nil {
			return nil, fmt.Errorf("query conferences: %w", err)
		}
		items = append(items, c)
	}
	s.opts.Metrics.ObserveQuery("conferences", time.Since(start))
	return s.withOrganizers(ctx, items)
}

func (s *conferenceService) ListToAttend(ctx context.Context, caller domain.Identity) ([]*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := s.opts.context(ctx)
	defer cancel()

	profile, err := ensureProfile(ctx, s.profileRepo, caller, s.opts.Now())
	if err != nil {
		return nil, err
	}
	items, err := s.conferenceRepo.ListByIDs(ctx, profile.ConferenceKeysToAttend)
	if err != nil {
		return nil, fmt.Errorf("list conferences to attend: %w", err)
	}
	return s.withOrganizers(ctx, items)
}

// withOrganizers joins each conference with its organizer's display name,
// fetching the distinct organizer profiles in one call.
func (s *conferenceService) withOrganizers(ctx context.Context, items []*domain.Conference) ([]*domain.ConferenceWithOrganizer, error) {
	ids := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, c := range items {
		if _, ok := seen[c.OrganizerUserID]; ok {
			continue
		}
		seen[c.OrganizerUserID] = struct{}{}
		ids = append(ids, c.OrganizerUserID)
	}
	names := make(map[string]string, len(ids))
	if len(ids) > 0 {
		profiles, err := s.profileRepo.ListByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("list organizers: %w", err)
		}
		for _, p := range profiles {
			names[p.ID] = p.DisplayName
		}
	}
	out := make([]*domain.ConferenceWithOrganizer, 0, len(items))
	for _, c := range items {
		out = append(out, &domain.ConferenceWithOrganizer{Conference: c, OrganizerDisplayName: names[c.OrganizerUserID]})
	}
	return out, nil
}

func (s *conferenceService) Register(ctx context.Context, caller domain.Identity, conferenceID string) (bool, error) {
	_, err := s.changeRegistration(ctx, caller, conferenceID, "register", func(p *domain.Profile, c *domain.Conference) (bool, error) {
		if err := p.Register(c); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *conferenceService) Unregister(ctx context.Context, caller domain.Identity, conferenceID string) (bool, error) {
	return s.changeRegistration(ctx, caller, conferenceID, "unregister", func(p *domain.Profile, c *domain.Conference) (bool, error) {
		return p.Unregister(c), nil
	})
}

// changeRegistration runs fn inside the registration transaction, retrying
// commit conflicts, and reports whether the records changed.
func (s *conferenceService) changeRegistration(ctx context.Context, caller domain.Identity, conferenceID, action string, fn domain.RegistrationMutation) (bool, error) {
	ctx, cancel := s.opts.context(ctx)
	defer cancel()

	profile, err := ensureProfile(ctx, s.profileRepo, caller, s.opts.Now())
	if err != nil {
		return false, err
	}
	var changed bool
	err = s.opts.retryTx(ctx, action, func() error {
		changed = false
		return s.registrationRepo.Apply(ctx, profile.ID, conferenceID, func(p *domain.Profile, c *domain.Conference) (bool, error) {
			ok, err := fn(p, c)
			changed = ok && err == nil
			return ok, err
		})
	})
	s.opts.Metrics.RecordRegistration(action, registrationOutcome(changed, err))
	if err != nil {
		return false, fmt.Errorf("%s: %w", action, err)
	}
	if changed {
		s.refreshAfterSeatChange(ctx)
	}
	return changed, nil
}

func registrationOutcome(changed bool, err error) string {
	switch {
	case err == nil && changed:
		return metrics.OutcomeOK
	case err == nil:
		return metrics.OutcomeNoop
	case errors.Is(err, domain.ErrConflict):
		return metrics.OutcomeConflict
	case errors.Is(err, domain.ErrTransient):
		return metrics.OutcomeTransient
	default:
		return metrics.OutcomeError
	}
}

func (s *conferenceService) GetAnnouncement(ctx context.Context) (string, error) {
	msg, _ := s.cache.Get(domain.CacheKeyAnnouncement)
	return msg, nil
}

// nearlySoldOut selects conferences with 0 < seatsAvailable <= nearlySoldOutSeats.
var nearlySoldOut = query.Conferences.MustTranslate(
	domain.QueryFilter{Field: "SEATS_AVAILABLE", Operator: "GT", Value: "0"},
	domain.QueryFilter{Field: "SEATS_AVAILABLE", Operator: "LTEQ", Value: fmt.Sprint(nearlySoldOutSeats)},
)

func (s *conferenceService) RefreshAnnouncement(ctx context.Context) (string, error) {
	var names []string
	for c, err := range s.conferenceRepo.Query(ctx, nearlySoldOut) {
		if err != nil {
			return "", fmt.Errorf("query nearly sold out conferences: %w", err)
		}
		names = append(names, c.Name)
	}
	if len(names) == 0 {
		s.cache.Delete(domain.CacheKeyAnnouncement)
		return "", nil
	}
	msg := fmt.Sprintf(announcementTemplate, strings.Join(names, ", "))
	s.cache.Set(domain.CacheKeyAnnouncement, msg)
	return msg, nil
}

// refreshAfterSeatChange recomputes the announcement; failures only leave it stale.
func (s *conferenceService) refreshAfterSeatChange(ctx context.Context) {
	if _, err := s.RefreshAnnouncement(ctx); err != nil {
		s.opts.Logger.Warn("refresh announcement", "error", err)
	}
}
