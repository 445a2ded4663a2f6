package profile

import (
	"context"
	"strings"

	"github.com/DHJariwala/is601-user-management/internal/domain"
)

// ApplyMutation is the single entry point for account mutations.
//
// Order of checks: load target, authorization, validation, email uniqueness,
// lifecycle transition, merge + persist. Any rejection aborts the whole
// request; nothing is ever partially applied. A lost optimistic write is
// retried from the top (re-read, re-check, re-apply) up to the configured
// budget, after which the caller sees a conflict.
func (s *Service) ApplyMutation(
	ctx context.Context,
	actor Actor,
	targetID string,
	changes domain.ProfileChanges,
	event domain.Event,
) (domain.User, error) {
	const action = "profile.apply_mutation"

	actor.ID = strings.TrimSpace(actor.ID)
	actor.Role = strings.TrimSpace(actor.Role)
	targetID = strings.TrimSpace(targetID)

	audit := func(result string, err error, extra map[string]string) {
		fields := map[string]string{
			"actor_id":   actor.ID,
			"actor_role": actor.Role,
			"target_id":  targetID,
			"result":     result,
		}
		if event != domain.NoEvent {
			fields["event"] = string(event)
		}
		if err != nil {
			fields["error_code"] = domainCode(err)
		}
		for k, v := range extra {
			fields[k] = v
		}
		s.audit(action, fields)
	}

	if targetID == "" {
		err := domain.ErrMissingField("user_id")
		audit("error", err, nil)
		return domain.User{}, err
	}
	if domain.RoleRank(actor.Role) == 0 {
		err := domain.ErrForbidden()
		audit("error", err, nil)
		return domain.User{}, err
	}
	if event != domain.NoEvent && !domain.IsValidEvent(string(event)) {
		err := domain.ErrInvalidField("event", "unknown event")
		audit("error", err, nil)
		return domain.User{}, err
	}

	if changes.Email != nil {
		e := normalizeEmail(*changes.Email)
		changes.Email = &e
	}

	var lastErr error
	for attempt := 0; attempt <= s.writeRetries; attempt++ {
		saved, err := s.applyOnce(ctx, actor, targetID, changes, event)
		if err == nil {
			audit("success", nil, map[string]string{"state": string(saved.State)})
			return saved.Redacted(), nil
		}
		if domain.Is(err, "version_conflict") {
			lastErr = err
			continue
		}
		audit("error", err, nil)
		return domain.User{}, err
	}

	audit("error", lastErr, map[string]string{"retries_exhausted": "true"})
	return domain.User{}, lastErr
}

// applyOnce runs one full read-check-write cycle against a single observed
// version of the record.
func (s *Service) applyOnce(
	ctx context.Context,
	actor Actor,
	targetID string,
	changes domain.ProfileChanges,
	event domain.Event,
) (domain.User, error) {
	current, err := s.loadTarget(ctx, targetID)
	if err != nil {
		return domain.User{}, err
	}

	if err := domain.AuthorizeUpdate(actor.Role, actor.ID, targetID, changes, event); err != nil {
		return domain.User{}, err
	}
	if err := domain.Validate(changes); err != nil {
		return domain.User{}, err
	}
	if changes.Email != nil {
		if err := s.checkEmailFree(ctx, *changes.Email, targetID); err != nil {
			return domain.User{}, err
		}
	}

	next := current
	var nextState domain.State
	if event != domain.NoEvent {
		nextState, err = domain.Transition(current.State, event)
		if err != nil {
			return domain.User{}, err
		}
	}

	changed := changes.ApplyTo(&next)

	if event != domain.NoEvent {
		next.State = nextState
		changed = append(changed, "state")
		// Leaving pending invalidates the single-use verification token.
		if current.State == domain.StatePending {
			next.VerifyToken = ""
		}
		if nextState == domain.StateDeleted {
			at := s.now()
			next.DeletedAt = &at
		}
	}

	s.bumpUpdatedAt(&next)

	saved, err := s.users.Save(ctx, next, current.Version)
	if err != nil {
		return domain.User{}, err
	}

	s.notifyChanged(ctx, saved, changed)
	return saved, nil
}

// notifyChanged emits a profile-changed event when the mutation touched
// state or role. Fire-and-forget: a publish failure never fails the
// mutation, it only shows up in the audit stream.
func (s *Service) notifyChanged(ctx context.Context, u domain.User, changed []string) {
	significant := false
	for _, f := range changed {
		if f == "state" || f == domain.FieldRole {
			significant = true
			break
		}
	}
	if !significant || s.pub == nil {
		return
	}

	err := s.pub.PublishProfileChanged(ctx, ProfileChangedEvent{
		AccountID:     u.ID,
		ChangedFields: changed,
		NewState:      string(u.State),
	})
	if err != nil {
		s.audit("profile.changed_event", map[string]string{
			"target_id":  u.ID,
			"result":     "publish_failed",
			"error_code": domainCode(err),
		})
	}
}

// ----- convenience wrappers over ApplyMutation -----

func (s *Service) Lock(ctx context.Context, actor Actor, targetID string) (domain.User, error) {
	return s.ApplyMutation(ctx, actor, targetID, domain.ProfileChanges{}, domain.EventLock)
}

func (s *Service) Unlock(ctx context.Context, actor Actor, targetID string) (domain.User, error) {
	return s.ApplyMutation(ctx, actor, targetID, domain.ProfileChanges{}, domain.EventUnlock)
}

func (s *Service) Delete(ctx context.Context, actor Actor, targetID string) error {
	_, err := s.ApplyMutation(ctx, actor, targetID, domain.ProfileChanges{}, domain.EventDelete)
	return err
}

func (s *Service) SetRole(ctx context.Context, actor Actor, targetID, role string) (domain.User, error) {
	return s.ApplyMutation(ctx, actor, targetID, domain.ProfileChanges{Role: &role}, domain.NoEvent)
}

func (s *Service) SetProfessionalStatus(ctx context.Context, actor Actor, targetID string, professional bool) (domain.User, error) {
	return s.ApplyMutation(ctx, actor, targetID, domain.ProfileChanges{IsProfessional: &professional}, domain.NoEvent)
}
