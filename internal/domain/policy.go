package domain

// Authorization policy: one auditable table of who may touch what, instead of
// per-role branches scattered through handlers.
//
// Requests are evaluated in a fixed order -- role, is_professional, lifecycle
// event, then plain profile fields -- so the first rejected item is stable
// and a rejection always aborts the whole mutation.

// NoEvent marks a mutation without a lifecycle transition.
const NoEvent Event = ""

// AuthorizeUpdate decides whether an actor may apply the requested changes
// (and optional lifecycle event) to the target account.
func AuthorizeUpdate(actorRole, actorID, targetID string, c ProfileChanges, event Event) error {
	isSelf := actorID != "" && actorID == targetID

	if c.Role != nil && actorRole != string(RoleAdmin) {
		return ErrFieldForbidden(FieldRole)
	}
	if c.IsProfessional != nil && RoleRank(actorRole) < RoleRank(string(RoleManager)) {
		return ErrFieldForbidden(FieldIsProfessional)
	}
	if event != NoEvent {
		if err := authorizeEvent(actorRole, isSelf, event); err != nil {
			return err
		}
	}
	if fields := c.ProfileFieldNames(); len(fields) > 0 {
		if !isSelf && RoleRank(actorRole) < RoleRank(string(RoleManager)) {
			return ErrFieldForbidden(fields[0])
		}
	}
	return nil
}

// AuthorizeRead gates the read path: an account owner may read their own
// record; managers and admins may read any record.
func AuthorizeRead(actorRole, actorID, targetID string) error {
	if actorID != "" && actorID == targetID {
		return nil
	}
	if RoleRank(actorRole) >= RoleRank(string(RoleManager)) {
		return nil
	}
	return ErrForbidden()
}

func authorizeEvent(actorRole string, isSelf bool, event Event) error {
	switch event {
	case EventVerify:
		// Verification is proven by token possession, never by actor
		// identity; it has its own token-checked path and is rejected here
		// for everyone.
		return ErrEventForbidden(string(event))
	case EventLock, EventUnlock:
		if RoleRank(actorRole) >= RoleRank(string(RoleManager)) {
			return nil
		}
	case EventDelete:
		// Self-delete stays available even to locked accounts; only admins
		// may delete somebody else.
		if isSelf || actorRole == string(RoleAdmin) {
			return nil
		}
	}
	return ErrEventForbidden(string(event))
}
