package memory

import (
	"context"
	"log"

	"github.com/DHJariwala/is601-user-management/internal/application/profile"
)

type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (p *NoopPublisher) PublishProfileChanged(ctx context.Context, evt profile.ProfileChangedEvent) error {
	log.Printf("[noop-pub] profile changed: account_id=%s fields=%v state=%s", evt.AccountID, evt.ChangedFields, evt.NewState)
	return nil
}

func (p *NoopPublisher) PublishVerifyEmail(ctx context.Context, evt profile.VerifyEmailEvent) error {
	log.Printf("[noop-pub] verify email: user_id=%s email=%s url=%s", evt.UserID, evt.Email, evt.URL)
	return nil
}
