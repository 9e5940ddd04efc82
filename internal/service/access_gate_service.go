package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/fornecelist/backend/internal/domain"
	"github.com/fornecelist/backend/internal/repository/ports"
)

// Feature keys known to the gate. Suppliers are gated by the externally
// rotated allowed subset; articles by latest-published-per-category.
const (
	FeatureSuppliers = "suppliers"
	FeatureArticles  = "articles"
)

var genericLockedMessage = "Assine para desbloquear este conteúdo."

// AccessGateService is the read-side decision point for what a user may see
// in full versus locked/teaser form. It never mutates trial state and caches
// nothing across calls.
type AccessGateService struct {
	trials   ports.TrialRepository
	rules    ports.FeatureRuleRepository
	users    ports.UserRepository
	articles ports.ArticleRepository
	now      func() time.Time
}

func NewAccessGateService(
	trials ports.TrialRepository,
	rules ports.FeatureRuleRepository,
	users ports.UserRepository,
	articles ports.ArticleRepository,
) *AccessGateService {
	return &AccessGateService{
		trials:   trials,
		rules:    rules,
		users:    users,
		articles: articles,
		now:      time.Now,
	}
}

// CheckAccess resolves the access tier for one user and one feature.
// Any lookup failure fails closed: the caller gets `none` with the rule's
// locked message when available, a generic one otherwise.
func (s *AccessGateService) CheckAccess(ctx context.Context, userID uuid.UUID, featureKey string) domain.AccessDecision {
	rule, err := s.rules.FindByKey(ctx, featureKey)
	if err != nil {
		log.Printf("access gate: rule lookup for %q: %v", featureKey, err)
		return deniedDecision(nil)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		log.Printf("access gate: user lookup %s: %v", userID, err)
		return deniedDecision(rule.NonSubscriberLockedMessage)
	}
	if user.SubscriptionActive {
		return domain.AccessDecision{Access: domain.AccessFull}
	}

	trial, err := s.trials.FindByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("access gate: trial lookup %s: %v", userID, err)
			return deniedDecision(rule.NonSubscriberLockedMessage)
		}
		// No trial row is a normal state, not a lookup failure.
		trial = &domain.TrialState{UserID: userID, Status: domain.TrialStatusNotStarted}
	}

	switch s.effectiveStatus(trial) {
	case domain.TrialStatusConverted:
		return domain.AccessDecision{Access: domain.AccessFull}
	case domain.TrialStatusActive:
		return s.applyLevel(ctx, rule.TrialAccessLevel, rule.TrialLimitValue, rule.TrialLockedMessage, featureKey, trial)
	default:
		// Expired or never started: the non-subscriber rule wins regardless
		// of what the trial's own level would say.
		return s.applyLevel(ctx, rule.NonSubscriberAccessLevel, rule.NonSubscriberLimitValue, rule.NonSubscriberLockedMessage, featureKey, trial)
	}
}

// effectiveStatus folds elapsed time into the stored status: an `active`
// trial whose window has passed is treated as expired even if the external
// rotation job has not flipped it yet.
func (s *AccessGateService) effectiveStatus(trial *domain.TrialState) domain.TrialStatus {
	if trial.Status == domain.TrialStatusActive && trial.EndDate != nil && trial.EndDate.Before(s.now()) {
		return domain.TrialStatusExpired
	}
	return trial.Status
}

func (s *AccessGateService) applyLevel(
	ctx context.Context,
	level domain.AccessLevel,
	limit *int,
	message *string,
	featureKey string,
	trial *domain.TrialState,
) domain.AccessDecision {
	switch level {
	case domain.AccessFull:
		return domain.AccessDecision{Access: domain.AccessFull}
	case domain.AccessLimitedCount:
		allowed := s.allowedIDs(ctx, featureKey, trial)
		return domain.AccessDecision{
			Access:     domain.AccessLimitedCount,
			Limit:      limit,
			Message:    lockedMessage(message),
			AllowedIDs: allowed,
		}
	case domain.AccessLimitedBlurred:
		return domain.AccessDecision{Access: domain.AccessLimitedBlurred, Message: lockedMessage(message)}
	default:
		return domain.AccessDecision{Access: domain.AccessNone, Message: lockedMessage(message)}
	}
}

// allowedIDs computes the limited_count exception set: the most recently
// published article per category for category-partitioned content, or the
// externally rotated supplier subset otherwise. Lookup failure degrades to an
// empty set (everything locked), never to an error.
func (s *AccessGateService) allowedIDs(ctx context.Context, featureKey string, trial *domain.TrialState) []uuid.UUID {
	if featureKey == FeatureArticles {
		ids, err := s.articles.LatestPerCategory(ctx)
		if err != nil {
			log.Printf("access gate: latest articles per category: %v", err)
			return nil
		}
		return ids
	}
	return trial.AllowedEntityIDs
}

func deniedDecision(message *string) domain.AccessDecision {
	return domain.AccessDecision{Access: domain.AccessNone, Message: lockedMessage(message)}
}

func lockedMessage(message *string) *string {
	if message != nil && *message != "" {
		return message
	}
	return &genericLockedMessage
}

// SanitizeSupplierForAccess strips contact and commercial detail from a
// locked supplier so it can still render as a teaser.
func SanitizeSupplierForAccess(supplier domain.Supplier, locked bool, message *string) domain.Supplier {
	supplier.Locked = locked
	if !locked {
		return supplier
	}
	supplier.LockedMessage = message
	supplier.Instagram = nil
	supplier.Whatsapp = nil
	supplier.Website = nil
	supplier.MinOrder = nil
	supplier.ShippingMethods = nil
	supplier.PaymentMethods = nil
	if len(supplier.Images) > 1 {
		supplier.Images = supplier.Images[:1]
	}
	return supplier
}

// SanitizeArticleForAccess keeps title/excerpt visible on a locked article
// and withholds the body.
func SanitizeArticleForAccess(article domain.Article, locked bool, message *string) domain.Article {
	article.Locked = locked
	if !locked {
		return article
	}
	article.LockedMessage = message
	article.Content = nil
	return article
}
