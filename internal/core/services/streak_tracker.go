package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/domain"
	portsrepo "github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/ports/repositories"
	portssvc "github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/ports/services"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/dto"
)

// streakTracker computes calendar-day streak transitions in the user's
// fixed IANA timezone. A server in UTC and a user at UTC-5 disagree about
// "today" near midnight, so server-local time is never used here.
type streakTracker struct {
	BaseService
	userRepo        portsrepo.UserWriter
	defaultTimezone string
}

// NewStreakTracker creates a streak tracker persisting through the given
// user repository. defaultTimezone is used when the user has none set.
func NewStreakTracker(userRepo portsrepo.UserWriter, defaultTimezone string) portssvc.StreakSvc {
	return &streakTracker{userRepo: userRepo, defaultTimezone: defaultTimezone}
}

var _ portssvc.StreakSvc = (*streakTracker)(nil)

// civilDate reduces an instant to its calendar date in loc, represented as
// midnight UTC so dates compare with Equal and differ by exact multiples of
// 24h.
func civilDate(instant time.Time, loc *time.Location) time.Time {
	local := instant.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// RegisterActivity applies the streak transition for a completed transaction
// at effectiveInstant and persists the new state.
func (s *streakTracker) RegisterActivity(ctx context.Context, user *domain.User, effectiveInstant time.Time) (*dto.StreakFeedback, error) {
	tzName := user.Timezone
	if tzName == "" {
		tzName = s.defaultTimezone
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		s.LogWarn(ctx, "Unknown user timezone, falling back to UTC", slog.String("timezone", tzName))
		loc = time.UTC
	}

	today := civilDate(effectiveInstant, loc)

	if user.LastActivityDate != nil && user.LastActivityDate.Equal(today) {
		// Same day, already counted.
		return &dto.StreakFeedback{
			Current:  user.CurrentStreak,
			Extended: false,
			Message:  fmt.Sprintf("%d-day streak going", user.CurrentStreak),
		}, nil
	}

	newStreak := 1
	message := "New streak started"
	if user.LastActivityDate != nil && today.Sub(*user.LastActivityDate) == 24*time.Hour {
		newStreak = user.CurrentStreak + 1
		message = fmt.Sprintf("Streak extended to %d days", newStreak)
	}

	now := time.Now().UTC()
	if err := s.userRepo.UpdateStreak(ctx, user.UserID, newStreak, today, now); err != nil {
		s.LogError(ctx, err, "Failed to persist streak update", slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("failed to persist streak update: %w", err)
	}

	user.CurrentStreak = newStreak
	user.LastActivityDate = &today

	return &dto.StreakFeedback{
		Current:  newStreak,
		Extended: true,
		Message:  message,
	}, nil
}
