package scheduler

import (
	"context"

	"go.uber.org/atomic"

	"breakd/internal/models"
)

type BadgeSinkInterface interface {
	PublishBadge(badge models.Badge)
}

type timeRemainingSource interface {
	TimeRemaining(ctx context.Context) models.TimeRemainingResponse
	OnChange(fn func())
}

// BadgePresenter keeps the current badge and pushes it to the sink whenever
// it changes. It refreshes on every scheduler change and on each poll tick.
type BadgePresenter struct {
	source timeRemainingSource
	sink   BadgeSinkInterface
	last   atomic.Value
}

func NewBadgePresenter(source SchedulerInterface, sink BadgeSinkInterface) *BadgePresenter {
	p := &BadgePresenter{source: source, sink: sink}
	source.OnChange(func() {
		p.Refresh(context.Background())
	})
	return p
}

// Refresh recomputes the badge and publishes it when the text or color moved.
func (p *BadgePresenter) Refresh(ctx context.Context) models.Badge {
	badge := ProjectBadge(p.source.TimeRemaining(ctx))
	prev, seen := p.last.Swap(badge).(models.Badge)
	if !seen || prev != badge {
		p.sink.PublishBadge(badge)
	}
	return badge
}

// Badge returns the last computed badge, computing one on first use.
func (p *BadgePresenter) Badge(ctx context.Context) models.Badge {
	if b, ok := p.last.Load().(models.Badge); ok {
		return b
	}
	return p.Refresh(ctx)
}
