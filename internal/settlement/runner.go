package settlement

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/parlayline/platform/internal/domain"
	"github.com/parlayline/platform/internal/parlay"
)

// TopicSlipSettled receives one event per slip that reaches a terminal
// status.
const TopicSlipSettled = "sportsbook.slips.settled"

// SlipStore is the slice of slip persistence the runner needs.
type SlipStore interface {
	ListPending(ctx context.Context) ([]domain.Slip, error)

	// UpdateSettlement writes leg results and slip status as one atomic
	// update, so no reader ever observes a partially settled slip.
	UpdateSettlement(ctx context.Context, id uuid.UUID, bets []domain.Leg, status domain.SlipStatus) error
}

// ScoreSource supplies the finals snapshot for one sport. The stale flag
// reports that cached data outlived its TTL because a refetch failed.
type ScoreSource interface {
	Scores(ctx context.Context, sportKey string) (map[string]domain.FinalScore, time.Time, bool, error)
}

// EventPublisher publishes settlement events. infra.KafkaProducer
// satisfies this and no-ops when disabled.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// Summary aggregates the counters of one settlement run.
type Summary struct {
	Slips        int `json:"slips"`
	Settled      int `json:"settled"`
	Won          int `json:"won"`
	Lost         int `json:"lost"`
	StillPending int `json:"still_pending"`
	SkippedLegs  int `json:"skipped_legs"`
	Failed       int `json:"failed"`
}

// Runner drives one batch settlement pass over every pending slip.
type Runner struct {
	slips     SlipStore
	scores    ScoreSource
	publisher EventPublisher
	logger    *slog.Logger
	sportKeys []string
	workers   int
}

// NewRunner creates a settlement runner. workers bounds how many slips
// settle concurrently; slips are independent so ordering is irrelevant.
func NewRunner(slips SlipStore, scores ScoreSource, publisher EventPublisher, logger *slog.Logger, sportKeys []string, workers int) *Runner {
	if workers <= 0 {
		workers = 4
	}
	return &Runner{
		slips:     slips,
		scores:    scores,
		publisher: publisher,
		logger:    logger,
		sportKeys: sportKeys,
		workers:   workers,
	}
}

// Run loads the finals snapshot, resolves every pending slip against it,
// and persists each fully-resolved slip with a single store update.
// Individual malformed legs are skipped and reported; the run still
// succeeds. It fails only when scores are unavailable for every sport —
// provider unreachable with nothing cached to fall back to.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	finals, err := r.loadFinals(ctx)
	if err != nil {
		return nil, err
	}

	slips, err := r.slips.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending slips: %w", err)
	}

	summary := &Summary{Slips: len(slips)}
	if len(slips) == 0 {
		return summary, nil
	}

	var settled, won, lost, pending, skipped, failed atomic.Int64

	pool, err := ants.NewPool(r.workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, slip := range slips {
		slip := slip
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()

			res := ResolveSlip(slip, finals)
			for _, sk := range res.Skipped {
				r.logger.Warn("skipping unevaluable leg",
					"slip_id", slip.ID, "leg_index", sk.Index, "reason", sk.Reason)
			}
			skipped.Add(int64(len(res.Skipped)))

			if !res.FullyResolved {
				pending.Add(1)
				return
			}

			if err := r.slips.UpdateSettlement(ctx, slip.ID, res.Slip.Bets, res.Slip.Status); err != nil {
				r.logger.Error("persist settlement failed", "slip_id", slip.ID, "error", err)
				failed.Add(1)
				return
			}

			settled.Add(1)
			if res.Slip.Status == domain.SlipWin {
				won.Add(1)
			} else {
				lost.Add(1)
			}

			r.publishSettled(ctx, res.Slip)
		}); err != nil {
			wg.Done()
			return nil, fmt.Errorf("submit slip to worker pool: %w", err)
		}
	}
	wg.Wait()

	summary.Settled = int(settled.Load())
	summary.Won = int(won.Load())
	summary.Lost = int(lost.Load())
	summary.StillPending = int(pending.Load())
	summary.SkippedLegs = int(skipped.Load())
	summary.Failed = int(failed.Load())

	r.logger.Info("settlement pass complete",
		"slips", summary.Slips,
		"settled", summary.Settled,
		"won", summary.Won,
		"lost", summary.Lost,
		"still_pending", summary.StillPending,
		"skipped_legs", summary.SkippedLegs,
		"failed", summary.Failed,
	)
	return summary, nil
}

// loadFinals merges finals snapshots across every configured sport.
// A sport whose fetch hard-fails is logged and skipped; its games simply
// stay pending. Only a whiff across all sports aborts the run.
func (r *Runner) loadFinals(ctx context.Context) (map[string]domain.FinalScore, error) {
	finals := make(map[string]domain.FinalScore)
	hardFailures := 0

	for _, sport := range r.sportKeys {
		games, fetchedAt, stale, err := r.scores.Scores(ctx, sport)
		if err != nil {
			r.logger.Error("scores unavailable", "sport", sport, "error", err)
			hardFailures++
			continue
		}
		if stale {
			r.logger.Warn("settling against stale scores", "sport", sport, "fetched_at", fetchedAt)
		}
		for id, g := range games {
			finals[id] = g
		}
	}

	if len(r.sportKeys) > 0 && hardFailures == len(r.sportKeys) {
		return nil, fmt.Errorf("scores unavailable for all %d sports", hardFailures)
	}
	return finals, nil
}

func (r *Runner) publishSettled(ctx context.Context, slip domain.Slip) {
	if r.publisher == nil {
		return
	}

	payout := 0.0
	if slip.Status == domain.SlipWin {
		if combined, err := parlay.CombinedDecimalOdds(slip.Bets); err == nil {
			payout = parlay.TotalPayout(slip.WagerAmount, combined)
		}
	}

	value, _ := json.Marshal(map[string]interface{}{
		"slip_id":    slip.ID.String(),
		"user_id":    slip.UserID,
		"status":     slip.Status,
		"wager":      slip.WagerAmount,
		"payout":     payout,
		"settled_at": time.Now().UTC(),
	})
	if err := r.publisher.Publish(ctx, TopicSlipSettled, []byte(slip.ID.String()), value); err != nil {
		r.logger.Warn("publish settlement event failed", "slip_id", slip.ID, "error", err)
	}
}
