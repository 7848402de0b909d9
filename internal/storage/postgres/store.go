package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stakeScope/internal/model"
)

// Store provides Postgres persistence for the materialized views.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UpsertPositions inserts or updates the position table.
func (s *Store) UpsertPositions(ctx context.Context, positions []*model.Position) error {
	if len(positions) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, p := range positions {
		batch.Queue(`
			INSERT INTO positions (
				position_id, expiry_ts, validator, owner, net_deposited, stake_weight, active, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
			ON CONFLICT (position_id)
			DO UPDATE SET
				expiry_ts = EXCLUDED.expiry_ts,
				validator = EXCLUDED.validator,
				owner = EXCLUDED.owner,
				net_deposited = EXCLUDED.net_deposited,
				stake_weight = EXCLUDED.stake_weight,
				active = EXCLUDED.active,
				updated_at = now()
		`,
			int64(p.ID),
			int64(p.Expiry),
			p.Validator,
			p.Owner,
			p.NetDeposited().String(),
			p.StakeWeight().String(),
			p.Active(),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range positions {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceOwnerSummaries swaps in a freshly aggregated owner ranking. The
// table is replaced wholesale inside one transaction so stale owners never
// linger after a full withdrawal.
func (s *Store) ReplaceOwnerSummaries(ctx context.Context, summaries []model.OwnerSummary) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM owner_summaries`); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, summary := range summaries {
		batch.Queue(`
			INSERT INTO owner_summaries (
				rank, owner, total_staked, total_stake_weight, num_positions,
				earliest_unlock_ts, latest_unlock_ts, share_pct, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		`,
			summary.Rank,
			summary.Owner,
			summary.TotalStaked.String(),
			summary.TotalStakeWeight.String(),
			summary.NumPositions,
			int64(summary.EarliestUnlock),
			int64(summary.LatestUnlock),
			summary.Share.String(),
		)
	}

	br := tx.SendBatch(ctx, batch)
	for range summaries {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return err
		}
	}
	if err := br.Close(); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// UpsertFlowSamples inserts or updates the net-flow series keyed by
// (tx hash, log index).
func (s *Store) UpsertFlowSamples(ctx context.Context, flows []model.NetFlowSample) error {
	if len(flows) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, sample := range flows {
		batch.Queue(`
			INSERT INTO net_flows (
				tx_hash, log_index, block_number, ts, event, amount, net_flow, cumulative_net_staked
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (tx_hash, log_index)
			DO UPDATE SET
				block_number = EXCLUDED.block_number,
				ts = EXCLUDED.ts,
				event = EXCLUDED.event,
				amount = EXCLUDED.amount,
				net_flow = EXCLUDED.net_flow,
				cumulative_net_staked = EXCLUDED.cumulative_net_staked
		`,
			sample.TxHash,
			int64(sample.LogIndex),
			int64(sample.BlockNumber),
			int64(sample.Timestamp),
			string(sample.Kind),
			sample.Amount.String(),
			sample.NetFlow.String(),
			sample.Cumulative.String(),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range flows {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// SaveRun records the totals of a completed reconstruction run.
func (s *Store) SaveRun(ctx context.Context, totals model.RunTotals) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tracker_runs (
			total_deposited, total_withdrawn, total_rewards_issued,
			total_rewards_withdrawn, net_staked, num_deposits, num_withdrawals, finished_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, now())
	`,
		totals.TotalDeposited.String(),
		totals.TotalWithdrawn.String(),
		totals.TotalRewardsIssued.String(),
		totals.TotalRewardsWithdrawn.String(),
		totals.NetStaked.String(),
		totals.NumDeposits,
		totals.NumWithdrawals,
	)
	return err
}
