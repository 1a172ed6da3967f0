package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"eventfoundry-api/internal/common"
	"eventfoundry-api/internal/entity"
	"eventfoundry-api/internal/repo/repo_errors"
	"eventfoundry-api/pkg/postgres"
)

const eventColumns = "id, title, event_type, owner_user_id, forge_status, bidding_closes_at, shortlist_finalized_at, final_bidding_closes_at, winner_bid_id, created_at"

type EventRepo struct {
	*postgres.Postgres
}

func NewEventRepo(pgdb *postgres.Postgres) *EventRepo {
	return &EventRepo{pgdb}
}

func scanEventRow(row squirrel.RowScanner) (*entity.Event, error) {
	var event entity.Event
	var createdAt time.Time
	var biddingClosesAt, shortlistFinalizedAt, finalBiddingClosesAt sql.NullTime
	var winnerBidId uuid.NullUUID

	err := row.Scan(&event.Id, &event.Title, &event.EventType, &event.OwnerUserId, &event.ForgeStatus,
		&biddingClosesAt, &shortlistFinalizedAt, &finalBiddingClosesAt, &winnerBidId, &createdAt)
	if err != nil {
		return &event, err
	}

	event.CreatedAt = createdAt.Format(time.RFC3339)
	if biddingClosesAt.Valid {
		event.BiddingClosesAt = &biddingClosesAt.Time
	}
	if shortlistFinalizedAt.Valid {
		event.ShortlistFinalizedAt = &shortlistFinalizedAt.Time
	}
	if finalBiddingClosesAt.Valid {
		event.FinalBiddingClosesAt = &finalBiddingClosesAt.Time
	}
	if winnerBidId.Valid {
		event.WinnerBidId = &winnerBidId.UUID
	}

	return &event, nil
}

func (r *EventRepo) CreateEvent(ctx context.Context, input *entity.CreateEventInput) (uuid.UUID, error) {
	ownerUuid, err := uuid.Parse(input.OwnerUserId)
	if err != nil {
		return uuid.Nil, err
	}

	createEventSql, args, _ := r.SqlBuilder.
		Insert("events").
		Columns("title", "event_type", "owner_user_id", "forge_status", "bidding_closes_at").
		Values(input.Title, input.EventType, ownerUuid, common.OpenForBids, input.BiddingClosesAt).
		Suffix("RETURNING id").
		ToSql()

	var eventId uuid.UUID
	err = r.Database.QueryRow(createEventSql, args...).Scan(&eventId)
	if err != nil {
		return uuid.Nil, err
	}

	return eventId, nil
}

func (r *EventRepo) GetEventById(ctx context.Context, id string) (*entity.Event, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	getEventSql, args, _ := r.SqlBuilder.
		Select(eventColumns).
		From("events").
		Where("id = ?", uuidForm).
		ToSql()

	event, err := scanEventRow(r.Database.QueryRow(getEventSql, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return event, repo_errors.ErrNotFound
		}

		return event, err
	}

	return event, nil
}

func (r *EventRepo) GetExpiredBiddingEvents(ctx context.Context, now time.Time) ([]entity.Event, error) {
	getExpiredSql, args, _ := r.SqlBuilder.
		Select(eventColumns).
		From("events").
		Where(squirrel.Eq{"forge_status": []common.ForgeStatus{common.OpenForBids, common.CraftsmenBidding}}).
		Where("bidding_closes_at IS NOT NULL").
		Where("bidding_closes_at < ?", now).
		OrderBy("bidding_closes_at ASC").
		ToSql()

	rows, err := r.Database.Query(getExpiredSql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]entity.Event, 0)
	for rows.Next() {
		event, err := scanEventRow(rows)
		if err != nil {
			return events, err
		}
		events = append(events, *event)
	}
	if err = rows.Err(); err != nil {
		return events, err
	}

	return events, nil
}

func (r *EventRepo) UpdateForgeStatusIfCurrent(ctx context.Context, id uuid.UUID, from []common.ForgeStatus, to common.ForgeStatus) (bool, error) {
	updateStatusSql, args, _ := r.SqlBuilder.
		Update("events").
		Set("forge_status", to).
		Where("id = ?", id).
		Where(squirrel.Eq{"forge_status": from}).
		ToSql()

	result, err := r.Database.Exec(updateStatusSql, args...)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (r *EventRepo) SelectWinner(ctx context.Context, eventId uuid.UUID, bidId uuid.UUID, fromBidStatus common.BidStatus) error {
	tx, err := r.Database.Begin()
	if err != nil {
		return err
	}

	acceptBidSql, args, _ := r.SqlBuilder.
		Update("bids").
		Set("status", common.Accepted).
		Where("id = ?", bidId).
		Where("status = ?", fromBidStatus).
		RunWith(tx).
		ToSql()

	result, err := tx.Exec(acceptBidSql, args...)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}

	affected, err := result.RowsAffected()
	if err != nil || affected == 0 {
		if e := tx.Rollback(); e != nil {
			return e
		}
		if err != nil {
			return err
		}

		return repo_errors.ErrStaleStatus
	}

	markWinnerSql, args, _ := r.SqlBuilder.
		Update("events").
		Set("forge_status", common.WinnerSelected).
		Set("winner_bid_id", bidId).
		Where("id = ?", eventId).
		Where("forge_status = ?", common.ShortlistReview).
		RunWith(tx).
		ToSql()

	result, err = tx.Exec(markWinnerSql, args...)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}

	affected, err = result.RowsAffected()
	if err != nil || affected == 0 {
		if e := tx.Rollback(); e != nil {
			return e
		}
		if err != nil {
			return err
		}

		return repo_errors.ErrStaleStatus
	}

	if err = tx.Commit(); err != nil {
		return err
	}

	return nil
}
