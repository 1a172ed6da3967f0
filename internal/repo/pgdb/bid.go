package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"eventfoundry-api/internal/common"
	"eventfoundry-api/internal/entity"
	"eventfoundry-api/internal/repo/repo_errors"
	"eventfoundry-api/pkg/postgres"
)

const bidColumns = "id, event_id, vendor_id, craft_specialties, forge_items, subtotal, taxes, total_cost, craft_attachments, vendor_notes, estimated_forge_time, status, bid_round, is_final_bid, revised_from_bid_id, competitive_intelligence, shortlisted_at, rejected_at, created_at"

type BidRepo struct {
	*postgres.Postgres
}

func NewBidRepo(pgdb *postgres.Postgres) *BidRepo {
	return &BidRepo{pgdb}
}

func scanBidRow(row squirrel.RowScanner) (*entity.Bid, error) {
	var bid entity.Bid
	var createdAt time.Time
	var forgeItems, intelligence []byte
	var revisedFrom uuid.NullUUID
	var shortlistedAt, rejectedAt sql.NullTime

	err := row.Scan(&bid.Id, &bid.EventId, &bid.VendorId, pq.Array(&bid.CraftSpecialties),
		&forgeItems, &bid.Subtotal, &bid.Taxes, &bid.TotalCost, pq.Array(&bid.CraftAttachments),
		&bid.VendorNotes, &bid.EstimatedForgeTime, &bid.Status, &bid.BidRound, &bid.IsFinalBid,
		&revisedFrom, &intelligence, &shortlistedAt, &rejectedAt, &createdAt)
	if err != nil {
		return &bid, err
	}

	bid.ForgeItems = forgeItems
	bid.CreatedAt = createdAt.Format(time.RFC3339)
	if revisedFrom.Valid {
		bid.RevisedFromBidId = &revisedFrom.UUID
	}
	if shortlistedAt.Valid {
		bid.ShortlistedAt = &shortlistedAt.Time
	}
	if rejectedAt.Valid {
		bid.RejectedAt = &rejectedAt.Time
	}
	if len(intelligence) > 0 {
		intel := &entity.CompetitiveIntelligence{}
		if err := intel.Scan(intelligence); err != nil {
			return &bid, err
		}
		bid.Intelligence = intel
	}

	return &bid, nil
}

func (r *BidRepo) CreateBid(ctx context.Context, input *entity.CreateBidInput) (uuid.UUID, error) {
	eventUuid, err := uuid.Parse(input.EventId)
	if err != nil {
		return uuid.Nil, err
	}

	vendorUuid, err := uuid.Parse(input.VendorId)
	if err != nil {
		return uuid.Nil, err
	}

	createBidSql, args, _ := r.SqlBuilder.
		Insert("bids").
		Columns("event_id", "vendor_id", "craft_specialties", "forge_items", "subtotal", "taxes",
			"total_cost", "craft_attachments", "vendor_notes", "estimated_forge_time", "status",
			"bid_round", "is_final_bid").
		Values(eventUuid, vendorUuid, pq.Array(input.CraftSpecialties), []byte(input.ForgeItems),
			input.Subtotal, input.Taxes, input.TotalCost, pq.Array(input.CraftAttachments),
			input.VendorNotes, input.EstimatedForgeTime, common.Submitted, 1, false).
		Suffix("RETURNING id").
		ToSql()

	var bidId uuid.UUID
	err = r.Database.QueryRow(createBidSql, args...).Scan(&bidId)
	if err != nil {
		return uuid.Nil, err
	}

	return bidId, nil
}

func (r *BidRepo) GetBidById(ctx context.Context, id string) (*entity.Bid, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	getBidSql, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("bids").
		Where("id = ?", uuidForm).
		ToSql()

	bid, err := scanBidRow(r.Database.QueryRow(getBidSql, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return bid, repo_errors.ErrNotFound
		}

		return bid, err
	}

	return bid, nil
}

func (r *BidRepo) queryBids(sqlReq string, args []interface{}) ([]entity.Bid, error) {
	rows, err := r.Database.Query(sqlReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bids := make([]entity.Bid, 0)
	for rows.Next() {
		bid, err := scanBidRow(rows)
		if err != nil {
			return bids, err
		}
		bids = append(bids, *bid)
	}
	if err = rows.Err(); err != nil {
		return bids, err
	}

	return bids, nil
}

func (r *BidRepo) GetEventBidsByStatus(ctx context.Context, eventId string, status common.BidStatus) ([]entity.Bid, error) {
	uuidForm, err := uuid.Parse(eventId)
	if err != nil {
		return nil, err
	}

	getBidsSql, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("bids").
		Where("event_id = ?", uuidForm).
		Where("status = ?", status).
		OrderBy("total_cost ASC", "created_at ASC").
		ToSql()

	return r.queryBids(getBidsSql, args)
}

func (r *BidRepo) GetEventBidsByRound(ctx context.Context, eventId string, round int, pg *entity.PaginationInput) ([]entity.Bid, error) {
	uuidForm, err := uuid.Parse(eventId)
	if err != nil {
		return nil, err
	}

	builder := r.SqlBuilder.
		Select(bidColumns).
		From("bids").
		Where("event_id = ?", uuidForm).
		Where("bid_round = ?", round).
		OrderBy("total_cost ASC", "created_at ASC")

	if pg != nil {
		builder = builder.Offset(uint64(pg.Offset)).Limit(uint64(pg.Limit))
	}

	getBidsSql, args, _ := builder.ToSql()

	return r.queryBids(getBidsSql, args)
}

func (r *BidRepo) CountEventBidsByStatus(ctx context.Context, eventId string, status common.BidStatus) (int, error) {
	uuidForm, err := uuid.Parse(eventId)
	if err != nil {
		return 0, err
	}

	countSql, args, _ := r.SqlBuilder.
		Select("count(*)").
		From("bids").
		Where("event_id = ?", uuidForm).
		Where("status = ?", status).
		ToSql()

	var count int
	if err = r.Database.QueryRow(countSql, args...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *BidRepo) UpdateBidStatusById(ctx context.Context, id string, newStatus common.BidStatus) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return err
	}

	builder := r.SqlBuilder.
		Update("bids").
		Set("status", newStatus).
		Where("id = ?", uuidForm)

	if newStatus == common.Rejected {
		builder = builder.Set("rejected_at", squirrel.Expr("now()"))
	}

	updateStatusSql, args, _ := builder.ToSql()

	_, err = r.Database.Exec(updateStatusSql, args...)
	if err != nil {
		return err
	}

	return nil
}

func (r *BidRepo) ApplyShortlist(ctx context.Context, eventId uuid.UUID, shortlisted []entity.ShortlistUpdate, rejectedIds []uuid.UUID, now time.Time, finalDeadline time.Time) error {
	tx, err := r.Database.Begin()
	if err != nil {
		return err
	}

	advanceEventSql, args, _ := r.SqlBuilder.
		Update("events").
		Set("forge_status", common.ShortlistReview).
		Set("shortlist_finalized_at", now).
		Set("final_bidding_closes_at", finalDeadline).
		Where("id = ?", eventId).
		Where(squirrel.Eq{"forge_status": []common.ForgeStatus{common.OpenForBids, common.CraftsmenBidding}}).
		RunWith(tx).
		ToSql()

	result, err := tx.Exec(advanceEventSql, args...)
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

	for _, update := range shortlisted {
		shortlistBidSql, args, _ := r.SqlBuilder.
			Update("bids").
			Set("status", common.Shortlisted).
			Set("shortlisted_at", now).
			Set("competitive_intelligence", update.Intelligence).
			Where("id = ?", update.BidId).
			Where("status = ?", common.Submitted).
			RunWith(tx).
			ToSql()

		if _, err := tx.Exec(shortlistBidSql, args...); err != nil {
			if e := tx.Rollback(); e != nil {
				return e
			}

			return err
		}
	}

	if len(rejectedIds) > 0 {
		rejectBidsSql, args, _ := r.SqlBuilder.
			Update("bids").
			Set("status", common.Rejected).
			Set("rejected_at", now).
			Where(squirrel.Eq{"id": rejectedIds}).
			Where("status = ?", common.Submitted).
			RunWith(tx).
			ToSql()

		if _, err := tx.Exec(rejectBidsSql, args...); err != nil {
			if e := tx.Rollback(); e != nil {
				return e
			}

			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *BidRepo) UpdateIntelligence(ctx context.Context, bidId uuid.UUID, intelligence *entity.CompetitiveIntelligence) error {
	updateIntelSql, args, _ := r.SqlBuilder.
		Update("bids").
		Set("competitive_intelligence", intelligence).
		Where("id = ?", bidId).
		ToSql()

	_, err := r.Database.Exec(updateIntelSql, args...)
	if err != nil {
		return err
	}

	return nil
}

func (r *BidRepo) CreateRevision(ctx context.Context, original *entity.Bid, input *entity.ReviseBidInput, now time.Time) (uuid.UUID, error) {
	tx, err := r.Database.Begin()
	if err != nil {
		return uuid.Nil, err
	}

	reviseOriginalSql, args, _ := r.SqlBuilder.
		Update("bids").
		Set("status", common.Revised).
		Where("id = ?", original.Id).
		Where("status = ?", common.Shortlisted).
		RunWith(tx).
		ToSql()

	result, err := tx.Exec(reviseOriginalSql, args...)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		return uuid.Nil, err
	}

	affected, err := result.RowsAffected()
	if err != nil || affected == 0 {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}
		if err != nil {
			return uuid.Nil, err
		}

		return uuid.Nil, repo_errors.ErrStaleStatus
	}

	createRevisionSql, args, _ := r.SqlBuilder.
		Insert("bids").
		Columns("event_id", "vendor_id", "craft_specialties", "forge_items", "subtotal", "taxes",
			"total_cost", "craft_attachments", "vendor_notes", "estimated_forge_time", "status",
			"bid_round", "is_final_bid", "revised_from_bid_id", "created_at").
		Values(original.EventId, original.VendorId, pq.Array(original.CraftSpecialties),
			[]byte(input.ForgeItems), input.Subtotal, input.Taxes, input.TotalCost,
			pq.Array(original.CraftAttachments), input.VendorNotes, original.EstimatedForgeTime,
			common.Submitted, 2, true, original.Id, now).
		Suffix("RETURNING id").
		RunWith(tx).
		ToSql()

	var revisionId uuid.UUID
	err = tx.QueryRow(createRevisionSql, args...).Scan(&revisionId)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		return uuid.Nil, err
	}

	if err = tx.Commit(); err != nil {
		return uuid.Nil, err
	}

	return revisionId, nil
}
