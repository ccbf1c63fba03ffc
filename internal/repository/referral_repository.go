package repository

import (
	"context"

	"balcvetov/api/internal/database"
	"balcvetov/api/internal/models"
)

type ReferralRepository struct {
	db database.DBTX
}

func NewReferralRepository(db database.DBTX) *ReferralRepository {
	return &ReferralRepository{db: db}
}

func (r *ReferralRepository) Create(ctx context.Context, referral models.Referral) (int64, error) {
	const query = `
		INSERT INTO referrals (referrer_id, referred_id, bonus_amount, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query, referral.ReferrerID, referral.ReferredID, referral.BonusAmount).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}
