package service

import (
	"context"

	"balcvetov/api/internal/database"
	"balcvetov/api/internal/models"
	"balcvetov/api/internal/repository"
)

// ReferralBonus is credited to the referrer for every referred registration.
const ReferralBonus int64 = 500

type ReferralLedger struct {
	referrals *repository.ReferralRepository
}

func NewReferralLedger(db database.DBTX) *ReferralLedger {
	return &ReferralLedger{referrals: repository.NewReferralRepository(db)}
}

// RecordReferral appends one bonus row. It is not idempotent.
func (l *ReferralLedger) RecordReferral(ctx context.Context, referrerID, referredID, bonus int64) error {
	if referrerID <= 0 || referrerID == referredID {
		return ErrInvalidReferrer
	}
	_, err := l.referrals.Create(ctx, models.Referral{
		ReferrerID:  referrerID,
		ReferredID:  referredID,
		BonusAmount: bonus,
	})
	return err
}
