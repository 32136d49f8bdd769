package repository

import (
	"time"

	"go-pos-ws/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CashSessionRepository interface {
	Create(session *model.CashSession) error
	FindByID(id uuid.UUID) (*model.CashSession, error)
	FindOpenByStore(storeID uuid.UUID) (*model.CashSession, error)
	FindAllByStore(storeID uuid.UUID, limit int) ([]model.CashSession, error)
	Close(id uuid.UUID, counted, expected decimal.Decimal, notes, closedBy string, closedAt time.Time) (int64, error)
}

type cashSessionRepo struct {
	db *gorm.DB
}

func NewCashSessionRepo(db *gorm.DB) CashSessionRepository {
	return &cashSessionRepo{db}
}

func (r *cashSessionRepo) Create(session *model.CashSession) error {
	return r.db.Create(session).Error
}

func (r *cashSessionRepo) FindByID(id uuid.UUID) (*model.CashSession, error) {
	var session model.CashSession
	err := r.db.First(&session, "id = ?", id).Error
	return &session, err
}

func (r *cashSessionRepo) FindOpenByStore(storeID uuid.UUID) (*model.CashSession, error) {
	var session model.CashSession
	err := r.db.First(&session, "store_id = ? AND status = ?", storeID, model.SessionOpen).Error
	return &session, err
}

func (r *cashSessionRepo) FindAllByStore(storeID uuid.UUID, limit int) ([]model.CashSession, error) {
	var sessions []model.CashSession
	q := r.db.Where("store_id = ?", storeID).Order("opened_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&sessions).Error
	return sessions, err
}

// Close sets the terminal fields in one conditional update. The status guard
// makes the transition OPEN -> CLOSED one-way: a second close matches zero
// rows instead of overwriting the first count.
func (r *cashSessionRepo) Close(id uuid.UUID, counted, expected decimal.Decimal, notes, closedBy string, closedAt time.Time) (int64, error) {
	res := r.db.Model(&model.CashSession{}).
		Where("id = ? AND status = ?", id, model.SessionOpen).
		Updates(map[string]interface{}{
			"status":          model.SessionClosed,
			"closed_at":       closedAt,
			"closing_amount":  counted,
			"expected_amount": expected,
			"notes":           notes,
			"updated_by":      closedBy,
		})
	return res.RowsAffected, res.Error
}
