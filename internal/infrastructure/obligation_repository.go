package infrastructure

import (
	"context"
	"time"

	"Obriga/internal/domain/obligation"
	"Obriga/internal/pkg"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

type ObligationRepository struct {
	DB *gorm.DB
}

var _ obligation.Repository = (*ObligationRepository)(nil)

type obligationDB struct {
	Id                 string     `gorm:"type:varchar(26);primaryKey;column:id"`
	UserId             string     `gorm:"type:varchar(26);index;not null;column:user_id"`
	Kind               string     `gorm:"type:varchar(15);not null;column:kind"`
	Direction          string     `gorm:"type:varchar(10);not null;column:direction"`
	Amount             float64    `gorm:"type:decimal(15,2);column:amount"`
	Currency           string     `gorm:"type:varchar(3);not null;column:currency"`
	Principal          float64    `gorm:"type:decimal(15,2);column:principal"`
	RemainingPrincipal float64    `gorm:"type:decimal(15,2);column:remaining_principal"`
	AnnualRatePercent  float64    `gorm:"type:decimal(8,4);column:annual_rate_percent"`
	TermPeriods        int        `gorm:"column:term_periods"`
	Description        string     `gorm:"type:varchar(255);column:description"`
	Frequency          string     `gorm:"type:varchar(20);not null;column:frequency"`
	StartDate          time.Time  `gorm:"type:date;not null;column:start_date"`
	EndDate            *time.Time `gorm:"type:date;column:end_date"`
	LastProcessed      *time.Time `gorm:"type:date;column:last_processed"`
	NextDue            *time.Time `gorm:"type:date;column:next_due"`
	Status             string     `gorm:"type:varchar(15);not null;column:status"`
	CreatedAt          time.Time  `gorm:"not null;column:created_at"`
	UpdatedAt          time.Time  `gorm:"not null;column:updated_at"`
}

func (obligationDB) TableName() string {
	return "recurring_obligations"
}

func toDomainObligation(row *obligationDB) (*obligation.RecurringObligation, error) {
	id, err := pkg.ParseULID(row.Id)
	if err != nil {
		return nil, err
	}

	userID, err := pkg.ParseULID(row.UserId)
	if err != nil {
		return nil, err
	}

	return &obligation.RecurringObligation{
		Id:                 id,
		UserId:             userID,
		Kind:               obligation.KindType(row.Kind),
		Direction:          obligation.DirectionType(row.Direction),
		Amount:             row.Amount,
		Currency:           row.Currency,
		Principal:          row.Principal,
		RemainingPrincipal: row.RemainingPrincipal,
		AnnualRatePercent:  row.AnnualRatePercent,
		TermPeriods:        row.TermPeriods,
		Description:        row.Description,
		Frequency:          obligation.FrequencyType(row.Frequency),
		StartDate:          row.StartDate,
		EndDate:            row.EndDate,
		LastProcessed:      row.LastProcessed,
		NextDue:            row.NextDue,
		Status:             obligation.StatusType(row.Status),
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}, nil
}

func toDBObligation(ob *obligation.RecurringObligation) *obligationDB {
	return &obligationDB{
		Id:                 ob.Id.String(),
		UserId:             ob.UserId.String(),
		Kind:               string(ob.Kind),
		Direction:          string(ob.Direction),
		Amount:             ob.Amount,
		Currency:           ob.Currency,
		Principal:          ob.Principal,
		RemainingPrincipal: ob.RemainingPrincipal,
		AnnualRatePercent:  ob.AnnualRatePercent,
		TermPeriods:        ob.TermPeriods,
		Description:        ob.Description,
		Frequency:          string(ob.Frequency),
		StartDate:          ob.StartDate,
		EndDate:            ob.EndDate,
		LastProcessed:      ob.LastProcessed,
		NextDue:            ob.NextDue,
		Status:             string(ob.Status),
		CreatedAt:          ob.CreatedAt,
		UpdatedAt:          ob.UpdatedAt,
	}
}

func (r *ObligationRepository) Create(ctx context.Context, ob *obligation.RecurringObligation) error {
	row := toDBObligation(ob)
	return r.DB.WithContext(ctx).Table("recurring_obligations").Create(row).Error
}

// Save persiste o estado completo; usa Select("*") para não perder campos
// que voltaram a zero/nulo (saldo quitado, next_due limpo).
func (r *ObligationRepository) Save(ctx context.Context, ob *obligation.RecurringObligation) error {
	row := toDBObligation(ob)
	return r.DB.WithContext(ctx).
		Model(&obligationDB{}).
		Where("id = ?", row.Id).
		Select("*").
		Omit("id", "created_at").
		Updates(row).Error
}

func (r *ObligationRepository) GetByID(ctx context.Context, obligationID, userID ulid.ULID) (*obligation.RecurringObligation, error) {
	var row obligationDB
	err := r.DB.WithContext(ctx).
		Table("recurring_obligations").
		Where("id = ? AND user_id = ?", obligationID.String(), userID.String()).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return toDomainObligation(&row)
}

func (r *ObligationRepository) GetByUserID(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*obligation.RecurringObligation, int64, error) {
	query := r.DB.WithContext(ctx).
		Table("recurring_obligations").
		Where("user_id = ?", userID.String())

	return pkg.Paginate(query, pagination, "created_at DESC", toDomainObligation)
}

func (r *ObligationRepository) FindActive(ctx context.Context, userID *ulid.ULID) ([]*obligation.RecurringObligation, error) {
	query := r.DB.WithContext(ctx).
		Table("recurring_obligations").
		Where("status = ?", string(obligation.StatusActive))

	if userID != nil {
		query = query.Where("user_id = ?", userID.String())
	}

	var rows []obligationDB
	if err := query.Order("user_id, next_due ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	obs := make([]*obligation.RecurringObligation, 0, len(rows))
	for i := range rows {
		ob, err := toDomainObligation(&rows[i])
		if err != nil {
			return nil, err
		}
		obs = append(obs, ob)
	}
	return obs, nil
}

func (r *ObligationRepository) FindDue(ctx context.Context, date time.Time) ([]*obligation.RecurringObligation, error) {
	var rows []obligationDB
	err := r.DB.WithContext(ctx).
		Table("recurring_obligations").
		Where("status = ? AND next_due IS NOT NULL AND next_due <= ?", string(obligation.StatusActive), date).
		Order("next_due ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	obs := make([]*obligation.RecurringObligation, 0, len(rows))
	for i := range rows {
		ob, err := toDomainObligation(&rows[i])
		if err != nil {
			return nil, err
		}
		obs = append(obs, ob)
	}
	return obs, nil
}
