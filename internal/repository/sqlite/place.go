package sqlite

import (
	"context"
	"errors"

	"github.com/isaacphi/mapsxplr/internal/domain"
	"github.com/isaacphi/mapsxplr/internal/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type placeRepo struct {
	db *gorm.DB
}

func NewPlaceRepository(db *gorm.DB) repository.PlaceRepository {
	return &placeRepo{db: db}
}

func (r *placeRepo) Get(ctx context.Context, query string) (*domain.CachedPlace, error) {
	var place domain.CachedPlace
	err := r.db.WithContext(ctx).Where("query = ?", query).First(&place).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &place, nil
}

func (r *placeRepo) Save(ctx context.Context, place *domain.CachedPlace) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "query"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_name", "lat", "lon", "resolved_at", "updated_at", "deleted_at"}),
	}).Create(place).Error
}

func (r *placeRepo) List(ctx context.Context, limit int) ([]*domain.CachedPlace, error) {
	var places []*domain.CachedPlace
	q := r.db.WithContext(ctx).Order("resolved_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&places).Error; err != nil {
		return nil, err
	}
	return places, nil
}

func (r *placeRepo) Clear(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Unscoped().Where("1 = 1").Delete(&domain.CachedPlace{})
	return res.RowsAffected, res.Error
}
