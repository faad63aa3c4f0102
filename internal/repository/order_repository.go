package repository

import (
	"gorm.io/gorm"

	"rebate_audit/internal/models"
)

// insertBatchSize keeps each multi-row insert well below sqlite's bound
// variable limit.
const insertBatchSize = 100

type TableCounts struct {
	Orders  int64 `json:"orders"`
	Details int64 `json:"details"`
	Units   int64 `json:"units"`
}

type OrderRepository interface {
	CreateDataset(ds *models.Dataset) error
	LoadDataset() (*models.Dataset, error)
	Counts() (TableCounts, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// CreateDataset inserts parents before children. Callers wanting
// all-or-nothing semantics pass a transaction handle.
func (r *orderRepository) CreateDataset(ds *models.Dataset) error {
	if len(ds.Orders) > 0 {
		if err := r.db.CreateInBatches(ds.Orders, insertBatchSize).Error; err != nil {
			return err
		}
	}
	if len(ds.Details) > 0 {
		if err := r.db.CreateInBatches(ds.Details, insertBatchSize).Error; err != nil {
			return err
		}
	}
	if len(ds.Units) > 0 {
		if err := r.db.CreateInBatches(ds.Units, insertBatchSize).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *orderRepository) LoadDataset() (*models.Dataset, error) {
	ds := &models.Dataset{}
	if err := r.db.Order("id").Find(&ds.Orders).Error; err != nil {
		return nil, err
	}
	if err := r.db.Order("id").Find(&ds.Details).Error; err != nil {
		return nil, err
	}
	if err := r.db.Order("id").Find(&ds.Units).Error; err != nil {
		return nil, err
	}
	return ds, nil
}

func (r *orderRepository) Counts() (TableCounts, error) {
	var c TableCounts
	if err := r.db.Model(&models.Order{}).Count(&c.Orders).Error; err != nil {
		return c, err
	}
	if err := r.db.Model(&models.OrderDetail{}).Count(&c.Details).Error; err != nil {
		return c, err
	}
	if err := r.db.Model(&models.OrderDetailUnit{}).Count(&c.Units).Error; err != nil {
		return c, err
	}
	return c, nil
}
