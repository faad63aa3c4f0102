package models

type OrderDetail struct {
	ID             uint   `json:"id" gorm:"column:id;primaryKey;autoIncrement:false"`
	OrderID        uint   `json:"orderid" gorm:"column:orderid;not null;index"`
	Order          *Order `json:"-" gorm:"foreignKey:OrderID;references:ID"`
	IsCancelled    bool   `json:"IsCancelled" gorm:"column:IsCancelled"`
	IsMugPrint     bool   `json:"ismugprint" gorm:"column:ismugprint"`
	IsStickerPrint bool   `json:"isstickerprint" gorm:"column:isstickerprint"`
}

func (OrderDetail) TableName() string { return "orderdetail" }

type OrderDetailUnit struct {
	ID            uint         `json:"id" gorm:"column:id;primaryKey;autoIncrement:false"`
	OrderDetailID uint         `json:"orderdetailid" gorm:"column:orderdetailid;not null;index"`
	OrderDetail   *OrderDetail `json:"-" gorm:"foreignKey:OrderDetailID;references:ID"`
	IsCancelled   bool         `json:"iscancelled" gorm:"column:iscancelled"`
}

func (OrderDetailUnit) TableName() string { return "orderdetailunit" }
