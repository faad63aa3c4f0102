package models

// Column names mirror the schema the audit query was written against, so the
// externally maintained SQL keeps working unchanged.

// TimestampLayout is the ISO-8601 form stored in Order.CreatedOnUTC.
const TimestampLayout = "2006-01-02T15:04:05"

type Order struct {
	ID              uint   `json:"id" gorm:"column:id;primaryKey;autoIncrement:false"`
	CreatedOnUTC    string `json:"createdonutc" gorm:"column:createdonutc;index"`
	IsCancelled     bool   `json:"iscancelled" gorm:"column:iscancelled"`
	Type            string `json:"type" gorm:"column:type"`
	CustomPartnerID string `json:"CustomPartnerId" gorm:"column:CustomPartnerId;index"`
}

func (Order) TableName() string { return "order" }

type OrderType string

const (
	OrderStandard OrderType = "standard"
	OrderReprint  OrderType = "reprint"
)
