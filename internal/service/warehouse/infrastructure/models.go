// internal/service/warehouse/infrastructure/models.go
package infrastructure

import (
	"time"

	"github.com/shopspring/decimal"
)

// 数据库模型。表名和列名跟随既有的仓储 schema（PascalCase），
// 本服务不拥有 Product / Warehouse / Order 三张表，只拥有 Product_Warehouse。

// ProductModel 是 Product 表的只读映射。
type ProductModel struct {
	ID    int64           `gorm:"column:Id;primaryKey"`
	Price decimal.Decimal `gorm:"column:Price;type:decimal(12,2)"`
}

func (ProductModel) TableName() string {
	return "Product"
}

// WarehouseModel 只用于存在性校验。
type WarehouseModel struct {
	ID int64 `gorm:"column:Id;primaryKey"`
}

func (WarehouseModel) TableName() string {
	return "Warehouse"
}

// OrderModel 是待履约订单表的映射。FulfilledAt 为 NULL 表示 pending。
type OrderModel struct {
	ID          int64      `gorm:"column:Id;primaryKey"`
	ProductID   int64      `gorm:"column:ProductId"`
	Amount      int        `gorm:"column:Amount"`
	CreatedAt   time.Time  `gorm:"column:CreatedAt"`
	FulfilledAt *time.Time `gorm:"column:FulfilledAt"`
}

func (OrderModel) TableName() string {
	return "Order"
}

// AllocationModel 是 Product_Warehouse 表的映射，本服务唯一拥有写权的表。
type AllocationModel struct {
	ID          int64           `gorm:"column:Id;primaryKey;autoIncrement"`
	ProductID   int64           `gorm:"column:ProductId"`
	WarehouseID int64           `gorm:"column:WarehouseId"`
	OrderID     int64           `gorm:"column:OrderId"`
	Amount      int             `gorm:"column:Amount"`
	Price       decimal.Decimal `gorm:"column:Price;type:decimal(12,2)"`
	CreatedAt   time.Time       `gorm:"column:CreatedAt"`
}

func (AllocationModel) TableName() string {
	return "Product_Warehouse"
}
