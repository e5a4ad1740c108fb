// internal/service/warehouse/domain/product.go
package domain

import "github.com/shopspring/decimal"

// Product 是入库工作流的只读参照：只用它的存在性和当前单价。
type Product struct {
	ID    int64
	Price decimal.Decimal
}

// Warehouse 在本工作流中只做存在性校验。
type Warehouse struct {
	ID int64
}
