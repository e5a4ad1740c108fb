// internal/service/warehouse/domain/port.go
package domain

import "context"

// Allocator 是入库工作流的执行策略端口：
// 同一个契约有两条可互换的实现路径（服务端编排事务 / 数据库内原子例程），
// 对相同输入必须给出相同的可观测结果。
// 这是领域层与基础设施层之间的“插座”。
type Allocator interface {
	// Allocate 原子地执行完整的入库序列，返回新入库记录的标识。
	// 任何一步失败都会整体回滚，不留下部分效果。
	Allocate(ctx context.Context, cmd AllocationCommand) (int64, error)
}
