// internal/service/warehouse/domain/state.go
package domain

// State 定义了单次入库请求的生命周期状态
type State string

const (
	StateValidated         State = "VALIDATED"          // 本地校验通过，事务尚未开启
	StateCheckingProduct   State = "CHECKING_PRODUCT"   // 校验商品存在性
	StateCheckingWarehouse State = "CHECKING_WAREHOUSE" // 校验仓库存在性
	StateCheckingOrder     State = "CHECKING_ORDER"     // 锁定匹配的待履约订单
	StateFulfillingOrder   State = "FULFILLING_ORDER"   // 将订单标记为已履约
	StatePricing           State = "PRICING"            // 读取商品当前单价
	StateInserting         State = "INSERTING"          // 写入入库记录
	StateCommitted         State = "COMMITTED"          // 事务提交，终态
	StateRolledBack        State = "ROLLED_BACK"        // 任一步失败后整体回滚，终态
)

// transitions 是合法的正向状态流转表；
// 除终态外的任意状态都可以转入 StateRolledBack。
var transitions = map[State]State{
	StateValidated:         StateCheckingProduct,
	StateCheckingProduct:   StateCheckingWarehouse,
	StateCheckingWarehouse: StateCheckingOrder,
	StateCheckingOrder:     StateFulfillingOrder,
	StateFulfillingOrder:   StatePricing,
	StatePricing:           StateInserting,
	StateInserting:         StateCommitted,
}

// Terminal 判断是否是终态。
func (s State) Terminal() bool {
	return s == StateCommitted || s == StateRolledBack
}

// CanTransitionTo 判断状态流转是否合法。
func (s State) CanTransitionTo(next State) bool {
	if s.Terminal() {
		return false
	}
	if next == StateRolledBack {
		return true
	}
	return transitions[s] == next
}
