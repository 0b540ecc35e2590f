package components

// LifetimeComponent 管理实体的生命周期
// 用于自动清理存在时间超过上限的实体（如一次性特效）
// 实体被删除后，其引用的动画纹理会在下一次休眠检查时进入休眠
type LifetimeComponent struct {
	MaxLifetime     float64 // 最大生命周期(秒)
	CurrentLifetime float64 // 当前已存在时间(秒)
	IsExpired       bool    // 是否已过期

	// FadeOut 过期前淡出的时长(秒)，0 表示不淡出
	// 淡出通过修改 SpriteComponent.Tint 的透明度实现
	FadeOut float64
}

// Remaining 返回剩余生命时间(秒)，不小于 0
func (l *LifetimeComponent) Remaining() float64 {
	r := l.MaxLifetime - l.CurrentLifetime
	if r < 0 {
		return 0
	}
	return r
}

// Alpha 返回当前的淡出透明度 [0, 1]
func (l *LifetimeComponent) Alpha() float64 {
	if l.FadeOut <= 0 {
		return 1
	}
	r := l.Remaining()
	if r >= l.FadeOut {
		return 1
	}
	return r / l.FadeOut
}
