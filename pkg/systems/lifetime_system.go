package systems

import (
	"image/color"

	"github.com/decker502/animtex/pkg/components"
	"github.com/decker502/animtex/pkg/ecs"
)

// LifetimeSystem 管理实体的生命周期
// 过期实体被标记删除；带 FadeOut 的实体在过期前逐渐淡出
type LifetimeSystem struct {
	entityManager *ecs.EntityManager
}

// NewLifetimeSystem 创建一个新的生命周期系统
func NewLifetimeSystem(em *ecs.EntityManager) *LifetimeSystem {
	return &LifetimeSystem{
		entityManager: em,
	}
}

// Update 更新所有拥有生命周期组件的实体，返回本次标记删除的数量
// 标记的实体在 EntityManager.RemoveMarkedEntities 之后才真正消失
func (s *LifetimeSystem) Update(deltaTime float64) int {
	expired := 0
	for _, id := range ecs.GetEntitiesWith1[*components.LifetimeComponent](s.entityManager) {
		lifetime, ok := ecs.GetComponent[*components.LifetimeComponent](s.entityManager, id)
		if !ok || lifetime.IsExpired {
			continue
		}

		lifetime.CurrentLifetime += deltaTime

		if sprite, hasSprite := ecs.GetComponent[*components.SpriteComponent](s.entityManager, id); hasSprite && lifetime.FadeOut > 0 {
			a := uint8(lifetime.Alpha() * 255)
			// Tint 为预乘 alpha 的白色
			sprite.Tint = color.RGBA{R: a, G: a, B: a, A: a}
		}

		if lifetime.CurrentLifetime >= lifetime.MaxLifetime {
			lifetime.IsExpired = true
			s.entityManager.DestroyEntity(id)
			expired++
		}
	}
	return expired
}
