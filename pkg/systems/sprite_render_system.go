package systems

import (
	"image"
	"log"

	"github.com/decker502/animtex/pkg/components"
	"github.com/decker502/animtex/pkg/ecs"
	"github.com/decker502/animtex/pkg/texture"
	"github.com/hajimehoshi/ebiten/v2"
)

// IconPercent 图标相对主纹理的尺寸百分比
const IconPercent = 35

// SpriteRenderSystem 绘制所有带 SpriteComponent 的实体
//
// 动画纹理通过 AnimatedTexture.Draw 绘制，实体因此被注册为纹理的所有者，
// 休眠中的纹理也会被唤醒。静态纹理直接通过 texture.Submit 提交。
// 绘制顺序为实体创建顺序。
type SpriteRenderSystem struct {
	entityManager *ecs.EntityManager
	renderer      texture.Renderer
	owners        map[ecs.EntityID]*EntityOwner
	warned        map[ecs.EntityID]bool
}

// NewSpriteRenderSystem 创建渲染系统
// renderer 为 nil 时使用 texture.EbitenRenderer
func NewSpriteRenderSystem(em *ecs.EntityManager, renderer texture.Renderer) *SpriteRenderSystem {
	if renderer == nil {
		renderer = &texture.EbitenRenderer{}
	}
	return &SpriteRenderSystem{
		entityManager: em,
		renderer:      renderer,
		owners:        make(map[ecs.EntityID]*EntityOwner),
		warned:        make(map[ecs.EntityID]bool),
	}
}

// Draw 绘制所有可见的精灵实体，返回绘制的实体数量
// 参数:
//   - screen: 绘制目标
//   - cameraX: 摄像机的世界坐标X位置
func (s *SpriteRenderSystem) Draw(screen *ebiten.Image, cameraX float64) int {
	s.forgetDeadOwners()

	drawn := 0
	for _, id := range ecs.GetEntitiesWith1[*components.SpriteComponent](s.entityManager) {
		sprite, ok := ecs.GetComponent[*components.SpriteComponent](s.entityManager, id)
		if !ok || sprite.Hidden {
			continue
		}
		if sprite.Texture == nil {
			if !s.warned[id] {
				log.Printf("[SpriteRenderSystem] Warning: entity %d has no texture", id)
				s.warned[id] = true
			}
			continue
		}

		dest := sprite.Bounds(cameraX)
		s.drawDrawable(screen, id, sprite.Texture, dest, sprite)

		if sprite.Icon != nil {
			iw := dest.Dx() * IconPercent / 100
			ih := dest.Dy() * IconPercent / 100
			iconDest := image.Rect(dest.Min.X, dest.Min.Y, dest.Min.X+iw, dest.Min.Y+ih)
			s.drawDrawable(screen, id, sprite.Icon, iconDest, sprite)
		}

		sprite.RedrawRequested = false
		drawn++
	}
	return drawn
}

func (s *SpriteRenderSystem) drawDrawable(screen *ebiten.Image, id ecs.EntityID, d texture.Drawable, dest image.Rectangle, sprite *components.SpriteComponent) {
	if anim, ok := d.(*texture.AnimatedTexture); ok {
		anim.Draw(s.ownerFor(id), screen, dest, sprite.Tint, sprite.Transpose)
		return
	}
	texture.Submit(s.renderer, screen, dest, d, sprite.Tint, sprite.Transpose)
}

// ownerFor 返回实体的所有者句柄，同一实体复用同一个句柄
func (s *SpriteRenderSystem) ownerFor(id ecs.EntityID) *EntityOwner {
	owner, ok := s.owners[id]
	if !ok {
		owner = NewEntityOwner(s.entityManager, id)
		s.owners[id] = owner
	}
	return owner
}

// forgetDeadOwners 丢弃已删除实体的句柄（纹理侧的登记由纹理自己清理）
func (s *SpriteRenderSystem) forgetDeadOwners() {
	for id := range s.owners {
		if !s.entityManager.IsAlive(id) {
			delete(s.owners, id)
			delete(s.warned, id)
		}
	}
}

// PendingRedraws 返回请求重绘的实体，按 ID 升序
func (s *SpriteRenderSystem) PendingRedraws() []ecs.EntityID {
	var ids []ecs.EntityID
	for _, id := range ecs.GetEntitiesWith1[*components.SpriteComponent](s.entityManager) {
		if sprite, ok := ecs.GetComponent[*components.SpriteComponent](s.entityManager, id); ok && sprite.RedrawRequested {
			ids = append(ids, id)
		}
	}
	return ids
}
