package systems

import (
	"reflect"
	"sync"

	"github.com/decker502/animtex/pkg/components"
	"github.com/decker502/animtex/pkg/ecs"
	"github.com/decker502/animtex/pkg/texture"
)

// entityOwnerKey identifies an entity across EntityOwner instances
type entityOwnerKey struct {
	em *ecs.EntityManager
	id ecs.EntityID
}

// EntityOwner 把一个带 SpriteComponent 的实体包装为 texture.OwnerHandle
//
// 实体被删除或移除 SpriteComponent 后 Alive 返回 false，纹理会在下一次
// 检查时移除该所有者。RequestRedraw 设置 SpriteComponent.RedrawRequested。
type EntityOwner struct {
	em *ecs.EntityManager
	id ecs.EntityID
}

// NewEntityOwner 创建实体所有者句柄
func NewEntityOwner(em *ecs.EntityManager, id ecs.EntityID) *EntityOwner {
	return &EntityOwner{em: em, id: id}
}

// Entity 返回实体 ID
func (o *EntityOwner) Entity() ecs.EntityID {
	return o.id
}

// Key implements texture.OwnerHandle. Handles for the same entity share a key.
func (o *EntityOwner) Key() any {
	return entityOwnerKey{em: o.em, id: o.id}
}

// Alive implements texture.OwnerHandle.
func (o *EntityOwner) Alive() bool {
	return o.sprite() != nil
}

// RequestRedraw implements texture.OwnerHandle.
func (o *EntityOwner) RequestRedraw() {
	if sprite := o.sprite(); sprite != nil {
		sprite.RedrawRequested = true
	}
}

// Properties implements texture.OwnerHandle.
func (o *EntityOwner) Properties() texture.PropertyInspector {
	if o.sprite() == nil {
		return nil
	}
	return o
}

// ListProperties 返回 SpriteComponent 中所有 texture.Drawable 类型的导出字段名
func (o *EntityOwner) ListProperties() []string {
	return drawableFields()
}

// GetProperty 返回字段当前的值，未知字段返回 nil
func (o *EntityOwner) GetProperty(name string) any {
	sprite := o.sprite()
	if sprite == nil {
		return nil
	}
	field := reflect.ValueOf(sprite).Elem().FieldByName(name)
	if !field.IsValid() || field.Type() != drawableType || field.IsNil() {
		return nil
	}
	return field.Interface()
}

func (o *EntityOwner) sprite() *components.SpriteComponent {
	if o.em == nil || !o.em.IsAlive(o.id) {
		return nil
	}
	sprite, ok := ecs.GetComponent[*components.SpriteComponent](o.em, o.id)
	if !ok {
		return nil
	}
	return sprite
}

var (
	drawableType = reflect.TypeOf((*texture.Drawable)(nil)).Elem()

	drawableFieldsOnce  sync.Once
	drawableFieldsNames []string
)

// drawableFields 反射 SpriteComponent 一次并缓存结果
func drawableFields() []string {
	drawableFieldsOnce.Do(func() {
		st := reflect.TypeOf(components.SpriteComponent{})
		for i := 0; i < st.NumField(); i++ {
			f := st.Field(i)
			if f.IsExported() && f.Type == drawableType {
				drawableFieldsNames = append(drawableFieldsNames, f.Name)
			}
		}
	})
	return drawableFieldsNames
}
