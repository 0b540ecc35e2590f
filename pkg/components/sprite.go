package components

import (
	"image"
	"image/color"

	"github.com/decker502/animtex/pkg/texture"
)

// SpriteComponent 存储实体的视觉表现
//
// Texture 和 Icon 可以是任意 texture.Drawable：
//   - *texture.ImageTexture / *texture.AtlasTexture: 静态图片
//   - *texture.AnimatedTexture: 动画纹理（可多层嵌套）
//
// 动画纹理通过反射找到引用它的字段（见 systems.EntityOwner），
// 因此纹理字段必须是导出的 texture.Drawable 类型。
type SpriteComponent struct {
	// Texture 主纹理
	Texture texture.Drawable

	// Icon 叠加在左上角的小图标（可选）
	Icon texture.Drawable

	// X, Y 世界坐标（左上角）
	X, Y float64

	// Width, Height 绘制尺寸，0 表示使用纹理尺寸
	Width, Height int

	// Tint 颜色调制，nil 表示不调制
	Tint color.Color

	// Transpose 交换纹理的 X/Y 轴
	Transpose bool

	// Hidden 为 true 时不绘制
	Hidden bool

	// RedrawRequested 动画纹理换帧时置为 true，由渲染系统清除
	RedrawRequested bool
}

// Size 返回绘制尺寸
// 未设置 Width/Height 时使用 Texture 的尺寸
func (s *SpriteComponent) Size() (int, int) {
	w, h := s.Width, s.Height
	if s.Texture != nil {
		if w == 0 {
			w = s.Texture.Width()
		}
		if h == 0 {
			h = s.Texture.Height()
		}
	}
	return w, h
}

// Bounds 返回减去摄像机偏移后的屏幕矩形
func (s *SpriteComponent) Bounds(cameraX float64) image.Rectangle {
	w, h := s.Size()
	x := int(s.X - cameraX)
	y := int(s.Y)
	return image.Rect(x, y, x+w, y+h)
}
