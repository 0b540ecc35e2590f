package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/decker502/animtex/pkg/components"
	"github.com/decker502/animtex/pkg/config"
	"github.com/decker502/animtex/pkg/ecs"
	"github.com/decker502/animtex/pkg/embedded"
	"github.com/decker502/animtex/pkg/frameloop"
	"github.com/decker502/animtex/pkg/game"
	"github.com/decker502/animtex/pkg/systems"
	"github.com/decker502/animtex/pkg/texture"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

const (
	screenWidth  = 800
	screenHeight = 600

	// atlasPath 程序生成的图集在资源管理器中的注册路径
	atlasPath = "procedural/atlas.png"
	cellSize  = 16
	cellCount = 6
)

var (
	configPath = flag.String("config", "data/texture.yaml", "纹理配置文件路径")
	framesPath = flag.String("frames", "data/frames/showcase.yaml", "额外加载的 sprite-frames 文件（.yaml/.xml），为空则不加载")
)

// Game 演示程序主结构
// 实现 ebiten.Game 接口，每次 Update 推进一次 frameloop
type Game struct {
	loop      *frameloop.Loop
	resources *game.ResourceManager
	em        *ecs.EntityManager

	renderSystem   *systems.SpriteRenderSystem
	lifetimeSystem *systems.LifetimeSystem

	// 三层嵌套: outer -> middle -> leaf
	outer, middle, leaf *texture.AnimatedTexture
	loaded              *texture.AnimatedTexture

	hero ecs.EntityID // 持有 outer 的实体，0 表示已删除
	changes, finishes int
}

// NewGame 创建演示实例
func NewGame(cfg *config.TextureConfig, backups *game.BackupStore) (*Game, error) {
	g := &Game{
		loop: frameloop.New(),
		em:   ecs.NewEntityManager(),
	}
	g.resources = game.NewResourceManager(g.loop, cfg)
	g.resources.SetBackupStore(backups)
	g.renderSystem = systems.NewSpriteRenderSystem(g.em, nil)
	g.lifetimeSystem = systems.NewLifetimeSystem(g.em)

	g.resources.RegisterImage(atlasPath, buildAtlas())
	g.buildChain(backups)

	if *framesPath != "" {
		frames, err := g.resources.LoadSpriteFrames(*framesPath)
		if err != nil {
			return nil, fmt.Errorf("加载 sprite-frames 失败: %w", err)
		}
		g.loaded = g.resources.NewTexture(*framesPath)
		g.loaded.SetFrames(frames)
		g.spawn(g.loaded, nil, 560, 120, 128, 0)
	}

	g.outer.OnFrameChanged(func() { g.changes++ })
	g.outer.OnAnimationFinished(func() { g.finishes++ })

	g.hero = g.spawn(g.outer, g.leaf, 120, 120, 160, 0)
	g.spawn(g.leaf, nil, 360, 120, 96, 0)
	g.spawnBurst()
	return g, nil
}

// buildAtlas 生成 cellCount 个不同颜色的方格组成的图集
func buildAtlas() *ebiten.Image {
	atlas := ebiten.NewImage(cellSize*cellCount, cellSize)
	palette := []color.RGBA{
		{R: 230, G: 60, B: 60, A: 255},
		{R: 240, G: 170, B: 40, A: 255},
		{R: 240, G: 230, B: 60, A: 255},
		{R: 70, G: 200, B: 90, A: 255},
		{R: 60, G: 120, B: 230, A: 255},
		{R: 160, G: 80, B: 220, A: 255},
	}
	for i, c := range palette {
		cell := atlas.SubImage(cellRect(i)).(*ebiten.Image)
		cell.Fill(c)
	}
	return atlas
}

func cellRect(i int) image.Rectangle {
	return image.Rect(i*cellSize, 0, (i+1)*cellSize, cellSize)
}

// buildChain 在代码中构建三层嵌套的帧数据
// 帧数据没有来源文件，修复信息从 BackupStore 恢复，首次运行时写入
func (g *Game) buildChain(backups *game.BackupStore) {
	atlas := g.resources.GetImage(atlasPath)

	g.leaf = g.resources.NewTexture("leaf")
	leafFrames := texture.NewSpriteFrames()
	leafFrames.SetSpeed(texture.DefaultAnimation, 8)
	for i := 0; i < 4; i++ {
		leafFrames.AddFrame(texture.DefaultAnimation, texture.NewAtlasTexture(atlas, cellRect(i), atlasPath), 1)
	}
	attachBackups("procedural/leaf", leafFrames, backups, []int{0, 1, 2, 3})
	g.leaf.SetFrames(leafFrames)

	g.middle = g.resources.NewTexture("middle")
	middleFrames := texture.NewSpriteFrames()
	middleFrames.SetSpeed(texture.DefaultAnimation, 2)
	middleFrames.AddFrame(texture.DefaultAnimation, g.leaf, 2)
	middleFrames.AddFrame(texture.DefaultAnimation, texture.NewAtlasTexture(atlas, cellRect(4), atlasPath), 1)
	attachBackups("procedural/middle", middleFrames, backups, []int{1})
	g.middle.SetFrames(middleFrames)

	g.outer = g.resources.NewTexture("outer")
	outerFrames := texture.NewSpriteFrames()
	outerFrames.SetSpeed(texture.DefaultAnimation, 1)
	outerFrames.AddFrame(texture.DefaultAnimation, g.middle, 3)
	outerFrames.AddFrame(texture.DefaultAnimation, texture.NewAtlasTexture(atlas, cellRect(5), atlasPath), 1)
	outerFrames.AddAnimation("once")
	outerFrames.SetSpeed("once", 4)
	outerFrames.SetLoop("once", false)
	for i := 3; i >= 0; i-- {
		outerFrames.AddFrame("once", texture.NewAtlasTexture(atlas, cellRect(i), atlasPath), 1)
	}
	attachBackups("procedural/outer", outerFrames, backups, []int{1})
	g.outer.SetFrames(outerFrames)
}

// attachBackups 为默认动画的图集帧设置修复信息
func attachBackups(name string, frames *texture.SpriteFrames, backups *game.BackupStore, indices []int) {
	if backups.Restore(name, frames) > 0 {
		return
	}
	for _, i := range indices {
		atlas, ok := frames.FrameTexture(texture.DefaultAnimation, i).(*texture.AtlasTexture)
		if !ok {
			continue
		}
		frames.SetBackup(texture.DefaultAnimation, i, texture.Backup{
			Path:      atlasPath,
			Region:    atlas.Region,
			HasRegion: true,
			Kind:      texture.BackupAtlas,
		})
	}
	if err := backups.Save(name, frames); err != nil {
		log.Printf("[Showcase] Warning: %v", err)
	}
}

// spawn 创建一个精灵实体，lifetime > 0 时实体到期后自动删除
func (g *Game) spawn(tex, icon texture.Drawable, x, y float64, size int, lifetime float64) ecs.EntityID {
	id := g.em.CreateEntity()
	g.em.AddComponent(id, &components.SpriteComponent{
		Texture: tex,
		Icon:    icon,
		X:       x,
		Y:       y,
		Width:   size,
		Height:  size,
	})
	if lifetime > 0 {
		g.em.AddComponent(id, &components.LifetimeComponent{MaxLifetime: lifetime, FadeOut: lifetime / 2})
	}
	return id
}

// spawnBurst 创建一个使用 middle 的短暂特效实体
func (g *Game) spawnBurst() {
	g.spawn(g.middle, nil, 360, 320, 64, 3)
}

// Update 处理输入并推进所有动画纹理
func (g *Game) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		if g.outer.IsPlaying() {
			g.outer.Stop()
		} else {
			g.outer.Play("", -1)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyO):
		g.outer.Play("once", 0)
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		g.outer.Play(texture.DefaultAnimation, 0)
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		if n := g.outer.FrameCount(); n > 0 {
			g.outer.SetFrame((g.outer.Frame() + 1) % n)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.outer.Reset()
	case inpututil.IsKeyJustPressed(ebiten.KeyD):
		g.toggleHero()
	case inpututil.IsKeyJustPressed(ebiten.KeyB):
		g.spawnBurst()
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		g.outer.SetSpeedScale(g.outer.SpeedScale() * 2)
	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		g.outer.SetSpeedScale(g.outer.SpeedScale() / 2)
	}

	dt := frameloop.EbitenDelta()
	g.lifetimeSystem.Update(dt)
	g.em.RemoveMarkedEntities()
	g.loop.Step(dt)
	return nil
}

// toggleHero 删除或重新创建持有 outer 的实体
// 删除后 outer 没有所有者，会在下一次检查时休眠
func (g *Game) toggleHero() {
	if g.hero != 0 {
		g.em.DestroyEntity(g.hero)
		g.hero = 0
		return
	}
	g.hero = g.spawn(g.outer, g.leaf, 120, 120, 160, 0)
}

// Draw 绘制所有精灵和状态信息
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 40, G: 44, B: 52, A: 255})
	g.renderSystem.Draw(screen, 0)

	lines := []string{
		fmt.Sprintf("outer  %-11s anim=%-8s frame=%d/%d playing=%v speed=%.2f owners=%d",
			g.outer.State(), g.outer.Animation(), g.outer.Frame(), g.outer.FrameCount(),
			g.outer.IsPlaying(), g.outer.SpeedScale(), g.outer.OwnerCount()),
		fmt.Sprintf("middle %-11s frame=%d owners=%d", g.middle.State(), g.middle.Frame(), g.middle.OwnerCount()),
		fmt.Sprintf("leaf   %-11s frame=%d owners=%d", g.leaf.State(), g.leaf.Frame(), g.leaf.OwnerCount()),
		fmt.Sprintf("frame_changed=%d animation_finished=%d tick subscribers=%d",
			g.changes, g.finishes, g.loop.SubscriberCount()),
		"SPACE play/stop  O once  L loop  F next frame  R reset",
		"D remove/restore owner  B burst  UP/DOWN speed",
	}
	if g.loaded != nil {
		lines = append(lines, fmt.Sprintf("%s %s frame=%d/%d", *framesPath, g.loaded.State(), g.loaded.Frame(), g.loaded.FrameCount()))
	}
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, 10, screenHeight-20-16*(len(lines)-i))
	}
}

// Layout 返回逻辑屏幕尺寸
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	flag.Parse()
	embedded.Init(dataFS)

	cfg := config.LoadTextureConfigOrDefault(*configPath)

	// gdata 初始化失败时降级为仅内存存储
	gdataManager, err := gdata.Open(gdata.Config{AppName: "animtex"})
	if err != nil {
		log.Printf("[Showcase] Warning: gdata unavailable, backups kept in memory: %v", err)
		gdataManager = nil
	}

	g, err := NewGame(cfg, game.NewBackupStore(gdataManager))
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("AnimatedTexture 演示")

	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
