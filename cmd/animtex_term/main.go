// cmd/animtex_term/main.go
// 终端动画检查器：在终端中实时播放 sprite-frames 文件的时间轴
//
// 用法：
//   go run cmd/animtex_term/main.go --file=assets/frames/hero.yaml
//
// 按键：
//   空格 播放/暂停   n 下一个动画   f 下一帧   r 重置
//   + / - 速度      i 切换检查状态（关闭后纹理会休眠）   q / Esc 退出

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/decker502/animtex/internal/preview"
	"github.com/decker502/animtex/internal/spriteframes"
	"github.com/decker502/animtex/pkg/config"
	"github.com/decker502/animtex/pkg/frameloop"
	"github.com/decker502/animtex/pkg/texture"
	"github.com/gdamore/tcell/v2"
)

const tickInterval = 16 * time.Millisecond // ~60 FPS

var (
	filePath   = flag.String("file", "", "sprite-frames 文件路径（.yaml/.yml/.xml）")
	configPath = flag.String("config", "", "纹理配置文件路径（可选）")
)

var frameColors = []tcell.Color{
	tcell.ColorRed,
	tcell.ColorOrange,
	tcell.ColorYellow,
	tcell.ColorGreen,
	tcell.ColorBlue,
	tcell.ColorPurple,
}

// Inspector 终端检查器状态
type Inspector struct {
	screen tcell.Screen
	loop   *frameloop.Loop
	tex    *texture.AnimatedTexture
	names  []string

	animIndex int
	inspected bool
	changes   int
	finishes  int
	lastTick  time.Time
}

// NewInspector 创建检查器并初始化终端
func NewInspector(frames *texture.SpriteFrames, cfg *config.TextureConfig) (*Inspector, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	loop := frameloop.New()
	opts := cfg.ToOptions(loop, nil)
	opts.Name = *filePath

	in := &Inspector{
		screen:    screen,
		loop:      loop,
		tex:       texture.NewAnimatedTexture(opts),
		names:     frames.AnimationNames(),
		inspected: true,
		lastTick:  time.Now(),
	}
	in.tex.SetFrames(frames)
	in.tex.SetInspected(true)
	in.tex.OnFrameChanged(func() { in.changes++ })
	in.tex.OnAnimationFinished(func() { in.finishes++ })
	for i, name := range in.names {
		if name == in.tex.Animation() {
			in.animIndex = i
		}
	}
	return in, nil
}

// handleKey 处理按键，返回 false 表示退出
func (in *Inspector) handleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
		return false
	}
	if ev.Key() != tcell.KeyRune {
		return true
	}

	switch ev.Rune() {
	case 'q':
		return false
	case ' ':
		if in.tex.IsPlaying() {
			in.tex.Stop()
		} else {
			in.tex.Play("", -1)
		}
	case 'n':
		if len(in.names) > 0 {
			in.animIndex = (in.animIndex + 1) % len(in.names)
			in.tex.Play(in.names[in.animIndex], 0)
		}
	case 'f':
		if n := in.tex.FrameCount(); n > 0 {
			in.tex.SetFrame((in.tex.Frame() + 1) % n)
		}
	case 'r':
		in.tex.Reset()
	case '+', '=':
		in.tex.SetSpeedScale(in.tex.SpeedScale() * 2)
	case '-':
		in.tex.SetSpeedScale(in.tex.SpeedScale() / 2)
	case 'i':
		in.inspected = !in.inspected
		in.tex.SetInspected(in.inspected)
	}
	return true
}

// step 按真实经过的时间推进 frameloop
func (in *Inspector) step() {
	now := time.Now()
	in.loop.Step(now.Sub(in.lastTick).Seconds())
	in.lastTick = now
}

func (in *Inspector) drawText(x, y int, style tcell.Style, s string) {
	for _, r := range s {
		in.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// draw 绘制时间轴和状态
func (in *Inspector) draw() {
	in.screen.Clear()
	width, _ := in.screen.Size()
	plain := tcell.StyleDefault
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)

	in.drawText(0, 0, plain, fmt.Sprintf("文件: %s", *filePath))
	in.drawText(0, 1, plain, fmt.Sprintf("动画: %s (%d/%d)  状态: %s  播放: %v  速度: %.2f",
		in.tex.Animation(), in.animIndex+1, len(in.names), in.tex.State(), in.tex.IsPlaying(), in.tex.SpeedScale()))
	in.drawText(0, 2, plain, fmt.Sprintf("帧: %d/%d  进度: %.3fs  帧变化: %d  播放结束: %d  检查中: %v",
		in.tex.Frame(), in.tex.FrameCount(), in.tex.Progress(), in.changes, in.finishes, in.inspected))

	frames := in.tex.Frames()
	anim := in.tex.Animation()
	total := 0.0
	if frames != nil {
		total = texture.TotalDuration(frames, anim)
	}

	// 时间轴：每帧的宽度与其时长成正比
	const row = 4
	if total > 0 && width > 2 {
		x := 0
		for i := 0; i < frames.FrameCount(anim); i++ {
			w := int(frames.FrameDuration(anim, i) / frames.Speed(anim) / total * float64(width-1))
			if w < 1 {
				w = 1
			}
			style := tcell.StyleDefault.Background(frameColors[i%len(frameColors)])
			ch := ' '
			if i == in.tex.Frame() {
				ch = '█'
			}
			for dx := 0; dx < w && x < width; dx++ {
				in.screen.SetContent(x, row, ch, nil, style)
				x++
			}
		}
		cursor := int(in.tex.Progress() / total * float64(width-1))
		in.screen.SetContent(cursor, row+1, '^', nil, plain)
	}

	if i := in.tex.Frame(); frames != nil && i >= 0 && i < frames.FrameCount(anim) {
		in.drawText(0, row+3, plain, "当前帧: "+preview.Label(frames.FrameTexture(anim, i)))
	}

	in.drawText(0, row+5, dim, "空格 播放/暂停  n 下一个动画  f 下一帧  r 重置  +/- 速度  i 检查状态  q 退出")
	in.screen.Show()
}

// Run 事件循环
func (in *Inspector) Run() {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go pollEvents(in.screen, eventChan)

	for {
		select {
		case ev, ok := <-eventChan:
			if !ok {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !in.handleKey(ev) {
					return
				}
			case *tcell.EventResize:
				in.screen.Sync()
			}
		case <-ticker.C:
			in.step()
			in.draw()
		}
	}
}

// pollEvents 转发终端事件，PollEvent 返回 nil（屏幕已 Fini）时关闭通道并退出
func pollEvents(screen tcell.Screen, events chan<- tcell.Event) {
	defer close(events)
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		events <- ev
	}
}

func main() {
	flag.Parse()
	if *filePath == "" {
		fmt.Println("用法: go run cmd/animtex_term/main.go --file=<sprite-frames文件>")
		os.Exit(1)
	}

	doc, err := spriteframes.ParseFile(*filePath)
	if err != nil {
		log.Fatalf("解析失败: %v", err)
	}

	cfg := config.DefaultTextureConfig()
	if *configPath != "" {
		cfg = config.LoadTextureConfigOrDefault(*configPath)
	}

	in, err := NewInspector(preview.BuildFrames(doc), cfg)
	if err != nil {
		log.Fatalf("终端初始化失败: %v", err)
	}
	defer in.screen.Fini()

	in.Run()
}
