// cmd/inspect_frames/main.go
// sprite-frames 文件检查工具：打印每个动画的时间表，并模拟播放
//
// 用法：
//   go run cmd/inspect_frames/main.go --file=assets/frames/hero.yaml --anim=walk --seconds=2

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/decker502/animtex/internal/preview"
	"github.com/decker502/animtex/internal/spriteframes"
	"github.com/decker502/animtex/pkg/config"
	"github.com/decker502/animtex/pkg/frameloop"
	"github.com/decker502/animtex/pkg/texture"
)

var (
	filePath   = flag.String("file", "", "sprite-frames 文件路径（.yaml/.yml/.xml）")
	animName   = flag.String("anim", "", "模拟播放的动画名（默认第一个动画）")
	seconds    = flag.Float64("seconds", 2.0, "模拟播放时长(秒)")
	tps        = flag.Int("tps", 60, "模拟的每秒 tick 数")
	speed      = flag.Float64("speed", 1.0, "播放速度倍率")
	configPath = flag.String("config", "", "纹理配置文件路径（可选）")
)

func main() {
	flag.Parse()
	if *filePath == "" {
		fmt.Println("用法: go run cmd/inspect_frames/main.go --file=<sprite-frames文件> [--anim=名称] [--seconds=2]")
		os.Exit(1)
	}

	doc, err := spriteframes.ParseFile(*filePath)
	if err != nil {
		log.Fatalf("解析失败: %v", err)
	}

	printTimingTable(doc)

	if refs := doc.NestedRefs(); len(refs) > 0 {
		fmt.Printf("\n嵌套引用: %s\n", strings.Join(refs, ", "))
	}

	cfg := config.DefaultTextureConfig()
	if *configPath != "" {
		cfg = config.LoadTextureConfigOrDefault(*configPath)
	}
	simulate(doc, cfg)
}

// printTimingTable 打印每个动画的帧时间表
func printTimingTable(doc *spriteframes.Document) {
	frames := preview.BuildFrames(doc)

	fmt.Printf("文件: %s\n", *filePath)
	fmt.Printf("动画数量: %d\n\n", len(doc.Animations))

	for _, anim := range doc.Animations {
		total := texture.TotalDuration(frames, anim.Name)
		fmt.Printf("=== %s  fps=%.2f  loop=%v  帧数=%d  总时长=%.3fs ===\n",
			anim.Name, anim.FPS, anim.Looping(), len(anim.Frames), total)
		if anim.FPS <= 0 {
			fmt.Println("  (fps 为 0，动画不会播放)")
			continue
		}

		start := 0.0
		for i, f := range anim.Frames {
			d := f.RelativeDuration() / anim.FPS
			fmt.Printf("  #%-3d %7.3fs - %7.3fs  %s\n", i, start, start+d, preview.Label(frames.FrameTexture(anim.Name, i)))
			start += d
		}
	}
}

// simulate 以固定步长驱动 frameloop，打印每次帧变化和播放结束
func simulate(doc *spriteframes.Document, cfg *config.TextureConfig) {
	frames := preview.BuildFrames(doc)
	names := frames.AnimationNames()
	if len(names) == 0 {
		fmt.Println("\n没有可播放的动画")
		return
	}
	name := *animName
	if name == "" {
		name = doc.Animations[0].Name
	}
	if !frames.HasAnimation(name) {
		log.Fatalf("动画 %q 不存在，可用: %s", name, strings.Join(names, ", "))
	}
	if *tps <= 0 {
		log.Fatalf("--tps 必须为正数，当前 %d", *tps)
	}

	loop := frameloop.New()
	opts := cfg.ToOptions(loop, nil)
	opts.Name = name
	opts.SpeedScale = *speed
	tex := texture.NewAnimatedTexture(opts)
	tex.SetFrames(frames)
	// 没有所有者的纹理会休眠，模拟期间标记为正在检查
	tex.SetInspected(true)
	tex.Play(name, 0)

	dt := 1.0 / float64(*tps)
	fmt.Printf("\n=== 模拟播放 %s: %.2fs @ %d tps, speed=%.2f ===\n", name, *seconds, *tps, tex.SpeedScale())
	fmt.Printf("  t=%7.3fs  frame=%d\n", 0.0, tex.Frame())

	changes, finishes := 0, 0
	tex.OnFrameChanged(func() {
		changes++
		fmt.Printf("  t=%7.3fs  frame=%d  progress=%.3f\n", loop.Elapsed(), tex.Frame(), tex.Progress())
	})
	tex.OnAnimationFinished(func() {
		finishes++
		fmt.Printf("  t=%7.3fs  finished\n", loop.Elapsed())
	})

	steps := int(*seconds * float64(*tps))
	for i := 0; i < steps; i++ {
		loop.Step(dt)
	}

	fmt.Printf("\n帧变化 %d 次, 播放结束 %d 次, 最终帧 %d, 状态 %s\n", changes, finishes, tex.Frame(), tex.State())
}
