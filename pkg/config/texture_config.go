package config

import (
	"fmt"
	"log"
	"os"

	"github.com/decker502/animtex/pkg/embedded"
	"github.com/decker502/animtex/pkg/texture"
	"gopkg.in/yaml.v3"
)

// TextureConfig 动画纹理的全局配置
// 对应 YAML 文件，例如：
//
//	autoplay: true
//	speed_scale: 1.0
//	hibernate_check_interval: 1.0
//	owner_property_names: [Texture, Icon, Normal, Hover, Pressed, Disabled, Background]
//	verbose: false
type TextureConfig struct {
	// Autoplay 设置帧数据或唤醒时是否自动播放（默认 true）
	Autoplay *bool `yaml:"autoplay,omitempty"`

	// SpeedScale 播放速度倍率，最小 0.1
	SpeedScale float64 `yaml:"speed_scale"`

	// HibernateCheckInterval 休眠检查间隔（秒，按 tick 时间累计）
	HibernateCheckInterval float64 `yaml:"hibernate_check_interval"`

	// OwnerPropertyNames 查找所有者属性时优先检查的属性名
	OwnerPropertyNames []string `yaml:"owner_property_names,omitempty"`

	// Verbose 是否打印休眠/唤醒日志
	Verbose bool `yaml:"verbose"`
}

// DefaultTextureConfig 返回默认配置
func DefaultTextureConfig() *TextureConfig {
	autoplay := true
	names := make([]string, len(texture.DefaultOwnerPropertyNames))
	copy(names, texture.DefaultOwnerPropertyNames)
	return &TextureConfig{
		Autoplay:               &autoplay,
		SpeedScale:             1.0,
		HibernateCheckInterval: texture.DefaultCheckInterval,
		OwnerPropertyNames:     names,
	}
}

// LoadTextureConfig 从 YAML 文件加载纹理配置
// 文件中缺省的字段使用默认值；内置文件（data/ 下）优先于磁盘文件
//
// 参数：
//   - path: 配置文件路径
//
// 返回：
//   - *TextureConfig: 解析后的配置对象
//   - error: 加载、解析或验证错误
func LoadTextureConfig(path string) (*TextureConfig, error) {
	var data []byte
	var err error
	if embedded.Exists(path) {
		data, err = embedded.ReadFile(path)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read texture config %s: %w", path, err)
	}

	cfg, err := ParseTextureConfig(data)
	if err != nil {
		return nil, fmt.Errorf("texture config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseTextureConfig 解析 YAML 数据并验证
func ParseTextureConfig(data []byte) (*TextureConfig, error) {
	cfg := DefaultTextureConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse texture config: %w", err)
	}
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid texture config: %w", err)
	}
	return cfg, nil
}

// LoadTextureConfigOrDefault 加载配置，失败时打印警告并返回默认配置
func LoadTextureConfigOrDefault(path string) *TextureConfig {
	cfg, err := LoadTextureConfig(path)
	if err != nil {
		log.Printf("[TextureConfig] Warning: %v (using defaults)", err)
		return DefaultTextureConfig()
	}
	return cfg
}

// validateConfig 验证配置的正确性
func validateConfig(cfg *TextureConfig) error {
	if cfg.HibernateCheckInterval <= 0 {
		return fmt.Errorf("'hibernate_check_interval' must be positive, got %v", cfg.HibernateCheckInterval)
	}
	if cfg.SpeedScale < texture.MinSpeedScale {
		return fmt.Errorf("'speed_scale' must be at least %v, got %v", texture.MinSpeedScale, cfg.SpeedScale)
	}
	seen := make(map[string]bool, len(cfg.OwnerPropertyNames))
	for i, name := range cfg.OwnerPropertyNames {
		if name == "" {
			return fmt.Errorf("'owner_property_names' entry #%d is empty", i)
		}
		if seen[name] {
			return fmt.Errorf("'owner_property_names' lists %q twice", name)
		}
		seen[name] = true
	}
	return nil
}

// AutoplayEnabled 返回自动播放设置（未设置时为 true）
func (c *TextureConfig) AutoplayEnabled() bool {
	return c.Autoplay == nil || *c.Autoplay
}

// ToOptions 把配置转换为 texture.Options
//
// 参数：
//   - tick: 驱动播放的 tick 源，可为 nil
//   - loader: 修复损坏帧时使用的图片加载器，可为 nil
func (c *TextureConfig) ToOptions(tick texture.TickSource, loader texture.ImageLoader) texture.Options {
	opts := texture.DefaultOptions(tick)
	opts.Loader = loader
	opts.Autoplay = c.AutoplayEnabled()
	opts.SpeedScale = c.SpeedScale
	opts.CheckInterval = c.HibernateCheckInterval
	opts.Verbose = c.Verbose
	if len(c.OwnerPropertyNames) > 0 {
		opts.OwnerPropertyNames = c.OwnerPropertyNames
	}
	return opts
}
