package game

import (
	"fmt"
	"image"
	"log"
	"strings"

	"github.com/decker502/animtex/pkg/texture"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// BackupRecord 一帧的修复信息（持久化格式）
type BackupRecord struct {
	Animation string `yaml:"animation"`
	Index     int    `yaml:"index"`
	Path      string `yaml:"path"`
	Region    []int  `yaml:"region,omitempty"` // [x, y, w, h]
	Atlas     bool   `yaml:"atlas,omitempty"`
}

// backupDocument 一个 sprite-frames 资源的全部修复信息
type backupDocument struct {
	Name    string         `yaml:"name"`
	Records []BackupRecord `yaml:"records"`
}

// BackupStore 修复信息存储
// 负责把加载时捕获的帧修复信息持久化，以便代码中构建的帧也能被修复
//
// 存储结构：
//   - gdata object: "backups"
//   - gdata property: 资源名（转为安全的键名）
//   - 数据格式: YAML
type BackupStore struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式，仅内存）
	memory       map[string]*backupDocument
}

const backupsObject = "backups"

// NewBackupStore 创建修复信息存储
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存）
func NewBackupStore(gdataManager *gdata.Manager) *BackupStore {
	return &BackupStore{
		gdataManager: gdataManager,
		memory:       make(map[string]*backupDocument),
	}
}

// Save 捕获 frames 中所有帧的修复信息并保存
//
// 返回：
//   - error: 如果序列化或写入失败返回错误（内存中的数据仍然更新）
func (s *BackupStore) Save(name string, frames *texture.SpriteFrames) error {
	doc := &backupDocument{Name: name}
	for _, anim := range frames.AnimationNames() {
		for i := 0; i < frames.FrameCount(anim); i++ {
			b, ok := frames.Backup(anim, i)
			if !ok {
				continue
			}
			doc.Records = append(doc.Records, toRecord(anim, i, b))
		}
	}
	s.memory[name] = doc

	// 降级模式：无法持久化，但不报错
	if s.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal backups for %s: %w", name, err)
	}
	if err := s.gdataManager.SaveObjectProp(backupsObject, backupKey(name), data); err != nil {
		return fmt.Errorf("failed to save backups for %s: %w", name, err)
	}
	return nil
}

// Load 读取资源的修复信息，先查内存再查 gdata
//
// 返回：
//   - []BackupRecord: 记录列表，不存在时为 nil
//   - error: 如果读取或反序列化失败返回错误
func (s *BackupStore) Load(name string) ([]BackupRecord, error) {
	if doc, ok := s.memory[name]; ok {
		return doc.Records, nil
	}
	if s.gdataManager == nil || !s.gdataManager.ObjectPropExists(backupsObject, backupKey(name)) {
		return nil, nil
	}

	data, err := s.gdataManager.LoadObjectProp(backupsObject, backupKey(name))
	if err != nil {
		return nil, fmt.Errorf("failed to load backups for %s: %w", name, err)
	}
	var doc backupDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal backups for %s: %w", name, err)
	}
	s.memory[name] = &doc
	return doc.Records, nil
}

// Restore 把保存的修复信息写回 frames 中缺少修复信息的帧
// 返回写回的帧数量；读取失败时打印警告并返回 0
func (s *BackupStore) Restore(name string, frames *texture.SpriteFrames) int {
	records, err := s.Load(name)
	if err != nil {
		log.Printf("[BackupStore] Warning: %v", err)
		return 0
	}
	restored := 0
	for _, r := range records {
		if r.Index < 0 || r.Index >= frames.FrameCount(r.Animation) {
			continue
		}
		if _, has := frames.Backup(r.Animation, r.Index); has {
			continue
		}
		frames.SetBackup(r.Animation, r.Index, r.toBackup())
		restored++
	}
	return restored
}

// Source 返回名为 name 的资源的 texture.BackupSource 视图
func (s *BackupStore) Source(name string) texture.BackupSource {
	return &storedBackups{store: s, name: name}
}

type storedBackups struct {
	store *BackupStore
	name  string
}

func (b *storedBackups) Backup(animation string, index int) (texture.Backup, bool) {
	records, err := b.store.Load(b.name)
	if err != nil {
		return texture.Backup{}, false
	}
	for _, r := range records {
		if r.Animation == animation && r.Index == index {
			return r.toBackup(), true
		}
	}
	return texture.Backup{}, false
}

func toRecord(anim string, index int, b texture.Backup) BackupRecord {
	r := BackupRecord{
		Animation: anim,
		Index:     index,
		Path:      b.Path,
		Atlas:     b.Kind == texture.BackupAtlas,
	}
	if b.HasRegion {
		r.Region = []int{b.Region.Min.X, b.Region.Min.Y, b.Region.Dx(), b.Region.Dy()}
	}
	return r
}

func (r BackupRecord) toBackup() texture.Backup {
	b := texture.Backup{Path: r.Path, Kind: texture.BackupImage}
	if r.Atlas {
		b.Kind = texture.BackupAtlas
	}
	if len(r.Region) == 4 {
		x, y := r.Region[0], r.Region[1]
		b.Region = image.Rect(x, y, x+r.Region[2], y+r.Region[3])
		b.HasRegion = true
	}
	return b
}

// backupKey 把资源名（通常是文件路径）转换为 gdata 可用的属性名
func backupKey(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
