package game

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/decker502/animtex/pkg/config"
	"github.com/decker502/animtex/pkg/embedded"
	"github.com/decker502/animtex/pkg/frameloop"
	"github.com/decker502/animtex/pkg/texture"
)

// createTestImage creates a simple w x h blue PNG image for testing purposes.
func createTestImage(path string, w, h int) error {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	blue := color.RGBA{R: 0, G: 0, B: 255, A: 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, blue)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// writeFile writes a test document, failing the test on error.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func newTestResourceManager() *ResourceManager {
	return NewResourceManager(frameloop.New(), config.DefaultTextureConfig())
}

// TestNewResourceManager tests the creation of a new ResourceManager instance.
func TestNewResourceManager(t *testing.T) {
	rm := NewResourceManager(nil, nil)

	if rm.imageCache == nil || rm.framesCache == nil || rm.nestedCache == nil {
		t.Fatal("Expected caches to be initialized")
	}
	if rm.config == nil {
		t.Error("Expected default config when nil is passed")
	}

	opts := rm.Options("hero")
	if opts.Name != "hero" {
		t.Errorf("Options name: got %q, want %q", opts.Name, "hero")
	}
	if opts.Loader != rm {
		t.Error("Textures should heal through the resource manager")
	}
}

// TestLoadImage tests loading and caching of an image file.
func TestLoadImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.png")
	if err := createTestImage(path, 10, 10); err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}

	rm := newTestResourceManager()

	img, err := rm.LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage() error: %v", err)
	}
	if w, h := img.Bounds().Dx(), img.Bounds().Dy(); w != 10 || h != 10 {
		t.Errorf("Image size: got %dx%d, want 10x10", w, h)
	}

	again, err := rm.LoadImage(path)
	if err != nil {
		t.Fatalf("Second LoadImage() error: %v", err)
	}
	if again != img {
		t.Error("Expected cached image on second load")
	}
	if rm.GetImage(path) != img {
		t.Error("GetImage should return the cached image")
	}

	rm.EvictImage(path)
	if rm.GetImage(path) != nil {
		t.Error("EvictImage should drop the cached image")
	}
}

// TestLoadImageErrors tests error handling for missing and invalid files.
func TestLoadImageErrors(t *testing.T) {
	dir := t.TempDir()
	rm := newTestResourceManager()

	if _, err := rm.LoadImage(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("Expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.png")
	writeFile(t, bad, "not an image")
	if _, err := rm.LoadImage(bad); err == nil {
		t.Error("Expected error for invalid image data")
	}
	if rm.GetImage(bad) != nil {
		t.Error("Failed loads must not be cached")
	}
}

// TestLoadSpriteFrames tests building frames from a YAML document with an atlas.
func TestLoadSpriteFrames(t *testing.T) {
	dir := t.TempDir()
	if err := createTestImage(filepath.Join(dir, "sheets", "hero.png"), 64, 32); err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	docPath := filepath.Join(dir, "hero.yaml")
	writeFile(t, docPath, `animations:
  - name: walk
    fps: 8
    frames:
      - image: sheets/hero.png
        region: [0, 0, 32, 32]
      - image: sheets/hero.png
        region: [32, 0, 32, 32]
        duration: 2
  - name: die
    fps: 4
    loop: false
    frames:
      - image: sheets/hero.png
`)

	rm := newTestResourceManager()
	sf, err := rm.LoadSpriteFrames(docPath)
	if err != nil {
		t.Fatalf("LoadSpriteFrames() error: %v", err)
	}

	if sf.HasAnimation(texture.DefaultAnimation) {
		t.Error("Documents without a default animation should not get one")
	}
	if sf.FrameCount("walk") != 2 || sf.FrameCount("die") != 1 {
		t.Errorf("Frame counts: walk=%d die=%d", sf.FrameCount("walk"), sf.FrameCount("die"))
	}
	if sf.Speed("walk") != 8 || !sf.Loop("walk") {
		t.Errorf("walk: speed=%v loop=%v", sf.Speed("walk"), sf.Loop("walk"))
	}
	if sf.Loop("die") {
		t.Error("die should not loop")
	}
	if sf.FrameDuration("walk", 1) != 2 {
		t.Errorf("walk frame 1 duration: got %v, want 2", sf.FrameDuration("walk", 1))
	}

	atlas, ok := sf.FrameTexture("walk", 1).(*texture.AtlasTexture)
	if !ok {
		t.Fatalf("Expected *texture.AtlasTexture, got %T", sf.FrameTexture("walk", 1))
	}
	if atlas.Region != image.Rect(32, 0, 64, 32) {
		t.Errorf("Region: got %v", atlas.Region)
	}
	if _, ok := sf.FrameTexture("die", 0).(*texture.ImageTexture); !ok {
		t.Errorf("Expected *texture.ImageTexture, got %T", sf.FrameTexture("die", 0))
	}

	b, ok := sf.Backup("walk", 1)
	if !ok {
		t.Fatal("Expected a backup for walk frame 1")
	}
	wantPath := filepath.Join(dir, "sheets", "hero.png")
	if b.Path != wantPath || b.Kind != texture.BackupAtlas || !b.HasRegion {
		t.Errorf("Unexpected backup: %+v", b)
	}

	again, err := rm.LoadSpriteFrames(docPath)
	if err != nil || again != sf {
		t.Error("Expected cached frames on second load")
	}
}

// TestLoadSpriteFramesXML tests the XML document format.
func TestLoadSpriteFramesXML(t *testing.T) {
	dir := t.TempDir()
	if err := createTestImage(filepath.Join(dir, "coin.png"), 40, 10); err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	docPath := filepath.Join(dir, "coin.xml")
	writeFile(t, docPath, `<anim>
  <name>default</name>
  <fps>10</fps>
  <t><i>coin.png</i><r>0,0,10,10</r></t>
  <t><i>coin.png</i><r>10,0,10,10</r></t>
  <t><i>coin.png</i><r>20,0,10,10</r></t>
</anim>
`)

	rm := newTestResourceManager()
	sf, err := rm.LoadSpriteFrames(docPath)
	if err != nil {
		t.Fatalf("LoadSpriteFrames() error: %v", err)
	}
	if sf.FrameCount(texture.DefaultAnimation) != 3 {
		t.Fatalf("Frame count: got %d, want 3", sf.FrameCount(texture.DefaultAnimation))
	}

	tex := rm.NewTexture("coin")
	tex.SetFrames(sf)
	if tex.Width() != 10 || tex.Height() != 10 {
		t.Errorf("Size: got %dx%d, want 10x10", tex.Width(), tex.Height())
	}
}

// TestNestedTexture tests that nested references share one texture per document.
func TestNestedTexture(t *testing.T) {
	dir := t.TempDir()
	if err := createTestImage(filepath.Join(dir, "spark.png"), 8, 8); err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	writeFile(t, filepath.Join(dir, "fx", "spark.yaml"), `animations:
  - name: default
    fps: 12
    frames:
      - image: ../spark.png
`)
	writeFile(t, filepath.Join(dir, "hero.yaml"), `animations:
  - name: idle
    fps: 4
    frames:
      - nested: fx/spark.yaml
      - nested: fx/spark.yaml
`)

	rm := newTestResourceManager()
	sf, err := rm.LoadSpriteFrames(filepath.Join(dir, "hero.yaml"))
	if err != nil {
		t.Fatalf("LoadSpriteFrames() error: %v", err)
	}

	first, ok := sf.FrameTexture("idle", 0).(*texture.AnimatedTexture)
	if !ok {
		t.Fatalf("Expected nested *texture.AnimatedTexture, got %T", sf.FrameTexture("idle", 0))
	}
	if sf.FrameTexture("idle", 1) != first {
		t.Error("Both frames should share the nested texture")
	}

	shared, err := rm.NestedTexture(filepath.Join(dir, "fx", "spark.yaml"))
	if err != nil {
		t.Fatalf("NestedTexture() error: %v", err)
	}
	if shared != first {
		t.Error("NestedTexture should return the cached instance")
	}

	hero := rm.NewTexture("hero")
	hero.SetFrames(sf)
	if _, ok := hero.Resolved().(*texture.ImageTexture); !ok {
		t.Errorf("Nested chain should resolve to the image, got %T", hero.Resolved())
	}
	if d, ok := texture.Depth(hero); !ok || d != 2 {
		t.Errorf("Depth: got %d (%v), want 2", d, ok)
	}
}

// TestNestedTextureSelfReference tests that a document nesting itself loads
// and resolves to nothing instead of recursing.
func TestNestedTextureSelfReference(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "loop.yaml")
	writeFile(t, docPath, `animations:
  - name: default
    frames:
      - nested: loop.yaml
`)

	rm := newTestResourceManager()
	tex, err := rm.NestedTexture(docPath)
	if err != nil {
		t.Fatalf("NestedTexture() error: %v", err)
	}
	if tex.Resolved() != nil {
		t.Errorf("Self reference should resolve to nil, got %v", tex.Resolved())
	}

	sf, err := rm.LoadSpriteFrames(docPath)
	if err != nil {
		t.Fatalf("LoadSpriteFrames() error: %v", err)
	}
	if sf.FrameTexture(texture.DefaultAnimation, 0) != tex {
		t.Error("The frame should be the document's own shared texture")
	}
}

// TestNestedTextureErrors tests errors for bad nested references.
func TestNestedTextureErrors(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "broken.yaml")
	writeFile(t, docPath, `animations:
  - name: default
    frames:
      - nested: missing.yaml
`)

	rm := newTestResourceManager()
	_, err := rm.LoadSpriteFrames(docPath)
	if err == nil {
		t.Fatal("Expected error for missing nested document")
	}
	if !strings.Contains(err.Error(), "missing.yaml") {
		t.Errorf("Error should name the nested document: %v", err)
	}
	if len(rm.nestedCache) != 0 {
		t.Error("A failed nested load must not stay cached")
	}
}

// TestMissingImageHeals tests that a frame whose image failed to load recovers
// once the file exists.
func TestMissingImageHeals(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "late.png")
	docPath := filepath.Join(dir, "late.yaml")
	writeFile(t, docPath, `animations:
  - name: default
    frames:
      - image: late.png
`)

	rm := newTestResourceManager()
	sf, err := rm.LoadSpriteFrames(docPath)
	if err != nil {
		t.Fatalf("LoadSpriteFrames() should tolerate missing images: %v", err)
	}

	broken := rm.NewTexture("broken")
	broken.SetFrames(sf)
	if broken.Width() != 0 {
		t.Errorf("Missing image should have no size, got %d", broken.Width())
	}

	if err := createTestImage(imgPath, 12, 6); err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}

	healed := rm.NewTexture("healed")
	healed.SetFrames(sf)
	img, ok := healed.Resolved().(*texture.ImageTexture)
	if !ok || img.Image == nil {
		t.Fatalf("Expected a healed image, got %T", healed.Resolved())
	}
	if healed.Width() != 12 || healed.Height() != 6 {
		t.Errorf("Healed size: got %dx%d, want 12x6", healed.Width(), healed.Height())
	}
	if rm.GetImage(imgPath) == nil {
		t.Error("Healing should load through the image cache")
	}
}

// TestLoadSpriteFramesStoresBackups tests that loaded documents are saved to the backup store.
func TestLoadSpriteFramesStoresBackups(t *testing.T) {
	dir := t.TempDir()
	if err := createTestImage(filepath.Join(dir, "a.png"), 4, 4); err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	docPath := filepath.Join(dir, "a.yaml")
	writeFile(t, docPath, `animations:
  - name: default
    frames:
      - image: a.png
      - image: a.png
        region: [0, 0, 2, 2]
`)

	rm := newTestResourceManager()
	store := NewBackupStore(nil)
	rm.SetBackupStore(store)

	if _, err := rm.LoadSpriteFrames(docPath); err != nil {
		t.Fatalf("LoadSpriteFrames() error: %v", err)
	}

	records, err := store.Load(filepath.Clean(docPath))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].Atlas || !records[1].Atlas {
		t.Errorf("Atlas flags: got %v, %v", records[0].Atlas, records[1].Atlas)
	}
}

// TestLoadSpriteFramesErrors tests invalid documents.
func TestLoadSpriteFramesErrors(t *testing.T) {
	dir := t.TempDir()
	rm := newTestResourceManager()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"missing file", "none.yaml", ""},
		{"bad yaml", "bad.yaml", "animations: ["},
		{"negative fps", "neg.yaml", "animations:\n  - name: a\n    fps: -1\n    frames: []\n"},
		{"both image and nested", "both.yaml", "animations:\n  - name: a\n    frames:\n      - image: x.png\n        nested: y.yaml\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if tt.content != "" {
				writeFile(t, path, tt.content)
			}
			if _, err := rm.LoadSpriteFrames(path); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

// TestLoadFromEmbedded tests that bundled files are read from the embedded data FS.
func TestLoadFromEmbedded(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 20, 5))); err != nil {
		t.Fatalf("Failed to encode image: %v", err)
	}
	embedded.Init(fstest.MapFS{
		"data/frames/strip.png": {Data: buf.Bytes()},
		"data/frames/strip.yaml": {Data: []byte(`animations:
  - name: default
    fps: 10
    frames:
      - image: strip.png
        region: [0, 0, 5, 5]
      - image: strip.png
        region: [5, 0, 5, 5]
`)},
	})
	t.Cleanup(func() { embedded.Init(nil) })

	rm := newTestResourceManager()
	sf, err := rm.LoadSpriteFrames("data/frames/strip.yaml")
	if err != nil {
		t.Fatalf("LoadSpriteFrames() error: %v", err)
	}
	if sf.FrameCount(texture.DefaultAnimation) != 2 {
		t.Fatalf("Frame count: got %d, want 2", sf.FrameCount(texture.DefaultAnimation))
	}
	atlas, ok := sf.FrameTexture(texture.DefaultAnimation, 1).(*texture.AtlasTexture)
	if !ok || atlas.Atlas == nil {
		t.Fatalf("Expected a loaded atlas frame, got %T", sf.FrameTexture(texture.DefaultAnimation, 1))
	}
	if w := atlas.Atlas.Bounds().Dx(); w != 20 {
		t.Errorf("Atlas width: got %d, want 20", w)
	}
}
