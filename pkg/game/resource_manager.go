package game

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/decker502/animtex/internal/spriteframes"
	"github.com/decker502/animtex/pkg/config"
	"github.com/decker502/animtex/pkg/embedded"
	"github.com/decker502/animtex/pkg/texture"
	"github.com/hajimehoshi/ebiten/v2"
	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// ResourceManager is responsible for centralized management of texture resources.
// It loads and caches images, sprite-frames documents and the animated textures
// built from nested document references, so each resource is loaded only once.
//
// The ResourceManager implements the following key features:
// - Image loading and caching (PNG, JPEG, BMP and WebP)
// - Sprite-frames loading (YAML and XML) with per-frame heal backups
// - One shared AnimatedTexture per nested document path
// - texture.ImageLoader, so HealCache can reload broken frames through the cache
// - Bundled files: paths present in the embedded data FS are read from it first
//
// Thread Safety Note:
// This implementation is NOT thread-safe. Like the rest of the texture stack it
// must be used from the game loop goroutine only.
//
// Usage:
//
//	loop := frameloop.New()
//	rm := NewResourceManager(loop, config.DefaultTextureConfig())
//	frames, err := rm.LoadSpriteFrames("assets/sprites/hero.yaml")
//	if err != nil {
//	    log.Printf("Failed to load sprite frames: %v", err)
//	}
//	hero := rm.NewTexture("hero")
//	hero.SetFrames(frames)
type ResourceManager struct {
	imageCache  map[string]*ebiten.Image            // Cache for loaded images: path -> Image
	framesCache map[string]*texture.SpriteFrames    // Cache for built sprite frames: document path -> SpriteFrames
	nestedCache map[string]*texture.AnimatedTexture // Cache for nested textures: document path -> texture

	tick    texture.TickSource
	config  *config.TextureConfig
	backups *BackupStore
}

// NewResourceManager creates and initializes a new ResourceManager instance.
//
// Parameters:
//   - tick: The tick source driving every texture the manager creates. May be nil.
//   - cfg: Texture configuration. nil uses config.DefaultTextureConfig().
//
// Returns:
//   - A pointer to a newly initialized ResourceManager with empty caches.
func NewResourceManager(tick texture.TickSource, cfg *config.TextureConfig) *ResourceManager {
	if cfg == nil {
		cfg = config.DefaultTextureConfig()
	}
	return &ResourceManager{
		imageCache:  make(map[string]*ebiten.Image),
		framesCache: make(map[string]*texture.SpriteFrames),
		nestedCache: make(map[string]*texture.AnimatedTexture),
		tick:        tick,
		config:      cfg,
	}
}

// SetBackupStore attaches a persistent store. Backups of every loaded
// sprite-frames document are saved to it.
func (rm *ResourceManager) SetBackupStore(store *BackupStore) {
	rm.backups = store
}

// Options returns the texture options every texture created by the manager uses.
func (rm *ResourceManager) Options(name string) texture.Options {
	opts := rm.config.ToOptions(rm.tick, rm)
	opts.Name = name
	return opts
}

// NewTexture creates an AnimatedTexture wired to the manager's tick source,
// configuration and image cache.
func (rm *ResourceManager) NewTexture(name string) *texture.AnimatedTexture {
	return texture.NewAnimatedTexture(rm.Options(name))
}

// LoadImage loads an image file from the specified path and caches it for future use.
// If the image has already been loaded, it returns the cached version.
//
// Parameters:
//   - path: The file path to the image resource (e.g., "assets/sprites/hero.png").
//
// Returns:
//   - A pointer to the loaded ebiten.Image.
//   - An error if the file cannot be opened or decoded.
func (rm *ResourceManager) LoadImage(path string) (*ebiten.Image, error) {
	if cachedImage, exists := rm.imageCache[path]; exists {
		return cachedImage, nil
	}

	file, err := openResource(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	ebitenImg := ebiten.NewImageFromImage(img)
	rm.imageCache[path] = ebitenImg
	return ebitenImg, nil
}

// GetImage retrieves a previously loaded image from the cache, or nil.
func (rm *ResourceManager) GetImage(path string) *ebiten.Image {
	return rm.imageCache[path]
}

// RegisterImage stores an image under path as if it had been loaded from disk.
// Used for procedurally generated atlases.
func (rm *ResourceManager) RegisterImage(path string, img *ebiten.Image) {
	rm.imageCache[path] = img
}

// EvictImage removes an image from the cache. Frames built from it keep their
// reference; the next heal reloads from disk.
func (rm *ResourceManager) EvictImage(path string) {
	delete(rm.imageCache, path)
}

// LoadSpriteFrames loads a sprite-frames document and builds its frames.
// The result is cached per path.
//
// Image frames that fail to load are kept as broken drawables with a heal backup,
// so the texture displaying them recovers once the image becomes loadable.
// Nested frames become the shared AnimatedTexture of the referenced document.
//
// Parameters:
//   - path: The document path (.yaml, .yml or .xml).
//
// Returns:
//   - The built SpriteFrames.
//   - An error if the document cannot be read, parsed or validated.
func (rm *ResourceManager) LoadSpriteFrames(path string) (*texture.SpriteFrames, error) {
	path = filepath.Clean(path)
	if cached, exists := rm.framesCache[path]; exists {
		return cached, nil
	}

	data, err := readResource(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sprite frames file '%s': %w", path, err)
	}
	doc, err := spriteframes.Parse(data, spriteframes.FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse '%s': %w", path, err)
	}

	sf, err := rm.buildFrames(path, doc)
	if err != nil {
		return nil, err
	}

	// A self-referencing document may have cached itself while building
	if cached, exists := rm.framesCache[path]; exists {
		return cached, nil
	}
	rm.framesCache[path] = sf

	if rm.backups != nil {
		if err := rm.backups.Save(path, sf); err != nil {
			log.Printf("[ResourceManager] Warning: failed to store backups for %s: %v", path, err)
		}
	}
	return sf, nil
}

// NestedTexture returns the shared AnimatedTexture displaying the document at path.
// The texture is cached before its frames are built, so documents referencing
// themselves (directly or through others) get the same instance back.
func (rm *ResourceManager) NestedTexture(path string) (*texture.AnimatedTexture, error) {
	path = filepath.Clean(path)
	if tex, exists := rm.nestedCache[path]; exists {
		return tex, nil
	}

	tex := rm.NewTexture(path)
	rm.nestedCache[path] = tex

	sf, err := rm.LoadSpriteFrames(path)
	if err != nil {
		delete(rm.nestedCache, path)
		return nil, fmt.Errorf("failed to load nested texture %s: %w", path, err)
	}
	tex.SetFrames(sf)
	return tex, nil
}

// buildFrames converts a parsed document into a SpriteFrames resource.
// Relative image and nested paths are resolved against the document directory.
func (rm *ResourceManager) buildFrames(path string, doc *spriteframes.Document) (*texture.SpriteFrames, error) {
	dir := filepath.Dir(path)
	sf := texture.NewSpriteFrames()
	if doc.Find(texture.DefaultAnimation) == nil && len(doc.Animations) > 0 {
		sf.RemoveAnimation(texture.DefaultAnimation)
	}

	for _, anim := range doc.Animations {
		sf.AddAnimation(anim.Name)
		sf.SetSpeed(anim.Name, anim.FPS)
		sf.SetLoop(anim.Name, anim.Looping())

		for i, frame := range anim.Frames {
			if frame.Nested != "" {
				nested, err := rm.NestedTexture(resolvePath(dir, frame.Nested))
				if err != nil {
					return nil, fmt.Errorf("%s: animation '%s' frame %d: %w", path, anim.Name, i, err)
				}
				sf.AddFrame(anim.Name, nested, frame.RelativeDuration())
				continue
			}

			imagePath := resolvePath(dir, frame.Image)
			region, hasRegion := frame.Rect()
			sf.AddFrame(anim.Name, rm.frameDrawable(imagePath, region, hasRegion), frame.RelativeDuration())

			kind := texture.BackupImage
			if hasRegion {
				kind = texture.BackupAtlas
			}
			sf.SetBackup(anim.Name, i, texture.Backup{
				Path:      imagePath,
				Region:    region,
				HasRegion: hasRegion,
				Kind:      kind,
			})
		}
	}
	return sf, nil
}

// frameDrawable loads the drawable of an image frame. A failed load yields a
// broken drawable that keeps its path for healing.
func (rm *ResourceManager) frameDrawable(path string, region image.Rectangle, hasRegion bool) texture.Drawable {
	img, err := rm.LoadImage(path)
	if err != nil {
		log.Printf("[ResourceManager] Warning: %v (frame left for healing)", err)
		img = nil
	}
	if hasRegion {
		return texture.NewAtlasTexture(img, region, path)
	}
	return texture.NewImageTexture(img, path)
}

// openResource opens path from the embedded data FS when it is bundled there,
// otherwise from disk.
func openResource(path string) (io.ReadCloser, error) {
	if embedded.Exists(path) {
		return embedded.Open(path)
	}
	return os.Open(path)
}

func readResource(path string) ([]byte, error) {
	if embedded.Exists(path) {
		return embedded.ReadFile(path)
	}
	return os.ReadFile(path)
}

func resolvePath(dir, ref string) string {
	if filepath.IsAbs(ref) {
		return filepath.Clean(ref)
	}
	return filepath.Join(dir, ref)
}
