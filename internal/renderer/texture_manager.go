package renderer

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"runtime"

	"Elk3D/internal/logger"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// TextureStats provides debugging and profiling information
type TextureStats struct {
	TotalTextures  int
	CacheHits      int
	CacheMisses    int
	ActiveTextures int
}

// TextureManager owns the GL textures that materials borrow. Textures are
// cached by path or name and freed when their reference count drops to zero.
// It is only used from the render thread.
type TextureManager struct {
	textureCache    map[string]uint32 // path or name -> texture ID
	textureRefCount map[uint32]int
	texturePaths    map[uint32]string
	stats           TextureStats
}

func NewTextureManager() *TextureManager {
	return &TextureManager{
		textureCache:    make(map[string]uint32),
		textureRefCount: make(map[uint32]int),
		texturePaths:    make(map[uint32]string),
	}
}

// LoadTexture loads an image file or returns the cached texture, taking a reference
func (tm *TextureManager) LoadTexture(filePath string) (uint32, error) {
	if id, ok := tm.hit(filePath); ok {
		return id, nil
	}

	img, err := decodeImage(filePath)
	if err != nil {
		return 0, err
	}
	return tm.upload(filePath, img), nil
}

// LoadTextures decodes the uncached paths on a worker pool and uploads them
// in order. A path listed more than once is decoded once and its texture
// takes one reference per listing. Either every texture is loaded or none is.
func (tm *TextureManager) LoadTextures(paths []string) ([]uint32, error) {
	ids, missing, slots := tm.planLoad(paths)

	images, err := decodeImages(missing, runtime.NumCPU())
	if err != nil {
		for _, id := range ids {
			if id != 0 {
				tm.ReleaseTexture(id)
			}
		}
		return nil, err
	}
	for j, img := range images {
		id := tm.upload(missing[j], img)
		tm.share(id, slots[j], ids)
	}
	return ids, nil
}

// planLoad resolves cache hits into ids and groups the remaining indices of
// paths by distinct path, in first-seen order.
func (tm *TextureManager) planLoad(paths []string) (ids []uint32, missing []string, slots [][]int) {
	ids = make([]uint32, len(paths))
	pending := make(map[string]int)
	for i, p := range paths {
		if j, ok := pending[p]; ok {
			slots[j] = append(slots[j], i)
			continue
		}
		if id, ok := tm.hit(p); ok {
			ids[i] = id
			continue
		}
		pending[p] = len(missing)
		missing = append(missing, p)
		slots = append(slots, []int{i})
	}
	return ids, missing, slots
}

// share hands id to every index in slots. The upload already holds the
// first reference.
func (tm *TextureManager) share(id uint32, slots []int, ids []uint32) {
	for _, i := range slots {
		ids[i] = id
	}
	if extra := len(slots) - 1; extra > 0 {
		tm.textureRefCount[id] += extra
	}
}

func decodeImage(filePath string) (*image.RGBA, error) {
	imgFile, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer imgFile.Close()

	img, _, err := image.Decode(imgFile)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", filePath, err)
	}
	return toRGBA(img), nil
}

// decodeImages decodes paths concurrently. Results keep the order of paths.
func decodeImages(paths []string, workers int) ([]*image.RGBA, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	pool := pond.NewResultPool[*image.RGBA](workers)
	defer pool.StopAndWait()

	group := pool.NewGroup()
	for _, p := range paths {
		path := p
		group.SubmitErr(func() (*image.RGBA, error) {
			return decodeImage(path)
		})
	}
	return group.Wait()
}

// toRGBA returns img as tightly packed RGBA, converting when needed
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == rgba.Rect.Dx()*4 && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// SolidTexture returns a 1x1 texture of color c cached under name. Used when a
// material has no map for a slot (black emission, white specular).
func (tm *TextureManager) SolidTexture(name string, c color.RGBA) uint32 {
	if id, ok := tm.hit(name); ok {
		return id
	}
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, c)
	return tm.upload(name, img)
}

func (tm *TextureManager) hit(key string) (uint32, bool) {
	id, ok := tm.textureCache[key]
	if !ok {
		tm.stats.CacheMisses++
		return 0, false
	}
	tm.textureRefCount[id]++
	tm.stats.CacheHits++
	logger.Log.Debug("Texture cache hit",
		zap.String("key", key),
		zap.Uint32("textureID", id),
		zap.Int("refCount", tm.textureRefCount[id]))
	return id, true
}

func (tm *TextureManager) upload(key string, img *image.RGBA) uint32 {
	rgba := img

	var textureID uint32
	gl.GenTextures(1, &textureID)
	gl.BindTexture(gl.TEXTURE_2D, textureID)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(rgba.Rect.Dx()), int32(rgba.Rect.Dy()),
		0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	tm.textureCache[key] = textureID
	tm.textureRefCount[textureID] = 1
	tm.texturePaths[textureID] = key
	tm.stats.TotalTextures++

	logger.Log.Info("Texture loaded and cached",
		zap.String("key", key),
		zap.Uint32("textureID", textureID),
		zap.Int("width", rgba.Rect.Dx()),
		zap.Int("height", rgba.Rect.Dy()))
	return textureID
}

// ReleaseTexture decrements the reference count and frees the texture at zero
func (tm *TextureManager) ReleaseTexture(textureID uint32) {
	refCount, exists := tm.textureRefCount[textureID]
	if !exists {
		logger.Log.Warn("Attempted to release unknown texture", zap.Uint32("textureID", textureID))
		return
	}

	refCount--
	if refCount > 0 {
		tm.textureRefCount[textureID] = refCount
		return
	}

	gl.DeleteTextures(1, &textureID)
	key := tm.texturePaths[textureID]
	delete(tm.textureCache, key)
	delete(tm.textureRefCount, textureID)
	delete(tm.texturePaths, textureID)
	logger.Log.Info("Texture freed", zap.Uint32("textureID", textureID), zap.String("key", key))
}

func (tm *TextureManager) GetStats() TextureStats {
	stats := tm.stats
	stats.ActiveTextures = len(tm.textureRefCount)
	return stats
}

// Clear frees every texture regardless of references (scene teardown)
func (tm *TextureManager) Clear() {
	for textureID := range tm.textureRefCount {
		id := textureID
		gl.DeleteTextures(1, &id)
	}
	tm.textureCache = make(map[string]uint32)
	tm.textureRefCount = make(map[uint32]int)
	tm.texturePaths = make(map[uint32]string)
	logger.Log.Info("Texture manager cleared", zap.Int("totalTextures", tm.stats.TotalTextures))
}
