package overlay

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
)

// AtlasRegion is a named sub-rectangle of an atlas page.
type AtlasRegion struct {
	Page    int
	Frame   image.Rectangle // on the page
	Source  image.Point     // untrimmed size as authored
	Offset  image.Point     // trim offset inside Source
	Rotated bool            // stored 90 degrees clockwise
	Trimmed bool
}

// Atlas is a set of page images with named regions, as exported by
// TexturePacker.
type Atlas struct {
	Pages   []*ebiten.Image
	regions map[string]AtlasRegion
}

// Region returns the named region.
func (a *Atlas) Region(name string) (AtlasRegion, bool) {
	r, ok := a.regions[name]
	return r, ok
}

// Len returns the number of regions in the atlas.
func (a *Atlas) Len() int { return len(a.regions) }

// SubImage returns the pixels of the named region. Rotated regions are
// returned as stored.
func (a *Atlas) SubImage(name string) (*ebiten.Image, bool) {
	r, ok := a.regions[name]
	if !ok || r.Page < 0 || r.Page >= len(a.Pages) || a.Pages[r.Page] == nil {
		return nil, false
	}
	return a.Pages[r.Page].SubImage(r.Frame).(*ebiten.Image), true
}

// LoadAtlas parses TexturePacker JSON and binds it to the given pages. Both
// the hash format (a single "frames" object) and the multi-page array format
// ("textures") are accepted.
func LoadAtlas(jsonData []byte, pages []*ebiten.Image) (*Atlas, error) {
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("overlay: parse atlas: %w", err)
	}

	a := &Atlas{Pages: pages, regions: make(map[string]AtlasRegion)}
	switch {
	case probe.Textures != nil:
		var textures []jsonTexturePage
		if err := json.Unmarshal(probe.Textures, &textures); err != nil {
			return nil, fmt.Errorf("overlay: parse atlas textures: %w", err)
		}
		for i, tex := range textures {
			for name, f := range tex.Frames {
				a.regions[name] = f.region(i)
			}
		}
	case probe.Frames != nil:
		var frames map[string]jsonFrame
		if err := json.Unmarshal(probe.Frames, &frames); err != nil {
			return nil, fmt.Errorf("overlay: parse atlas frames: %w", err)
		}
		for name, f := range frames {
			a.regions[name] = f.region(0)
		}
	default:
		return nil, fmt.Errorf("overlay: atlas JSON has neither \"frames\" nor \"textures\"")
	}
	return a, nil
}

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame            jsonRect `json:"frame"`
	Rotated          bool     `json:"rotated"`
	Trimmed          bool     `json:"trimmed"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
	SourceSize       struct {
		W int `json:"w"`
		H int `json:"h"`
	} `json:"sourceSize"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

func (f jsonFrame) region(page int) AtlasRegion {
	w, h := f.Frame.W, f.Frame.H
	if f.Rotated {
		w, h = h, w
	}
	return AtlasRegion{
		Page:    page,
		Frame:   image.Rect(f.Frame.X, f.Frame.Y, f.Frame.X+w, f.Frame.Y+h),
		Source:  image.Pt(f.SourceSize.W, f.SourceSize.H),
		Offset:  image.Pt(f.SpriteSourceSize.X, f.SpriteSourceSize.Y),
		Rotated: f.Rotated,
		Trimmed: f.Trimmed,
	}
}

// --- Content service ---

var magentaImage *ebiten.Image

// MissingTexture returns the 1x1 magenta image used for unknown names.
func MissingTexture() *ebiten.Image {
	if magentaImage == nil {
		magentaImage = ebiten.NewImage(1, 1)
		magentaImage.Fill(color.RGBA{R: 255, B: 255, A: 255})
	}
	return magentaImage
}

// Content resolves textures and fonts by name for widgets and entities.
// Lookups fall back to atlases in the order they were added.
type Content struct {
	textures map[string]*ebiten.Image
	atlases  []*Atlas
	fonts    map[string]*Font
	missing  map[string]bool
	logger   *slog.Logger
}

// NewContent creates an empty content service.
func NewContent() *Content {
	return &Content{
		textures: make(map[string]*ebiten.Image),
		fonts:    make(map[string]*Font),
		missing:  make(map[string]bool),
	}
}

// SetLogger sets the logger used to report missing names once each.
func (ct *Content) SetLogger(l *slog.Logger) { ct.logger = l }

// Register stores img under name, replacing any previous texture.
func (ct *Content) Register(name string, img *ebiten.Image) {
	ct.textures[name] = img
	delete(ct.missing, name)
}

// AddAtlas makes the regions of a searchable by name.
func (ct *Content) AddAtlas(a *Atlas) {
	ct.atlases = append(ct.atlases, a)
}

// LookupTexture returns the texture registered or packed under name.
func (ct *Content) LookupTexture(name string) (*ebiten.Image, bool) {
	if img, ok := ct.textures[name]; ok {
		return img, true
	}
	for _, a := range ct.atlases {
		if img, ok := a.SubImage(name); ok {
			ct.textures[name] = img
			return img, true
		}
	}
	return nil, false
}

// Texture returns the texture for name, or the magenta placeholder when no
// texture or atlas region has that name.
func (ct *Content) Texture(name string) *ebiten.Image {
	if img, ok := ct.LookupTexture(name); ok {
		return img
	}
	if !ct.missing[name] {
		ct.missing[name] = true
		if ct.logger != nil {
			ct.logger.Warn("overlay: texture not found, using placeholder", "name", name)
		}
	}
	return MissingTexture()
}

// RegisterFont stores f under name.
func (ct *Content) RegisterFont(name string, f *Font) {
	ct.fonts[name] = f
}

// Font returns the font registered under name, or the default font at size
// when there is none.
func (ct *Content) Font(name string, size float64) *Font {
	if f, ok := ct.fonts[name]; ok {
		if size > 0 && f.Size() != size {
			return f.WithSize(size)
		}
		return f
	}
	return DefaultFont(size)
}
