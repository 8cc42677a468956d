package datasets

import (
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/pkg/errors"
	xdraw "golang.org/x/image/draw"
	"k8s.io/klog/v2"

	"github.com/Noofbiz/multiview/errs"
	"github.com/Noofbiz/multiview/schedule"
)

// Images is the pixel data of every frame at one resolution, packed
// N×H×W×C in [0, 1].
type Images struct {
	Height, Width int

	RGB []float32 // C=3

	// Mask is 1 where alpha > 0.5, else 0. C=1.
	Mask []float32

	// Depth (C=1) and Normal (C=3) are nil unless their modality is present.
	Depth  []float32
	Normal []float32
}

// Len is the number of frames.
func (im *Images) Len() int { return len(im.RGB) / (im.Height * im.Width * 3) }

// LoadImages decodes and resizes every frame, plus the depth and normal maps
// of the present modalities. Any missing file aborts the load.
func LoadImages(frames []Frame, res schedule.Resolution, depth, normal Modality) (*Images, error) {
	n, px := len(frames), res.Height*res.Width
	im := &Images{
		Height: res.Height,
		Width:  res.Width,
		RGB:    make([]float32, 0, n*px*3),
		Mask:   make([]float32, 0, n*px),
	}
	if depth.Present {
		im.Depth = make([]float32, 0, n*px)
	}
	if normal.Present {
		im.Normal = make([]float32, 0, n*px*3)
	}

	for _, f := range frames {
		rgb, alpha, err := loadResized(f.Path, "image", res)
		if err != nil {
			return nil, err
		}
		for i := 0; i < len(rgb.Pix); i += 8 {
			im.RGB = append(im.RGB, channel16(rgb.Pix, i), channel16(rgb.Pix, i+2), channel16(rgb.Pix, i+4))
			if channel16(alpha.Pix, i/4) > 0.5 {
				im.Mask = append(im.Mask, 1)
			} else {
				im.Mask = append(im.Mask, 0)
			}
		}
		klog.V(1).Infof("multi image dataset: load image %s (%d, %d, 3)", f.Path, res.Height, res.Width)

		if depth.Present {
			if im.Depth, err = appendCompanion(im.Depth, f.Path, "depth", depth.Suffix, res, 1); err != nil {
				return nil, err
			}
		}
		if normal.Present {
			if im.Normal, err = appendCompanion(im.Normal, f.Path, "normal", normal.Suffix, res, 3); err != nil {
				return nil, err
			}
		}
	}
	return im, nil
}

// appendCompanion loads the companion map of imagePath and appends channels
// values per pixel: the luminance for 1, RGB for 3.
func appendCompanion(dst []float32, imagePath, kind, suffix string, res schedule.Resolution, channels int) ([]float32, error) {
	path, ok := companionPath(imagePath, suffix)
	if !ok {
		return nil, errors.Wrapf(&errs.MissingAssetError{Path: imagePath, Kind: kind},
			"image path does not contain %s, cannot locate its %s map", rgbaSuffix, kind)
	}
	img, _, err := loadResized(path, kind, res)
	if err != nil {
		return nil, err
	}
	for i := 0; i < len(img.Pix); i += 8 {
		if channels == 1 {
			c := color.NRGBA64{
				R: uint16(img.Pix[i])<<8 | uint16(img.Pix[i+1]),
				G: uint16(img.Pix[i+2])<<8 | uint16(img.Pix[i+3]),
				B: uint16(img.Pix[i+4])<<8 | uint16(img.Pix[i+5]),
				A: 0xffff,
			}
			dst = append(dst, float32(color.Gray16Model.Convert(c).(color.Gray16).Y)/0xffff)
			continue
		}
		dst = append(dst, channel16(img.Pix, i), channel16(img.Pix, i+2), channel16(img.Pix, i+4))
	}
	klog.V(1).Infof("multi image dataset: load %s %s (%d, %d, %d)", kind, path, res.Height, res.Width, channels)
	return dst, nil
}

func channel16(pix []uint8, i int) float32 {
	return float32(uint16(pix[i])<<8|uint16(pix[i+1])) / 0xffff
}

// loadResized decodes path and resamples it to res with a bilinear kernel,
// which averages over the source footprint when shrinking. Color and alpha
// are split into separate planes first so that RGB under zero alpha keeps
// its straight values instead of being premultiplied away.
func loadResized(path, kind string, res schedule.Resolution) (*image.NRGBA64, *image.Gray16, error) {
	if !fileExists(path) {
		return nil, nil, &errs.MissingAssetError{Path: path, Kind: kind}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to decode %s %s", kind, path)
	}
	rgb, alpha := splitAlpha(src)
	dstRGB := image.NewNRGBA64(image.Rect(0, 0, res.Width, res.Height))
	xdraw.BiLinear.Scale(dstRGB, dstRGB.Bounds(), rgb, rgb.Bounds(), xdraw.Src, nil)
	dstAlpha := image.NewGray16(dstRGB.Bounds())
	xdraw.BiLinear.Scale(dstAlpha, dstAlpha.Bounds(), alpha, alpha.Bounds(), xdraw.Src, nil)
	return dstRGB, dstAlpha, nil
}

// splitAlpha returns the straight color of src as an opaque image and its
// alpha as a gray plane.
func splitAlpha(src image.Image) (*image.NRGBA64, *image.Gray16) {
	b := src.Bounds()
	rgb := image.NewNRGBA64(b)
	alpha := image.NewGray16(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			var c color.NRGBA64
			switch v := src.At(x, y).(type) {
			case color.NRGBA:
				c = color.NRGBA64{R: uint16(v.R) * 0x101, G: uint16(v.G) * 0x101, B: uint16(v.B) * 0x101, A: uint16(v.A) * 0x101}
			case color.NRGBA64:
				c = v
			default:
				c = color.NRGBA64Model.Convert(v).(color.NRGBA64)
			}
			alpha.SetGray16(x, y, color.Gray16{Y: c.A})
			c.A = 0xffff
			rgb.SetNRGBA64(x, y, c)
		}
	}
	return rgb, alpha
}
