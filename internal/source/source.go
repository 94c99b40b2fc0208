package source

import (
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/gen2brain/go-fitz"
	"golang.org/x/image/draw"
)

// ThumbnailWidth is the pixel width thumbnails are reduced to. Boxes on
// screen never get wider than this at 1080p.
const ThumbnailWidth = 480

// Source is anything that can be rasterized page by page: a PDF deck or a
// directory of screenshots.
type Source interface {
	PageCount() int
	GetPageDimensions(index int) (width, height float64, err error)
	RenderPage(index int, dpi int) (image.Image, error)
	Close() error
}

// Open picks a PDF source for .pdf files and an image source otherwise.
func Open(path string) (Source, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	if strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return NewFitzPDFSource(path)
	}
	return NewImageSource(path)
}

type FitzPDFSource struct {
	doc  *fitz.Document
	path string
}

func NewFitzPDFSource(path string) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	return &FitzPDFSource{doc: doc, path: path}, nil
}

func (f *FitzPDFSource) PageCount() int {
	return f.doc.NumPage()
}

func (f *FitzPDFSource) GetPageDimensions(index int) (float64, float64, error) {
	rect, err := f.doc.Bound(index)
	if err != nil {
		return 0, 0, err
	}
	return float64(rect.Dx()), float64(rect.Dy()), nil
}

// RenderPage opens its own document handle; fitz documents are not safe for
// concurrent use.
func (f *FitzPDFSource) RenderPage(index int, dpi int) (image.Image, error) {
	workerDoc, err := fitz.New(f.path)
	if err != nil {
		return nil, err
	}
	defer workerDoc.Close()
	return workerDoc.ImageDPI(index, float64(dpi))
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}

// Thumbnails renders the first n pages of src, each reduced to at most
// ThumbnailWidth pixels wide. Fewer are returned when src is shorter.
func Thumbnails(src Source, n, dpi int) ([]image.Image, error) {
	if n > src.PageCount() {
		n = src.PageCount()
	}
	thumbs := make([]image.Image, 0, n)
	for i := 0; i < n; i++ {
		img, err := src.RenderPage(i, dpi)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		thumbs = append(thumbs, shrink(img, ThumbnailWidth))
	}
	return thumbs, nil
}

func shrink(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxWidth || b.Dx() == 0 {
		return img
	}
	h := b.Dy() * maxWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
