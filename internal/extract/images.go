package extract

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/phuslu/log"
	_ "golang.org/x/image/tiff"
)

// maxColorComponents excludes CMYK and other four-plus component images.
const maxColorComponents = 4

type imageSource struct {
	ctx *model.Context
}

func (e *Extractor) openImages(data []byte) (src *imageSource) {
	if e.opts.SkipImages {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn().Str("panic", fmt.Sprint(r)).Msg("image reader panicked, images unavailable")
			src = nil
		}
	}()
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		e.logger.Warn().Err(err).Msg("image reader failed, images unavailable")
		return nil
	}
	return &imageSource{ctx: ctx}
}

// page enumerates the images of one page in object order. Accepted images
// are returned as records, everything else as outcomes with a reason.
func (s *imageSource) page(n int, logger *log.Logger) (accepted []ImageRecord, rejected []ImageOutcome) {
	objNrs := pdfcpu.ImageObjNrs(s.ctx, n)
	if len(objNrs) == 0 {
		return nil, nil
	}
	sort.Ints(objNrs)

	extracted, err := s.pageImages(n)
	for i, objNr := range objNrs {
		index := i + 1
		if err != nil {
			rejected = append(rejected, ImageOutcome{Index: index, Status: ImageFailed, Reason: err.Error()})
			continue
		}
		img, ok := extracted[objNr]
		if !ok {
			rejected = append(rejected, ImageOutcome{Index: index, Status: ImageFailed, Reason: "unsupported image encoding"})
			continue
		}
		rec, out := classifyImage(index, img)
		if out.Status != ImageAccepted {
			rejected = append(rejected, out)
			continue
		}
		accepted = append(accepted, rec)
	}
	for _, r := range rejected {
		logger.Debug().Int("page", n).Int("image", r.Index).Str("status", string(r.Status)).Str("reason", r.Reason).Msg("image not accepted")
	}
	return accepted, rejected
}

func (s *imageSource) pageImages(n int) (m map[int]model.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, fmt.Errorf("image extraction panicked: %v", r)
		}
	}()
	return pdfcpu.ExtractPageImages(s.ctx, n, false)
}

// classifyImage applies the component-count exclusion and decodes the image.
func classifyImage(index int, img model.Image) (ImageRecord, ImageOutcome) {
	if img.Comp >= maxColorComponents {
		return ImageRecord{}, ImageOutcome{
			Index:  index,
			Status: ImageSkipped,
			Reason: fmt.Sprintf("%d color components", img.Comp),
		}
	}
	data, size, err := encodePNG(img)
	if err != nil {
		return ImageRecord{}, ImageOutcome{Index: index, Status: ImageFailed, Reason: err.Error()}
	}
	return ImageRecord{Index: index, Size: size, Data: data}, ImageOutcome{Index: index, Status: ImageAccepted}
}

func encodePNG(img model.Image) (data, size string, err error) {
	if img.Reader == nil {
		return "", "", errors.New("image has no data")
	}
	decoded, _, err := image.Decode(img.Reader)
	if err != nil {
		return "", "", fmt.Errorf("decoding %s image: %w", img.FileType, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, decoded); err != nil {
		return "", "", fmt.Errorf("encoding png: %w", err)
	}
	b := decoded.Bounds()
	return base64.StdEncoding.EncodeToString(buf.Bytes()), fmt.Sprintf("%dx%d", b.Dx(), b.Dy()), nil
}

// WriteImages writes every accepted image as p<page>_img_<index>.png under dir.
func WriteImages(doc *Document, dir string) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	n := 0
	for _, p := range doc.Pages {
		for _, img := range p.Images {
			b, err := base64.StdEncoding.DecodeString(img.Data)
			if err != nil {
				return n, fmt.Errorf("%s image %d: %w", p.Label, img.Index, err)
			}
			name := fmt.Sprintf("p%d_img_%d.png", p.Number, img.Index)
			if err := os.WriteFile(filepath.Join(dir, name), b, 0o644); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}
