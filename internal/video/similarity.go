package video

import (
	"fmt"
	"image"
	_ "image/jpeg" // frame files are JPEG
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/skyfpv/propwash/internal/analysis"
)

// Comparison dimensions: frames are squeezed to a small fixed-size grayscale
// patch before differencing, which both normalizes mismatched resolutions and
// suppresses sensor noise.
const (
	compareWidth  = 320
	compareHeight = 180
)

// SimilarityScorer computes visual dissimilarity between frame pairs as
// normalized mean absolute pixel difference: 0 means identical, 1 means
// maximally different.
type SimilarityScorer struct{}

// NewSimilarityScorer creates a scorer.
func NewSimilarityScorer() *SimilarityScorer {
	return &SimilarityScorer{}
}

// Dissimilarity scores two decoded images.
func (s *SimilarityScorer) Dissimilarity(a, b image.Image) float64 {
	ga := toComparisonGray(a)
	gb := toComparisonGray(b)

	var total int64
	for i := range ga.Pix {
		d := int64(ga.Pix[i]) - int64(gb.Pix[i])
		if d < 0 {
			d = -d
		}
		total += d
	}
	return float64(total) / float64(len(ga.Pix)) / 255.0
}

// DissimilarityFiles scores two frame files on disk.
func (s *SimilarityScorer) DissimilarityFiles(pathA, pathB string) (float64, error) {
	a, err := loadImage(pathA)
	if err != nil {
		return 0, err
	}
	b, err := loadImage(pathB)
	if err != nil {
		return 0, err
	}
	return s.Dissimilarity(a, b), nil
}

// Series builds the frame-aligned dissimilarity series for run detection:
// sample i carries frame i's timestamp and its difference to frame i-1. The
// first frame has nothing to compare against and gets the non-member
// sentinel, so it can anchor a run but never open one.
func (s *SimilarityScorer) Series(frames []Frame) ([]analysis.Sample, error) {
	if len(frames) == 0 {
		return nil, nil
	}

	series := make([]analysis.Sample, len(frames))
	series[0] = analysis.Sample{Timestamp: frames[0].Timestamp, Value: analysis.NonMember()}

	prev, err := loadImage(frames[0].Path)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(frames); i++ {
		cur, err := loadImage(frames[i].Path)
		if err != nil {
			return nil, err
		}
		series[i] = analysis.Sample{
			Timestamp: frames[i].Timestamp,
			Value:     s.Dissimilarity(prev, cur),
		}
		prev = cur
	}
	return series, nil
}

// toComparisonGray scales an image down to the fixed comparison patch in
// grayscale.
func toComparisonGray(img image.Image) *image.Gray {
	gray := image.NewGray(image.Rect(0, 0, compareWidth, compareHeight))
	xdraw.ApproxBiLinear.Scale(gray, gray.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return gray
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open frame %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame %s: %w", path, err)
	}
	return img, nil
}
