package detection

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

const (
	// horizonSampleDim bounds the working copy used for the Hough transform.
	horizonSampleDim = 400
	// thetaStep is the Hough angle resolution in degrees.
	thetaStep = 0.25
	// minHorizonCoverage is the share of the image width a line must span
	// in votes before it counts as a horizon.
	minHorizonCoverage = 0.3
)

// Horizon describes the dominant near-horizontal line in an image.
type Horizon struct {
	// Found is false when no line had enough support.
	Found bool `json:"found"`

	// TiltDegrees is the line angle against the x axis. Positive values mean
	// the line falls toward the right edge.
	TiltDegrees float64 `json:"tilt_degrees"`

	// Correction is the counter-clockwise free rotation that levels the line.
	Correction float64 `json:"correction_degrees"`

	// Confidence is the vote count relative to the image width, capped at 1.
	Confidence float64 `json:"confidence"`

	// Start and End are the outermost supporting edge pixels, in source
	// coordinates.
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// DetectHorizon finds the strongest line within maxTilt degrees of horizontal
// using a Hough transform restricted to near-horizontal angles.
//
// Parameters:
//   - img: The source image. It is downsampled to at most 400 px first.
//   - maxTilt: Largest tilt considered, in degrees. Values outside (0, 45]
//     are replaced by 45.
//
// Returns a Horizon with Found false when the image is empty or no line
// reaches the minimum support.
//
// # Algorithm
//
//  1. Edge Detection: grayscale gradient threshold
//  2. Voting: every edge pixel votes for rho = x*cos(theta) + y*sin(theta)
//     with theta in [90-maxTilt, 90+maxTilt] at 0.25° steps
//  3. Peak: the single accumulator cell with the most votes
//  4. Extent: edge pixels within 2 px of the peak line give the endpoints
func DetectHorizon(img image.Image, maxTilt float64) *Horizon {
	if img == nil || img.Bounds().Empty() {
		return &Horizon{}
	}
	if !(maxTilt > 0 && maxTilt <= 45) {
		maxTilt = 45
	}

	src := img.Bounds()
	work := imaging.Clone(img)
	if src.Dx() > horizonSampleDim || src.Dy() > horizonSampleDim {
		work = imaging.Fit(img, horizonSampleDim, horizonSampleDim, imaging.Box)
	}
	width, height := work.Rect.Dx(), work.Rect.Dy()
	scaleX := float64(src.Dx()) / float64(width)
	scaleY := float64(src.Dy()) / float64(height)

	edges := detectEdges(work, width, height)

	numThetas := int(2*maxTilt/thetaStep) + 1
	thetas := make([]float64, numThetas)
	cosT := make([]float64, numThetas)
	sinT := make([]float64, numThetas)
	for i := range thetas {
		thetas[i] = 90 - maxTilt + float64(i)*thetaStep
		rad := thetas[i] * math.Pi / 180
		cosT[i], sinT[i] = math.Cos(rad), math.Sin(rad)
	}

	maxDist := int(math.Ceil(math.Hypot(float64(width), float64(height))))
	accumulator := make([][]int, maxDist*2+1)
	for i := range accumulator {
		accumulator[i] = make([]int, numThetas)
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !edges[y][x] {
				continue
			}
			for t := 0; t < numThetas; t++ {
				rho := float64(x)*cosT[t] + float64(y)*sinT[t]
				rhoIdx := int(math.Round(rho)) + maxDist
				if rhoIdx >= 0 && rhoIdx < len(accumulator) {
					accumulator[rhoIdx][t]++
				}
			}
		}
	}

	bestRho, bestTheta, bestVotes := 0, 0, 0
	for rhoIdx := range accumulator {
		for t := 0; t < numThetas; t++ {
			v := accumulator[rhoIdx][t]
			// Prefer the angle closest to level on ties.
			if v > bestVotes || (v == bestVotes && v > 0 && math.Abs(thetas[t]-90) < math.Abs(thetas[bestTheta]-90)) {
				bestRho, bestTheta, bestVotes = rhoIdx-maxDist, t, v
			}
		}
	}

	if float64(bestVotes) < float64(width)*minHorizonCoverage {
		return &Horizon{Confidence: float64(bestVotes) / float64(width)}
	}

	rho := float64(bestRho)
	var start, end Point
	minD, maxD := math.MaxFloat64, -math.MaxFloat64
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !edges[y][x] {
				continue
			}
			if math.Abs(float64(x)*cosT[bestTheta]+float64(y)*sinT[bestTheta]-rho) >= 2.0 {
				continue
			}
			// Position along the line direction (-sin, cos) orders the points.
			d := -float64(x)*sinT[bestTheta] + float64(y)*cosT[bestTheta]
			if d < minD {
				minD = d
				start = Point{X: x, Y: y}
			}
			if d > maxD {
				maxD = d
				end = Point{X: x, Y: y}
			}
		}
	}
	if start.X > end.X {
		start, end = end, start
	}

	tilt := thetas[bestTheta] - 90
	return &Horizon{
		Found:       true,
		TiltDegrees: math.Round(tilt*100) / 100,
		Correction:  math.Round(tilt*100) / 100,
		Confidence:  math.Min(1, float64(bestVotes)/float64(width)),
		Start:       scalePoint(start, scaleX, scaleY, src.Min),
		End:         scalePoint(end, scaleX, scaleY, src.Min),
	}
}

func scalePoint(p Point, sx, sy float64, origin image.Point) Point {
	return Point{
		X: int(math.Round(float64(p.X)*sx)) + origin.X,
		Y: int(math.Round(float64(p.Y)*sy)) + origin.Y,
	}
}
