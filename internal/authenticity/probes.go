package authenticity

import (
	"image"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/veridoc/docscan/internal/imaging"
)

// Probe tuning constants. These are calibration starting points, not
// document-family constants; a deployment tunes them against labeled
// samples.
const (
	// ink-distribution
	inkPeakMinShare     = 0.015 // histogram bin share to count as a peak
	inkDominanceRatio   = 1.25  // B vs R and B vs G for "blue-dominant"
	inkDominanceMinBlue = 60
	inkVarianceLo       = 200.0
	inkVarianceHi       = 4000.0
	inkRatioLo          = 0.002 // expected blue-ink pixel share band
	inkRatioHi          = 0.25
	inkPortraitPenalty  = 0.3

	// micro-pattern
	microEdgeThreshold   = 40.0
	microComponentMin    = 2  // bounding-box side band, px
	microComponentMax    = 12 //
	microDensityLo       = 0.3
	microDensityHi       = 0.95
	microCountsPerKpx    = 3.0 // qualifying components per 1000 px for full score
	microTransitionsFull = 0.2 // edge transitions per pixel for full score

	// optical-variable
	oviMinSaturation = 0.35
	oviMinValue      = 0.3
	oviHueBuckets    = 36
	oviFamiliesFull  = 6 // distinct hue families for full score
	oviSatRatioLo    = 0.02
	oviSatRatioHi    = 0.6

	// intaglio-texture
	intaglioBlock      = 8
	intaglioRoughLo    = 8.0
	intaglioRoughHi    = 80.0
	intaglioContrastLo = 5.0
	intaglioContrastHi = 60.0

	// latent-image
	latentBoostBrightness = 10.0
	latentBoostContrast   = 40.0
	latentStdLo           = 6.0
	latentStdHi           = 40.0
)

// probeInkDistribution checks the blue-channel statistics of the crop.
//
// Genuine documents print with inks that leave a structured blue histogram
// (several significant peaks, moderate variance) and a bounded share of
// blue-dominant pixels. A blue-ink signature inside the portrait region,
// where it does not legitimately appear, is penalized: overlaying official
// ink marks onto a substituted photo is a common forgery artifact.
func probeInkDistribution(view *cropView) Result {
	w, h := view.width, view.height
	total := w * h

	var hist [256]int
	var sum, sumSq float64
	dominant := 0
	portraitDominant := 0
	portraitTotal := 0

	// Portrait region: left 30% of the card, vertically centered 60%.
	px1, px2 := 0, int(0.3*float64(w))
	py1, py2 := int(0.2*float64(h)), int(0.8*float64(h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := view.rgba.PixOffset(x, y)
			r := float64(view.rgba.Pix[i])
			g := float64(view.rgba.Pix[i+1])
			b := float64(view.rgba.Pix[i+2])

			hist[int(b)]++
			sum += b
			sumSq += b * b

			inPortrait := x >= px1 && x < px2 && y >= py1 && y < py2
			if inPortrait {
				portraitTotal++
			}
			if b > inkDominanceRatio*r && b > inkDominanceRatio*g && b > inkDominanceMinBlue {
				dominant++
				if inPortrait {
					portraitDominant++
				}
			}
		}
	}

	mean := sum / float64(total)
	variance := sumSq/float64(total) - mean*mean

	// Significant local maxima: a bin that tops its +-2 neighborhood and
	// holds a meaningful share of all pixels.
	peaks := 0
	minCount := int(inkPeakMinShare * float64(total))
	for i := 2; i < 254; i++ {
		c := hist[i]
		if c < minCount {
			continue
		}
		if c >= hist[i-2] && c >= hist[i-1] && c >= hist[i+1] && c >= hist[i+2] && (c > hist[i-1] || c > hist[i+1]) {
			peaks++
			i += 2 // skip the shoulder of this peak
		}
	}

	dominantRatio := float64(dominant) / float64(total)

	confidence := 0.0
	if peaks >= 2 {
		confidence += 0.35
	}
	if peaks >= 3 {
		confidence += 0.1
	}
	confidence += 0.2 * bandScore(variance, inkVarianceLo, inkVarianceHi)
	confidence += 0.35 * bandScore(dominantRatio, inkRatioLo, inkRatioHi)

	if portraitTotal > 0 {
		portraitRatio := float64(portraitDominant) / float64(portraitTotal)
		if portraitRatio > 2*dominantRatio && portraitRatio > 0.01 {
			confidence -= inkPortraitPenalty
		}
	}

	confidence = clampUnit(confidence)
	return Result{Name: "ink-distribution", Detected: confidence > DetectionFloor, Confidence: confidence}
}

// probeMicroPattern looks for microprint and guilloche texture: many tiny,
// dense connected edge components plus a high edge-transition frequency.
func probeMicroPattern(view *cropView) Result {
	edges := imaging.SobelEdges(view.gray, microEdgeThreshold)
	w, h := view.width, view.height

	qualifying := countMicroComponents(edges, w, h)

	// Row/column transition frequency as a high-frequency-texture signal.
	transitions := 0
	for y := 0; y < h; y++ {
		prev := edges.GrayAt(0, y).Y
		for x := 1; x < w; x++ {
			v := edges.GrayAt(x, y).Y
			if v != prev {
				transitions++
			}
			prev = v
		}
	}
	for x := 0; x < w; x++ {
		prev := edges.GrayAt(x, 0).Y
		for y := 1; y < h; y++ {
			v := edges.GrayAt(x, y).Y
			if v != prev {
				transitions++
			}
			prev = v
		}
	}

	perKpx := float64(qualifying) * 1000.0 / float64(w*h)
	transFreq := float64(transitions) / float64(2*w*h)

	confidence := 0.6*clampUnit(perKpx/microCountsPerKpx) + 0.4*clampUnit(transFreq/microTransitionsFull)
	return Result{Name: "micro-pattern", Detected: confidence > DetectionFloor, Confidence: confidence}
}

// countMicroComponents flood-fills 8-connected edge components and counts
// those whose bounding box and fill density fall inside the microprint
// bands.
func countMicroComponents(edges *image.Gray, w, h int) int {
	visited := make([]bool, w*h)
	stack := make([]image.Point, 0, 64)
	qualifying := 0

	for sy := 0; sy < h; sy++ {
		for sx := 0; sx < w; sx++ {
			if visited[sy*w+sx] || edges.GrayAt(sx, sy).Y == 0 {
				continue
			}

			minX, minY := sx, sy
			maxX, maxY := sx, sy
			count := 0

			stack = append(stack[:0], image.Pt(sx, sy))
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]

				if p.X < 0 || p.X >= w || p.Y < 0 || p.Y >= h {
					continue
				}
				if visited[p.Y*w+p.X] || edges.GrayAt(p.X, p.Y).Y == 0 {
					continue
				}
				visited[p.Y*w+p.X] = true
				count++
				if p.X < minX {
					minX = p.X
				}
				if p.X > maxX {
					maxX = p.X
				}
				if p.Y < minY {
					minY = p.Y
				}
				if p.Y > maxY {
					maxY = p.Y
				}

				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if dx == 0 && dy == 0 {
							continue
						}
						stack = append(stack, image.Pt(p.X+dx, p.Y+dy))
					}
				}
			}

			bw := maxX - minX + 1
			bh := maxY - minY + 1
			if bw < microComponentMin || bw > microComponentMax ||
				bh < microComponentMin || bh > microComponentMax {
				continue
			}
			density := float64(count) / float64(bw*bh)
			if density >= microDensityLo && density <= microDensityHi {
				qualifying++
			}
		}
	}
	return qualifying
}

// probeOpticalVariable measures hue diversity among saturated pixels.
//
// Optically variable ink shifts hue with viewing angle; even in a single
// frame the curved surface of a card spreads an OVI patch over several hue
// families, where flat process printing concentrates in one or two.
func probeOpticalVariable(view *cropView) Result {
	var buckets [oviHueBuckets]int
	saturated := 0
	sampled := 0

	for y := 0; y < view.height; y += 2 {
		for x := 0; x < view.width; x += 2 {
			sampled++
			i := view.rgba.PixOffset(x, y)
			c := colorful.Color{
				R: float64(view.rgba.Pix[i]) / 255.0,
				G: float64(view.rgba.Pix[i+1]) / 255.0,
				B: float64(view.rgba.Pix[i+2]) / 255.0,
			}
			hue, sat, val := c.Hsv()
			if sat < oviMinSaturation || val < oviMinValue {
				continue
			}
			saturated++
			buckets[int(hue)*oviHueBuckets/360%oviHueBuckets]++
		}
	}

	if sampled == 0 || saturated == 0 {
		return Result{Name: "optical-variable"}
	}

	// A hue family must hold a minimum share of the saturated pixels to
	// rule out stray sensor speckle.
	minFamily := saturated / 200
	if minFamily < 4 {
		minFamily = 4
	}
	families := 0
	for _, n := range buckets {
		if n >= minFamily {
			families++
		}
	}

	satRatio := float64(saturated) / float64(sampled)
	confidence := 0.7*clampUnit(float64(families)/float64(oviFamiliesFull)) +
		0.3*bandScore(satRatio, oviSatRatioLo, oviSatRatioHi)
	return Result{Name: "optical-variable", Detected: confidence > DetectionFloor, Confidence: confidence}
}

// probeIntaglioTexture scores the raised-print texture of engraving.
//
// Intaglio lines produce strong local gradients whose energy varies from
// block to block; flat offset printing is comparatively uniform. The probe
// splits a simple gradient map into blocks and scores the mean in-block
// deviation together with the block-to-block contrast.
func probeIntaglioTexture(view *cropView) Result {
	w, h := view.width, view.height
	if w < 2*intaglioBlock || h < 2*intaglioBlock {
		return Result{Name: "intaglio-texture"}
	}

	grad := make([]float64, w*h)
	for y := 0; y < h-1; y++ {
		for x := 0; x < w-1; x++ {
			v := float64(view.gray.GrayAt(x, y).Y)
			dx := v - float64(view.gray.GrayAt(x+1, y).Y)
			dy := v - float64(view.gray.GrayAt(x, y+1).Y)
			grad[y*w+x] = math.Abs(dx) + math.Abs(dy)
		}
	}

	bx := w / intaglioBlock
	by := h / intaglioBlock

	blockMeans := make([]float64, 0, bx*by)
	var roughSum float64
	for gy := 0; gy < by; gy++ {
		for gx := 0; gx < bx; gx++ {
			var sum, sumSq float64
			n := 0
			for y := gy * intaglioBlock; y < (gy+1)*intaglioBlock; y++ {
				for x := gx * intaglioBlock; x < (gx+1)*intaglioBlock; x++ {
					v := grad[y*w+x]
					sum += v
					sumSq += v * v
					n++
				}
			}
			mean := sum / float64(n)
			variance := sumSq/float64(n) - mean*mean
			if variance < 0 {
				variance = 0
			}
			blockMeans = append(blockMeans, mean)
			roughSum += math.Sqrt(variance)
		}
	}

	roughness := roughSum / float64(len(blockMeans))

	var mSum, mSumSq float64
	for _, m := range blockMeans {
		mSum += m
		mSumSq += m * m
	}
	mMean := mSum / float64(len(blockMeans))
	mVar := mSumSq/float64(len(blockMeans)) - mMean*mMean
	if mVar < 0 {
		mVar = 0
	}
	blockContrast := math.Sqrt(mVar)

	confidence := 0.6*bandScore(roughness, intaglioRoughLo, intaglioRoughHi) +
		0.4*bandScore(blockContrast, intaglioContrastLo, intaglioContrastHi)
	return Result{Name: "intaglio-texture", Detected: confidence > DetectionFloor, Confidence: confidence}
}

// probeLatentImage looks for the faint ghost pattern in the region that
// echoes the portrait on genuine cards.
//
// The sub-region is brightness/contrast boosted; a genuine ghost image then
// shows low but clearly nonzero contrast. A blank region (feature absent)
// stays near zero, a pasted opaque copy saturates well above the band.
func probeLatentImage(view *cropView) Result {
	w, h := view.width, view.height

	// Ghost region: right 35% of the card, vertically centered 60%.
	x1 := int(0.65 * float64(w))
	y1 := int(0.2 * float64(h))
	x2, y2 := w, int(0.8*float64(h))
	if x2-x1 < 4 || y2-y1 < 4 {
		return Result{Name: "latent-image"}
	}

	sub := view.rgba.SubImage(image.Rect(x1, y1, x2, y2))
	boosted := imaging.AdjustBrightnessContrast(sub, latentBoostBrightness, latentBoostContrast)
	gray := imaging.Grayscale(boosted)

	var sum, sumSq float64
	n := 0
	gb := gray.Bounds()
	for y := gb.Min.Y; y < gb.Max.Y; y++ {
		for x := gb.Min.X; x < gb.Max.X; x++ {
			v := float64(gray.GrayAt(x, y).Y)
			sum += v
			sumSq += v * v
			n++
		}
	}
	mean := sum / float64(n)
	variance := sumSq/float64(n) - mean*mean
	if variance < 0 {
		variance = 0
	}

	confidence := bandScore(math.Sqrt(variance), latentStdLo, latentStdHi)
	return Result{Name: "latent-image", Detected: confidence > DetectionFloor, Confidence: confidence}
}

// bandScore returns 1.0 when v lies inside [lo, hi] and decays
// proportionally outside the band. Deterministic and smooth enough for
// threshold tuning.
func bandScore(v, lo, hi float64) float64 {
	switch {
	case v >= lo && v <= hi:
		return 1.0
	case v < lo:
		if lo <= 0 {
			return 0
		}
		return clampUnit(v / lo)
	default:
		return clampUnit(hi / v)
	}
}

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}
