package colour

import (
	"cmp"
	"fmt"
	"image"
	"math"
	"math/rand"
	"slices"
)

// MaxExtractColours is the largest palette an extractor will produce.
const MaxExtractColours = 256

// KMeansExtractor clusters image pixels in L*a*b* space, so extracted
// palettes group colours the same way assignment measures them.
type KMeansExtractor struct {
	maxIterations int
	// convergence is the mean centroid movement, in ΔE, that ends iteration.
	convergence float64
	maxSamples  int
	rng         *rand.Rand
}

// NewKMeansExtractor creates a new KMeansExtractor with default settings.
func NewKMeansExtractor() *KMeansExtractor {
	return &KMeansExtractor{
		maxIterations: 20,
		convergence:   0.5,
		maxSamples:    2000,
		rng:           rand.New(rand.NewSource(rand.Int63())), // #nosec G404 - clustering, not crypto
	}
}

// WithSeed returns the extractor seeded for reproducible output.
func (e *KMeansExtractor) WithSeed(seed int64) *KMeansExtractor {
	e.rng = rand.New(rand.NewSource(seed)) // #nosec G404 - clustering, not crypto
	return e
}

// Extract returns up to count colours, ordered by how much of the image
// each one covers, largest first.
func (e *KMeansExtractor) Extract(img image.Image, count int) (Palette, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	if count < 1 || count > MaxExtractColours {
		return nil, fmt.Errorf("color count must be between 1 and %d, got %d", MaxExtractColours, count)
	}

	samples := e.sample(img)
	if len(samples) == 0 {
		return nil, fmt.Errorf("no pixels found in image")
	}

	// Few distinct colours need no clustering.
	freq := make(map[RGB]int)
	var distinct []RGB
	for _, rgb := range samples {
		if freq[rgb] == 0 {
			distinct = append(distinct, rgb)
		}
		freq[rgb]++
	}
	if count >= len(distinct) {
		slices.SortStableFunc(distinct, func(a, b RGB) int {
			return cmp.Compare(freq[b], freq[a])
		})
		palette := make(Palette, len(distinct))
		for i, rgb := range distinct {
			palette[i] = rgb.Hex()
		}
		return palette, nil
	}

	points := make([]Lab, len(samples))
	for i, rgb := range samples {
		points[i] = RGBToLab(rgb.Color())
	}

	centroids, sizes := e.cluster(points, count)

	order := make([]int, len(centroids))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(sizes[b], sizes[a])
	})

	palette := make(Palette, 0, len(centroids))
	for _, idx := range order {
		if sizes[idx] == 0 {
			continue
		}
		palette = append(palette, LabToHex(centroids[idx]))
	}
	return palette, nil
}

// sample grid-samples the image down to roughly maxSamples pixels.
func (e *KMeansExtractor) sample(img image.Image) []RGB {
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()

	step := 1
	if total > e.maxSamples {
		step = max(int(math.Sqrt(float64(total)/float64(e.maxSamples))), 1)
	}

	out := make([]RGB, 0, min(total, e.maxSamples))
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			out = append(out, ToRGB(img.At(x, y)))
			if len(out) >= e.maxSamples {
				return out
			}
		}
	}
	return out
}

// cluster runs Lloyd's algorithm from a k-means++ start and returns the
// centroids with the number of points in each.
func (e *KMeansExtractor) cluster(points []Lab, k int) ([]Lab, []int) {
	centroids := e.seedCentroids(points, k)
	labels := make([]int, len(points))

	for iter := range e.maxIterations {
		moved := 0
		for i, p := range points {
			if nearest := nearestLab(p, centroids); nearest != labels[i] {
				labels[i] = nearest
				moved++
			}
		}
		// Fewer than 1% of points changing cluster counts as converged.
		if iter > 0 && float64(moved)/float64(len(points)) < 0.01 {
			break
		}

		next := e.recentre(points, labels, k)
		shift := 0.0
		for i := range centroids {
			shift += centroids[i].Distance(next[i])
		}
		centroids = next

		if shift/float64(k) < e.convergence {
			break
		}
	}

	// Labels may be stale if the last step moved centroids.
	sizes := make([]int, k)
	for i, p := range points {
		labels[i] = nearestLab(p, centroids)
		sizes[labels[i]]++
	}
	return centroids, sizes
}

// seedCentroids picks k starting centroids with k-means++: each new centroid
// is drawn with probability proportional to its squared distance from the
// nearest centroid so far.
func (e *KMeansExtractor) seedCentroids(points []Lab, k int) []Lab {
	centroids := make([]Lab, 0, k)
	centroids = append(centroids, points[e.rng.Intn(len(points))])

	weights := make([]float64, len(points))
	for len(centroids) < k {
		total := 0.0
		for i, p := range points {
			d := p.Distance(centroids[nearestLab(p, centroids)])
			weights[i] = d * d
			total += weights[i]
		}

		if total == 0 {
			// Every point coincides with a centroid; the duplicate ends up empty.
			centroids = append(centroids, centroids[len(centroids)-1])
			continue
		}

		target := e.rng.Float64() * total
		chosen := len(points) - 1
		for i, w := range weights {
			target -= w
			if target <= 0 {
				chosen = i
				break
			}
		}
		centroids = append(centroids, points[chosen])
	}
	return centroids
}

// recentre moves each centroid to the mean of its points. An empty cluster
// is restarted on a random point.
func (e *KMeansExtractor) recentre(points []Lab, labels []int, k int) []Lab {
	members := make([][]Lab, k)
	for i, p := range points {
		members[labels[i]] = append(members[labels[i]], p)
	}

	centroids := make([]Lab, k)
	for i, m := range members {
		if len(m) == 0 {
			centroids[i] = points[e.rng.Intn(len(points))]
			continue
		}
		centroids[i] = Centroid(m)
	}
	return centroids
}

func nearestLab(p Lab, centroids []Lab) int {
	best, bestDist := 0, math.MaxFloat64
	for i, c := range centroids {
		if d := p.Distance(c); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
