package locator

import (
	"container/heap"
	"math"

	"github.com/yourorg/sgbusbot/internal/models"
)

// entry keeps the dataset index so equal distances pop in insertion order.
type entry struct {
	dist  float64
	index int
	stop  models.StopRecord
}

type entryHeap []entry

func (h entryHeap) Len() int { return len(h) }
func (h entryHeap) Less(i, j int) bool {
	if h[i].dist != h[j].dist {
		return h[i].dist < h[j].dist
	}
	return h[i].index < h[j].index
}
func (h entryHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x interface{}) { *h = append(*h, x.(entry)) }
func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Nearest returns the k stops closest to (lat, lon), ordered by distance
// ascending. Ties keep dataset order. A k larger than the dataset returns
// the whole dataset.
func Nearest(stops []models.StopRecord, lat, lon float64, k int) []models.StopDistance {
	if k > len(stops) {
		k = len(stops)
	}
	if k <= 0 {
		return nil
	}

	h := make(entryHeap, 0, len(stops))
	for i, s := range stops {
		h = append(h, entry{
			dist:  haversineDistance(lat, lon, s.Latitude, s.Longitude),
			index: i,
			stop:  s,
		})
	}
	heap.Init(&h)

	result := make([]models.StopDistance, 0, k)
	for i := 0; i < k; i++ {
		e := heap.Pop(&h).(entry)
		result = append(result, models.StopDistance{Stop: e.stop, Meters: e.dist})
	}
	return result
}

// haversineDistance returns the great-circle distance between two points
// in meters.
func haversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371000 // meters

	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadius * c
}
