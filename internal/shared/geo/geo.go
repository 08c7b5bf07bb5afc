package geo

import "math"

const earthRadiusKm = 6371.0

// South Korea bounding box used to validate gym coordinates.
const (
	KoreaMinLat = 33.0
	KoreaMaxLat = 38.6
	KoreaMinLng = 124.0
	KoreaMaxLng = 132.0
)

// HaversineKm returns the great-circle distance between two points in kilometres.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func InKorea(lat, lng float64) bool {
	return lat >= KoreaMinLat && lat <= KoreaMaxLat && lng >= KoreaMinLng && lng <= KoreaMaxLng
}

func toRad(deg float64) float64 { return deg * math.Pi / 180 }
