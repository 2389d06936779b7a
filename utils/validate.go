package utils

// ValidateCoordinates 校验经纬度取值范围
func ValidateCoordinates(lat, lng float64) bool {
	if lat < -90 || lat > 90 {
		return false
	}
	if lng < -180 || lng > 180 {
		return false
	}
	return true
}
