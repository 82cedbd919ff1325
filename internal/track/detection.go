package track

// Detector class ids for vehicle classes (COCO convention).
const (
	ClassIDCar   = 2
	ClassIDTruck = 7
)

// VehicleType classifies a track by the class of its originating
// detection. Immutable after track creation.
type VehicleType string

const (
	VehicleCar   VehicleType = "car"
	VehicleTruck VehicleType = "truck"
)

// VehicleTypeForClass maps a detector class id to a vehicle type.
func VehicleTypeForClass(classID int) VehicleType {
	if classID == ClassIDCar {
		return VehicleCar
	}
	return VehicleTruck
}

// IsVehicleClass reports whether the detector class id is one the
// engine tracks.
func IsVehicleClass(classID int) bool {
	return classID == ClassIDCar || classID == ClassIDTruck
}

// Detection is one axis-aligned bounding box emitted by the external
// detector for a single frame. Coordinates are in pixel space.
type Detection struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	W          float64 `json:"w"`
	H          float64 `json:"h"`
	Confidence float64 `json:"confidence"`
	ClassID    int     `json:"class_id"`
}

// Centroid returns the geometric centre of the detection's bounding box.
func (d Detection) Centroid() (cx, cy float64) {
	return d.X + d.W/2, d.Y + d.H/2
}

// Point is a pixel-space position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Position is one centroid observation in a track's history.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	T float64 `json:"t"` // seconds since clip start
}
