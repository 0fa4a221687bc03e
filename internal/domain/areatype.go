package domain

// AreaType classifies an area (e.g. "Building", "Floor", "Meeting room").
// The name is the identity — types are a small, admin-curated vocabulary.
type AreaType struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Feature is a bookable amenity an area can carry (e.g. "Projector",
// "Whiteboard"). Like AreaType, the name is the identity.
type Feature struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
