package model

// Window describes the native window hosting the tree.
type Window struct {
	Origin      Point   `yaml:"origin"       json:"origin"` // client-area origin in device pixels
	ScaleFactor float64 `yaml:"scale_factor" json:"scale_factor"`
}
