package bridge

import (
	"github.com/mj1618/a11y-bridge/internal/platform"
	"github.com/mj1618/a11y-bridge/internal/platform/atspi"
	"github.com/mj1618/a11y-bridge/internal/platform/headless"
	"github.com/mj1618/a11y-bridge/internal/platform/uia"
)

// Platforms returns the catalog of built-in platform projections.
func Platforms() platform.Catalog {
	return platform.Catalog{
		uia.Name:      uia.New,
		atspi.Name:    atspi.New,
		headless.Name: headless.New,
	}
}
