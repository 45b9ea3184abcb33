package pipeline

import (
	"medimage-workbench/internal/config"
	"medimage-workbench/internal/transform"
)

func transformDenoise(cfg *config.Config) transform.Request {
	return transform.Denoise{
		Method:     cfg.Denoise.Method,
		KernelSize: cfg.Denoise.KernelSize,
		Diameter:   cfg.Bilateral.Diameter,
		SigmaColor: cfg.Bilateral.SigmaColor,
		SigmaSpace: cfg.Bilateral.SigmaSpace,
	}
}

// transformCenterCrop insets the image by a tenth on every side.
func transformCenterCrop(w, h int) transform.Request {
	return transform.Crop{
		X:      w / 10,
		Y:      h / 10,
		Width:  w - 2*(w/10),
		Height: h - 2*(h/10),
	}
}
