package scenes

import (
	"errors"

	"github.com/ivlev/scene2video/internal/scene"
)

// EndCard points viewers at the tutorial source with a caption, a QR code and
// the plain URL.
func EndCard(env Env) (*scene.Scene, error) {
	if env.EndCardURL == "" {
		return nil, errors.New("end-card: url is not set")
	}
	sc := scene.New("end-card")

	err := env.Fonts.Use(helloTriangleFont, func() error {
		lato, err := env.Fonts.Lookup("Lato")
		if err != nil {
			return err
		}

		caption := scene.NewText("caption", lato, "Source code").
			ToEdge(scene.Up, scene.EdgeBuff)
		code, err := scene.NewQRCode("qrcode", env.EndCardURL, 3.5)
		if err != nil {
			return err
		}
		code.NextTo(caption, scene.Down, 0.5)
		link := scene.NewText("link", lato, env.EndCardURL, scene.WithFillOpacity(0.75)).
			ScaleBy(0.6).
			NextTo(code, scene.Down, 0.4)

		sc.Add(caption, code, link)
		sc.Play(scene.FadeIn(caption), scene.Create(code), scene.FadeIn(link))
		sc.Wait(4)
		sc.Play(scene.FadeOut(caption), scene.FadeOut(code), scene.FadeOut(link))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sc, nil
}
