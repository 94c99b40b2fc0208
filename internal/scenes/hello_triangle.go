package scenes

import (
	"image"

	"github.com/ivlev/scene2video/internal/scene"
)

const helloTriangleFont = "Lato/Lato-Regular.ttf"

// HelloTriangle is the intro of the first WebGL tutorial: title card with a
// triangle, then the two-column "WebGL" overview with three demo boxes.
func HelloTriangle(env Env) (*scene.Scene, error) {
	sc := scene.New("hello-triangle")

	err := env.Fonts.Use(helloTriangleFont, func() error {
		lato, err := env.Fonts.Lookup("Lato")
		if err != nil {
			return err
		}

		title := scene.NewText("title", lato, "WebGL Tutorials", scene.WithFontSize(60)).
			Shift(scene.Up.Mul(1.25))
		subtitle := scene.NewText("subtitle", lato, "01 - Hello, Triangle!", scene.WithFillOpacity(0.5)).
			NextTo(title, scene.Down, 0.3).
			ScaleBy(0.75)
		graphic := scene.NewTriangle("triangle", scene.WithColor(scene.Indigo)).
			SetFill(scene.Indigo, 1).
			NextTo(subtitle, scene.Down, 0.6)

		sc.Add(title, subtitle, graphic)
		sc.Play(scene.Write(title), scene.FadeIn(subtitle), scene.Create(graphic))
		sc.Wait(3)

		header := scene.NewText("header", lato, "WebGL").
			ScaleBy(1.8).
			ToEdge(scene.Up, scene.EdgeBuff)
		divider := scene.NewLine("divider", scene.V(0, 2), scene.V(0, -3)).
			SetOpacity(0.35)

		rightHalf := scene.V(scene.ScreenRectangleWidth(4)/2, 0)
		leftHalf := rightHalf.Neg()

		coolVisuals := scene.NewText("cool_visuals", lato, "Cool Visuals").
			ScaleBy(0.75).
			NextTo(header, scene.Down, scene.DefaultBuff).
			Shift(leftHalf)
		fastTools := scene.NewText("fast_tools", lato, "Fast creative tools").
			ScaleBy(0.75).
			NextTo(header, scene.Down, scene.DefaultBuff).
			Shift(rightHalf)

		sc.Add(header, divider, coolVisuals, fastTools)
		sc.Play(scene.FadeTransform(title, header), scene.FadeOut(subtitle), scene.Uncreate(graphic))
		sc.Play(scene.Create(divider))
		sc.Play(
			scene.Write(coolVisuals, scene.RunTime(1)),
			scene.Write(fastTools, scene.RunTime(1)),
		)

		terra := demoBox("terra", env.thumbnail(0)).Shift(leftHalf)
		game := demoBox("game", env.thumbnail(1)).Shift(leftHalf.Add(scene.Down))
		fluidSim := demoBox("fluid_sim", env.thumbnail(2)).Shift(leftHalf.Add(scene.Down.Mul(2)))

		sc.Add(terra, game, fluidSim)
		sc.Play(
			scene.Create(terra),
			scene.Create(game, scene.LagRatio(0.1)),
			scene.Create(fluidSim, scene.LagRatio(0.2)),
		)
		sc.Wait(5)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sc, nil
}

// demoBox is a 16:9 frame for a demo preview.
func demoBox(id string, thumb image.Image) *scene.Object {
	var opts []scene.Option
	if thumb != nil {
		opts = append(opts, scene.WithImage(thumb))
	}
	return scene.NewRectangle(id, 16, 9, opts...).ScaleBy(0.25)
}
