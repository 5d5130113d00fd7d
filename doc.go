// Package overlay is a retained-mode UI toolkit and 3D marker layer for
// in-game overlays built on [Ebitengine].
//
// An overlay is a transparent window drawn over a running game. It shows
// panels, labels and tooltips in screen space, and billboarded markers and
// trails placed in the game's world, projected through a camera that follows
// telemetry published by the game.
//
// # Quick start
//
//	cfg := overlay.DefaultConfig()
//	screen := overlay.NewScreen(cfg)
//	panel := screen.UI().NewPanel("Squad")
//	screen.Root().AddChild(panel)
//	screen.World().Add(overlay.NewMarker(icon, mgl32.Vec3{10, 0, -40}, mgl32.Vec2{2, 2}))
//	if err := overlay.Run(screen); err != nil {
//		log.Fatal(err)
//	}
//
// For full control, implement [ebiten.Game] yourself and call
// [Screen.Update], [Screen.Draw] and [Screen.Resize].
//
// # Controls
//
// Every UI element is a [Control] owned by a [UI]. Controls refer to each
// other by [ControlID], so a disposed control simply stops resolving.
// Widget behavior is a [Widget] strategy passed to [UI.NewControl] or
// [UI.NewContainer]; optional interfaces add layout ([LayoutWidget]),
// per-frame updates ([UpdateWidget]) and painting over children
// ([PostChildPainter]).
//
// Property changes and input events are queued and delivered by [UI.Flush]
// after the mutation that raised them has finished. Child additions and
// removals are the exception: their handlers run synchronously and may
// cancel the change before anything is modified.
//
// Children paint in ascending [Control.ZIndex] order, ties in insertion
// order, and are hit-tested in reverse. A child that clips its bounds is
// clipped to its parent's content region.
//
// # Animation
//
// [Tweener] animates named properties of any [Tweenable] target with easing
// from [gween]. Tweening a property that another tween of the same target is
// animating takes it over.
//
// # 3D layer
//
// A [World] holds [Entity] values. Each entity rebuilds its cached geometry
// lazily when a position, rotation, scale or render offset changed, and the
// world draws entities back to front from the [Camera].
//
// # Scripted input
//
// [LoadScript] reads a YAML list of clicks, drags, waits and screenshots.
// Attached with [Screen.SetScript], it replays them through the input
// injection queue, one step per frame, and [Screen.Screenshot] writes the
// requested frames as PNG files.
//
// # ECS integration
//
// Controls with an EntityID forward their input to an [EntityStore]. The
// overlay/ecs package publishes them into a [Donburi] world.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package overlay
