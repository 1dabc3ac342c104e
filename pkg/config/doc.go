// Package config reads scene and script files.
//
// Both formats are TOML. A scene describes containers, their layout settings
// and their children:
//
//	name = "demo"
//	width = 640
//	height = 240
//
//	[[container]]
//	name = "row"
//	x = 10
//	y = 10
//	width = 300
//	height = 60
//
//	  [container.layout]
//	  spacing = 10
//	  wrap = false
//	  switch_threshold = "middle"
//	  anim_duration = "250ms"
//
//	  [[container.item]]
//	  label = "a"
//	  width = 50
//	  height = 40
//
//	  [[container.fixed]]
//	  label = "caption"
//
// A script is a list of pointer events and waits played against a scene:
//
//	step = "16ms"
//
//	[[event]]
//	kind = "press"
//	x = 195
//	y = 25
//
//	[[event]]
//	kind = "move"
//	x = 125
//	y = 25
//	steps = 8
//
//	[[event]]
//	kind = "release"
//
//	[[event]]
//	kind = "settle"
//
// Unknown keys are rejected so typos surface as errors instead of silently
// ignored settings. The same structures decode from JSON for the preview
// service.
package config
