// Command cowscene shows the cow model with a ripple shader that advances
// while the pointer moves over it.
package main

import (
	"gltf-scenes/app"
	"gltf-scenes/config"
	"gltf-scenes/internal/runner"
)

func main() {
	runner.Main(config.DefaultCow(), app.SetupCow)
}
