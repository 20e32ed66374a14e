// Command birdscene shows the animated bird over the static remains.
package main

import (
	"gltf-scenes/app"
	"gltf-scenes/config"
	"gltf-scenes/internal/runner"
)

func main() {
	runner.Main(config.DefaultBird(), app.SetupBird)
}
