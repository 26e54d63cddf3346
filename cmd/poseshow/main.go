// Main entry point for the PoseShow slideshow application
package main

import (
	"log"
	"os"

	"poseshow/internal/ui"
)

func main() {
	// Set the logger prefix
	log.SetPrefix("[poseshow] ")

	ui.CreateApplication(os.Args[1:])
}
