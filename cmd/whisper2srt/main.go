package main

import "github.com/devbush/whisper2srt/internal/adapters/cli"

func main() {
	cli.Execute()
}
