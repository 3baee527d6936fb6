/*
Copyright © 2025 dagslott
*/
package main

import "github.com/dagslott/imagesort/cmd"

func main() {
	cmd.Execute()
}
