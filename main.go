/*
Copyright © 2026 Paulo Suderio
*/
package main

import "github.com/suderio/arena/cmd"

func main() {
	cmd.Execute()
}
