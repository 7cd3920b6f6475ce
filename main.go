/*
Copyright © 2025 tieubaoca
*/
package main

import (
	"github.com/joho/godotenv"
	"github.com/tieubaoca/ayuroot-be/cmd"
)

func main() {
	cmd.Execute()
}

func init() {
	// .env is optional; the environment and config file still apply.
	_ = godotenv.Load()
}
