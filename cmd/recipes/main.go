package main

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/socialchef/recipe-finder/internal/cli"
)

func main() {
	cli.Execute()
}
