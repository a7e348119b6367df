// Package main содержит точку входа клиентского CLI сервера рецептов.
//
// Версия и дата сборки передаются через -ldflags:
//
//	go build -ldflags "-X main.buildVersion=v1.0.0 -X main.buildDate=$(date +%F)" ./cmd/recipes
package main

import "github.com/IvanChernomyrdin/go-recipe-api/internal/agent/cli"

var (
	buildVersion = "dev"
	buildDate    = "unknown"
)

func main() {
	cli.Execute(buildVersion, buildDate)
}
